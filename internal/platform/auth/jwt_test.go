package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emfoursolutions/mtxbridge/internal/platform/config"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService(config.JWTConfig{Secret: "test-secret", AccessTokenTTL: time.Hour})

	token, err := svc.GenerateAccessToken("usr_1", "admin", true)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "usr_1", claims.UserID)
	assert.Equal(t, "admin", claims.Username)
	assert.True(t, claims.IsAdmin)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	svc := NewTokenService(config.JWTConfig{Secret: "test-secret", AccessTokenTTL: time.Hour})
	other := NewTokenService(config.JWTConfig{Secret: "other-secret", AccessTokenTTL: time.Hour})

	token, err := svc.GenerateAccessToken("usr_1", "admin", false)
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	svc := NewTokenService(config.JWTConfig{Secret: "test-secret", AccessTokenTTL: -time.Minute})

	token, err := svc.GenerateAccessToken("usr_1", "admin", false)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := NewTokenService(config.JWTConfig{Secret: "test-secret", AccessTokenTTL: time.Hour})

	_, err := svc.ValidateToken("not.a.token")
	assert.Error(t, err)
}
