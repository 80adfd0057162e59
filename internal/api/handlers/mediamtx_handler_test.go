package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emfoursolutions/mtxbridge/internal/engine/keys"
	"github.com/emfoursolutions/mtxbridge/internal/engine/streamauth"
	"github.com/emfoursolutions/mtxbridge/internal/engine/webhooks"
	"github.com/emfoursolutions/mtxbridge/internal/platform/audit"
	"github.com/emfoursolutions/mtxbridge/internal/platform/models"
)

type stubKeyStore struct {
	key *models.APIKey
}

func (s *stubKeyStore) GetByHash(hash string) (*models.APIKey, error) {
	if s.key != nil && s.key.KeyHash == hash {
		return s.key, nil
	}
	return nil, nil
}

func (s *stubKeyStore) UpdateLastUsed(id string) error { return nil }

type stubCustomerStore struct {
	customer *models.Customer
}

func (s *stubCustomerStore) GetByID(id string) (*models.Customer, error) {
	if s.customer != nil && s.customer.ID == id {
		return s.customer, nil
	}
	return nil, nil
}

type stubRecorder struct {
	entries []audit.Entry
}

func (s *stubRecorder) Record(e audit.Entry) { s.entries = append(s.entries, e) }

func newTestHandler(secret string) (*MediaMTXHandler, *stubRecorder) {
	ks := &stubKeyStore{key: &models.APIKey{
		ID:         "key_1",
		CustomerID: "cus_1",
		KeyHash:    keys.Hash("mtx_streamkey"),
		KeyPrefix:  "mtx_stre",
		IsActive:   true,
		CanPublish: true,
		CanRead:    true,
	}}
	cs := &stubCustomerStore{customer: &models.Customer{ID: "cus_1", Name: "Acme", IsActive: true}}
	rec := &stubRecorder{}

	authorizer := streamauth.NewAuthorizer(streamauth.NewVerifier(ks, cs), "mtx_", rec)
	return NewMediaMTXHandler(authorizer, secret), rec
}

func postAuth(h *MediaMTXHandler, body []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/mediamtx/auth", bytes.NewReader(body))
	if signature != "" {
		req.Header.Set("X-MediaMTX-Signature", signature)
	}
	rr := httptest.NewRecorder()
	h.Auth(rr, req)
	return rr
}

func TestAuthHookAllow(t *testing.T) {
	h, rec := newTestHandler("")

	body, _ := json.Marshal(streamauth.Request{
		Action: "publish",
		Path:   "live/cam1",
		Query:  "api_key=mtx_streamkey",
		IP:     "10.0.0.1",
	})
	rr := postAuth(h, body, "")

	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Authenticated bool   `json:"authenticated"`
		CustomerID    string `json:"customer_id"`
		CustomerName  string `json:"customer_name"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Authenticated)
	assert.Equal(t, "cus_1", resp.CustomerID)
	assert.Equal(t, "Acme", resp.CustomerName)

	require.Len(t, rec.entries, 1)
	assert.Equal(t, streamauth.OutcomeAllowed, rec.entries[0].Outcome)
}

func TestAuthHookDeniesUnknownKey(t *testing.T) {
	h, _ := newTestHandler("")

	body, _ := json.Marshal(streamauth.Request{Action: "read", Query: "api_key=mtx_unknown"})
	rr := postAuth(h, body, "")

	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Invalid API key", resp["error"])
}

func TestAuthHookMalformedBody(t *testing.T) {
	h, rec := newTestHandler("")

	for _, body := range [][]byte{nil, []byte("not json")} {
		rr := postAuth(h, body, "")
		assert.Equal(t, http.StatusBadRequest, rr.Code)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "Invalid request", resp["error"])
	}

	// Malformed input never reaches the decision pipeline
	assert.Empty(t, rec.entries)
}

func TestAuthHookSignature(t *testing.T) {
	secret := "hook-secret"
	h, rec := newTestHandler(secret)

	body, _ := json.Marshal(streamauth.Request{Action: "read", Query: "api_key=mtx_streamkey"})

	t.Run("Valid", func(t *testing.T) {
		rr := postAuth(h, body, webhooks.Sign(secret, body))
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Missing", func(t *testing.T) {
		rr := postAuth(h, body, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "Invalid signature", resp["error"])
	})

	t.Run("Wrong", func(t *testing.T) {
		rr := postAuth(h, body, webhooks.Sign("other-secret", body))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	// Only the signed request produced a decision
	assert.Len(t, rec.entries, 1)
}

func TestEventWebhook(t *testing.T) {
	h, _ := newTestHandler("")

	body := []byte(`{"event":"stream_started","path":"live/cam1"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/mediamtx/webhook", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Event(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]bool
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp["received"])
}
