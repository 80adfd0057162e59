package streamauth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/emfoursolutions/mtxbridge/internal/engine/keys"
	"github.com/emfoursolutions/mtxbridge/internal/platform/models"
)

// Failure taxonomy. ErrKeyNotFound and ErrKeyInvalid are distinguished in
// audit records but collapse to the same caller-visible response, so a probe
// cannot tell an unknown key from a revoked or expired one. Store errors are
// returned wrapped and unmatched by these sentinels.
var (
	ErrKeyNotFound      = errors.New("api key not found")
	ErrKeyInvalid       = errors.New("api key inactive or expired")
	ErrCustomerInactive = errors.New("customer account is inactive")
)

// KeyStore is what the verifier needs from the API key table.
type KeyStore interface {
	GetByHash(hash string) (*models.APIKey, error)
	UpdateLastUsed(id string) error
}

// CustomerStore resolves a key's owner for the independent owner gate.
type CustomerStore interface {
	GetByID(id string) (*models.Customer, error)
}

type Verifier struct {
	keys      KeyStore
	customers CustomerStore
	now       func() time.Time
}

func NewVerifier(keyStore KeyStore, customerStore CustomerStore) *Verifier {
	return &Verifier{
		keys:      keyStore,
		customers: customerStore,
		now:       time.Now,
	}
}

// Verify resolves a candidate key to its record and owner. Validity is
// evaluated fresh on every call: a revocation or expiry is effective on the
// very next request. On success the key's last_used_at is touched
// best-effort before returning.
func (v *Verifier) Verify(candidate string) (*models.APIKey, *models.Customer, error) {
	digest := keys.Hash(candidate)

	key, err := v.keys.GetByHash(digest)
	if err != nil {
		return nil, nil, fmt.Errorf("key lookup: %w", err)
	}
	if key == nil {
		return nil, nil, ErrKeyNotFound
	}

	// The indexed lookup found the row; the equality itself is rechecked in
	// constant time so the comparison cannot leak digest bytes.
	if subtle.ConstantTimeCompare([]byte(digest), []byte(key.KeyHash)) != 1 {
		return nil, nil, ErrKeyNotFound
	}

	if !key.IsValid(v.now().Unix()) {
		return nil, nil, ErrKeyInvalid
	}

	customer, err := v.customers.GetByID(key.CustomerID)
	if err != nil {
		return nil, nil, fmt.Errorf("customer lookup: %w", err)
	}
	if customer == nil || !customer.IsActive {
		return nil, nil, ErrCustomerInactive
	}

	if err := v.keys.UpdateLastUsed(key.ID); err != nil {
		log.Warn().Err(err).Str("key_id", key.ID).Msg("failed to update key last_used_at")
	}

	return key, customer, nil
}
