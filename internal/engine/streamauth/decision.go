package streamauth

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/emfoursolutions/mtxbridge/internal/engine/keys"
	"github.com/emfoursolutions/mtxbridge/internal/platform/audit"
)

// Audit outcome names. NotFound and Invalid stay distinct here even though
// their responses are identical.
const (
	OutcomeAllowed          = "allowed"
	OutcomeNoCredential     = "no_credential"
	OutcomeKeyNotFound      = "key_not_found"
	OutcomeKeyInvalid       = "key_invalid"
	OutcomeCustomerInactive = "customer_inactive"
	OutcomePermissionDenied = "permission_denied"
	OutcomeStoreError       = "store_error"
)

type AllowBody struct {
	Authenticated bool   `json:"authenticated"`
	CustomerID    string `json:"customer_id"`
	CustomerName  string `json:"customer_name"`
}

type DenyBody struct {
	Error string `json:"error"`
}

// Decision is the terminal result of one authorization request, ready for
// the transport layer to serialize.
type Decision struct {
	Status int
	Body   interface{}
}

type AuditRecorder interface {
	Record(audit.Entry)
}

// Authorizer composes extraction, verification and permission evaluation into
// one request-scoped transaction. It holds no per-request state and is safe
// for concurrent use.
type Authorizer struct {
	verifier  *Verifier
	keyPrefix string
	audit     AuditRecorder
}

func NewAuthorizer(verifier *Verifier, keyPrefix string, recorder AuditRecorder) *Authorizer {
	if keyPrefix == "" {
		keyPrefix = keys.DefaultPrefix
	}
	return &Authorizer{
		verifier:  verifier,
		keyPrefix: keyPrefix,
		audit:     recorder,
	}
}

func (a *Authorizer) record(req *Request, outcome, keyPrefix, customerID string) {
	a.audit.Record(audit.Entry{
		Action:     req.Action,
		Path:       req.Path,
		Protocol:   req.Protocol,
		IPAddress:  req.IP,
		Outcome:    outcome,
		KeyPrefix:  keyPrefix,
		CustomerID: customerID,
	})
}

// Decide runs the full pipeline for one request. Every return path records
// exactly one audit entry.
func (a *Authorizer) Decide(req *Request) Decision {
	candidate, ok := ExtractKey(req, a.keyPrefix)
	if !ok {
		log.Warn().Str("action", req.Action).Str("ip", req.IP).Msg("no API key provided")
		a.record(req, OutcomeNoCredential, "", "")
		return Decision{Status: http.StatusUnauthorized, Body: DenyBody{Error: "No API key provided"}}
	}

	key, customer, err := a.verifier.Verify(candidate)
	if err != nil {
		switch {
		case errors.Is(err, ErrKeyNotFound):
			log.Warn().Str("action", req.Action).Str("ip", req.IP).Msg("invalid API key")
			a.record(req, OutcomeKeyNotFound, keys.DisplayPrefix(candidate), "")
			return Decision{Status: http.StatusUnauthorized, Body: DenyBody{Error: "Invalid API key"}}
		case errors.Is(err, ErrKeyInvalid):
			log.Warn().Str("action", req.Action).Str("ip", req.IP).Msg("inactive or expired API key")
			a.record(req, OutcomeKeyInvalid, keys.DisplayPrefix(candidate), "")
			return Decision{Status: http.StatusUnauthorized, Body: DenyBody{Error: "Invalid API key"}}
		case errors.Is(err, ErrCustomerInactive):
			log.Warn().Str("action", req.Action).Str("ip", req.IP).Msg("inactive customer attempted stream access")
			a.record(req, OutcomeCustomerInactive, keys.DisplayPrefix(candidate), "")
			return Decision{Status: http.StatusUnauthorized, Body: DenyBody{Error: "Customer account is inactive"}}
		default:
			// Store failure: deny rather than hang or allow. The surface
			// stays indistinguishable from a bad credential.
			log.Error().Err(err).Str("action", req.Action).Str("ip", req.IP).Msg("credential store error during verification")
			a.record(req, OutcomeStoreError, "", "")
			return Decision{Status: http.StatusUnauthorized, Body: DenyBody{Error: "Invalid API key"}}
		}
	}

	if !Allowed(key, req.Action) {
		log.Warn().
			Str("action", req.Action).
			Str("key_prefix", key.KeyPrefix).
			Str("customer_id", customer.ID).
			Msg("API key lacks permission")
		a.record(req, OutcomePermissionDenied, key.KeyPrefix, customer.ID)
		return Decision{Status: http.StatusForbidden, Body: DenyBody{Error: fmt.Sprintf("No permission to %s", req.Action)}}
	}

	log.Info().
		Str("action", req.Action).
		Str("path", req.Path).
		Str("ip", req.IP).
		Str("key_prefix", key.KeyPrefix).
		Str("customer_id", customer.ID).
		Msg("stream access authenticated")
	a.record(req, OutcomeAllowed, key.KeyPrefix, customer.ID)

	return Decision{Status: http.StatusOK, Body: AllowBody{
		Authenticated: true,
		CustomerID:    customer.ID,
		CustomerName:  customer.Name,
	}}
}
