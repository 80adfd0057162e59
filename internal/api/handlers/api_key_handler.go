package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	apiContext "github.com/emfoursolutions/mtxbridge/internal/api/context"
	"github.com/emfoursolutions/mtxbridge/internal/engine/keys"
	"github.com/emfoursolutions/mtxbridge/internal/pkg/errors"
	"github.com/emfoursolutions/mtxbridge/internal/platform/config"
	"github.com/emfoursolutions/mtxbridge/internal/platform/models"
	"github.com/emfoursolutions/mtxbridge/internal/platform/repositories"
)

type APIKeyHandler struct {
	keyRepo      *repositories.APIKeyRepository
	customerRepo *repositories.CustomerRepository
	cfg          config.MediaMTXConfig
}

func NewAPIKeyHandler(keyRepo *repositories.APIKeyRepository, customerRepo *repositories.CustomerRepository, cfg config.MediaMTXConfig) *APIKeyHandler {
	return &APIKeyHandler{
		keyRepo:      keyRepo,
		customerRepo: customerRepo,
		cfg:          cfg,
	}
}

// Create issues a new stream key for a customer. The plaintext key appears in
// this response and nowhere else; only its hash and display prefix are stored.
func (h *APIKeyHandler) Create(w http.ResponseWriter, r *http.Request) {
	params := r.Context().Value(apiContext.Params).(httprouter.Params)
	customerID := params.ByName("customer_id")

	customer, err := h.customerRepo.GetByID(customerID)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}
	if customer == nil {
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Customer not found", nil)
		return
	}

	var req struct {
		Name          string `json:"name"`
		CanPublish    bool   `json:"can_publish"`
		CanRead       bool   `json:"can_read"`
		ExpiresInDays int    `json:"expires_in_days"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}
	if req.Name == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Name is required", nil)
		return
	}

	rawKey, err := keys.Generate(h.cfg.KeyPrefix, h.cfg.KeyLength)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to generate key", nil)
		return
	}

	apiKey := &models.APIKey{
		CustomerID: customer.ID,
		Name:       req.Name,
		KeyHash:    keys.Hash(rawKey),
		KeyPrefix:  keys.DisplayPrefix(rawKey),
		CanPublish: req.CanPublish,
		CanRead:    req.CanRead,
	}

	if req.ExpiresInDays > 0 {
		exp := time.Now().Add(time.Duration(req.ExpiresInDays) * 24 * time.Hour).Unix()
		apiKey.ExpiresAt = &exp
	}

	if err := h.keyRepo.Create(apiKey); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to create key", nil)
		return
	}

	response := struct {
		ID         string `json:"id"`
		Key        string `json:"key"`
		Name       string `json:"name"`
		KeyPrefix  string `json:"key_prefix"`
		CanPublish bool   `json:"can_publish"`
		CanRead    bool   `json:"can_read"`
		ExpiresAt  *int64 `json:"expires_at,omitempty"`
		CreatedAt  int64  `json:"created_at"`
	}{
		ID:         apiKey.ID,
		Key:        rawKey,
		Name:       apiKey.Name,
		KeyPrefix:  apiKey.KeyPrefix,
		CanPublish: apiKey.CanPublish,
		CanRead:    apiKey.CanRead,
		ExpiresAt:  apiKey.ExpiresAt,
		CreatedAt:  apiKey.CreatedAt,
	}

	writeJSON(w, http.StatusCreated, response)
}

func (h *APIKeyHandler) List(w http.ResponseWriter, r *http.Request) {
	params := r.Context().Value(apiContext.Params).(httprouter.Params)

	keyList, err := h.keyRepo.ListByCustomer(params.ByName("customer_id"))
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}

	writeJSON(w, http.StatusOK, keyList)
}

func (h *APIKeyHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	key, ok := h.lookup(w, r)
	if !ok {
		return
	}

	if err := h.keyRepo.Revoke(key.ID); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to revoke key", nil)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *APIKeyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	key, ok := h.lookup(w, r)
	if !ok {
		return
	}

	if err := h.keyRepo.Delete(key.ID); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to delete key", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIKeyHandler) lookup(w http.ResponseWriter, r *http.Request) (*models.APIKey, bool) {
	params := r.Context().Value(apiContext.Params).(httprouter.Params)
	key, err := h.keyRepo.GetByID(params.ByName("key_id"))
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return nil, false
	}
	if key == nil {
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "API key not found", nil)
		return nil, false
	}
	return key, true
}
