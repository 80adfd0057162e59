package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	apiContext "github.com/emfoursolutions/mtxbridge/internal/api/context"
	"github.com/emfoursolutions/mtxbridge/internal/pkg/errors"
	"github.com/emfoursolutions/mtxbridge/internal/platform/models"
	"github.com/emfoursolutions/mtxbridge/internal/platform/repositories"
)

type CustomerHandler struct {
	customerRepo *repositories.CustomerRepository
}

func NewCustomerHandler(customerRepo *repositories.CustomerRepository) *CustomerHandler {
	return &CustomerHandler{customerRepo: customerRepo}
}

func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         string `json:"name"`
		Email        string `json:"email"`
		Organization string `json:"organization"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}
	if req.Name == "" || req.Email == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Name and email are required", nil)
		return
	}

	existing, err := h.customerRepo.GetByEmail(req.Email)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}
	if existing != nil {
		errors.WriteError(w, http.StatusConflict, errors.ErrCodeConflict, "Customer with this email already exists", nil)
		return
	}

	customer := &models.Customer{
		Name:         req.Name,
		Email:        req.Email,
		Organization: req.Organization,
	}
	if err := h.customerRepo.Create(customer); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to create customer", nil)
		return
	}

	writeJSON(w, http.StatusCreated, customer)
}

func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	customers, err := h.customerRepo.List()
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}
	writeJSON(w, http.StatusOK, customers)
}

func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	customer, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	customer, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req struct {
		Name         *string `json:"name"`
		Email        *string `json:"email"`
		Organization *string `json:"organization"`
		IsActive     *bool   `json:"is_active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	if req.Name != nil {
		customer.Name = *req.Name
	}
	if req.Email != nil {
		customer.Email = *req.Email
	}
	if req.Organization != nil {
		customer.Organization = *req.Organization
	}
	if req.IsActive != nil {
		customer.IsActive = *req.IsActive
	}

	if err := h.customerRepo.Update(customer); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to update customer", nil)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

// Deactivate flips the customer inactive and revokes its keys, so every
// subsequent stream-open attempt with those keys is denied.
func (h *CustomerHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	customer, ok := h.lookup(w, r)
	if !ok {
		return
	}

	if err := h.customerRepo.Deactivate(customer.ID); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to deactivate customer", nil)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	customer, ok := h.lookup(w, r)
	if !ok {
		return
	}

	if err := h.customerRepo.Delete(customer.ID); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to delete customer", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CustomerHandler) lookup(w http.ResponseWriter, r *http.Request) (*models.Customer, bool) {
	params := r.Context().Value(apiContext.Params).(httprouter.Params)
	customer, err := h.customerRepo.GetByID(params.ByName("customer_id"))
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return nil, false
	}
	if customer == nil {
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Customer not found", nil)
		return nil, false
	}
	return customer, true
}
