package handlers

import (
	"net/http"
	"strconv"

	"github.com/emfoursolutions/mtxbridge/internal/pkg/errors"
	"github.com/emfoursolutions/mtxbridge/internal/platform/audit"
)

type AuditHandler struct {
	auditLog *audit.Logger
}

func NewAuditHandler(auditLog *audit.Logger) *AuditHandler {
	return &AuditHandler{auditLog: auditLog}
}

func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := h.auditLog.List(limit)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}
