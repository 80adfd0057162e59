package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/emfoursolutions/mtxbridge/internal/engine/streamauth"
	"github.com/emfoursolutions/mtxbridge/internal/engine/webhooks"
)

const signatureHeader = "X-MediaMTX-Signature"

// MediaMTXHandler serves the endpoints MediaMTX calls directly: the external
// auth hook and the stream-event webhook.
type MediaMTXHandler struct {
	authorizer    *streamauth.Authorizer
	webhookSecret string
}

func NewMediaMTXHandler(authorizer *streamauth.Authorizer, webhookSecret string) *MediaMTXHandler {
	return &MediaMTXHandler{
		authorizer:    authorizer,
		webhookSecret: webhookSecret,
	}
}

// checkSignature enforces the shared-secret HMAC over the raw body. With a
// secret configured, a missing header is rejected the same as a bad one.
func (h *MediaMTXHandler) checkSignature(r *http.Request, body []byte) bool {
	if h.webhookSecret == "" {
		return true
	}
	signature := r.Header.Get(signatureHeader)
	if signature == "" || !webhooks.Verify(h.webhookSecret, body, signature) {
		log.Warn().Str("ip", r.RemoteAddr).Msg("mediamtx webhook signature verification failed")
		return false
	}
	return true
}

// Auth is the MediaMTX external authentication hook, invoked on every stream
// publish/read attempt.
func (h *MediaMTXHandler) Auth(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request"})
		return
	}

	if !h.checkSignature(r, body) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid signature"})
		return
	}

	var req streamauth.Request
	if len(body) == 0 || json.Unmarshal(body, &req) != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request"})
		return
	}

	decision := h.authorizer.Decide(&req)
	writeJSON(w, decision.Status, decision.Body)
}

// Event acknowledges MediaMTX stream lifecycle events (stream started,
// reader connected, and so on). Events are logged; audit-grade records exist
// only for authorization decisions.
func (h *MediaMTXHandler) Event(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request"})
		return
	}

	if !h.checkSignature(r, body) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid signature"})
		return
	}

	var event struct {
		Event string `json:"event"`
		Path  string `json:"path"`
	}
	if len(body) == 0 || json.Unmarshal(body, &event) != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request"})
		return
	}

	log.Info().Str("event", event.Event).Str("path", event.Path).Msg("mediamtx webhook event")

	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
