package handlers

import (
	"net/http"
	"strconv"

	"github.com/greencity/waste-pickup/internal/audit"
)

// AuditHandler serves the admin audit trail endpoint
type AuditHandler struct {
	recorder *audit.Recorder
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(recorder *audit.Recorder) *AuditHandler {
	return &AuditHandler{recorder: recorder}
}

// List handles GET /api/admin/logs?page=N
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	page := int64(1)
	if raw := r.URL.Query().Get("page"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil && parsed > 0 {
			page = parsed
		}
	}

	result, err := h.recorder.List(r.Context(), page)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
