package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/greencity/waste-pickup/internal/db"
	"github.com/greencity/waste-pickup/internal/gate"
	"github.com/greencity/waste-pickup/internal/lifecycle"
)

// Machine-readable error codes returned alongside the human message, so
// clients can branch on kind instead of parsing strings.
const (
	codeValidation             = "VALIDATION_ERROR"
	codeIllegalTransition      = "ILLEGAL_TRANSITION"
	codeInvalidState           = "INVALID_STATE"
	codeNotFound               = "NOT_FOUND"
	codeConcurrentModification = "CONCURRENT_MODIFICATION"
	codeServiceUnavailable     = "SERVICE_UNAVAILABLE"
	codeFeatureDisabled        = "FEATURE_DISABLED"
	codeServerError            = "SERVER_ERROR"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps a core error to its HTTP status and JSON envelope.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, lifecycle.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errorBody(err, codeValidation))
	case errors.Is(err, lifecycle.ErrIllegalTransition):
		writeJSON(w, http.StatusBadRequest, errorBody(err, codeIllegalTransition))
	case errors.Is(err, lifecycle.ErrInvalidState):
		writeJSON(w, http.StatusBadRequest, errorBody(err, codeInvalidState))
	case errors.Is(err, db.ErrPickupNotFound), errors.Is(err, db.ErrUserNotFound), errors.Is(err, db.ErrIssueNotFound):
		writeJSON(w, http.StatusNotFound, errorBody(err, codeNotFound))
	case errors.Is(err, db.ErrConcurrentModification):
		writeJSON(w, http.StatusConflict, errorBody(err, codeConcurrentModification))
	case errors.Is(err, gate.ErrServiceUnavailable):
		body := errorBody(err, codeServiceUnavailable)
		body["maintenance"] = true
		var maintenance *gate.MaintenanceError
		if errors.As(err, &maintenance) {
			body["window"] = maintenance.Window
		}
		writeJSON(w, http.StatusServiceUnavailable, body)
	case errors.Is(err, gate.ErrFeatureDisabled):
		body := errorBody(err, codeFeatureDisabled)
		body["featureDisabled"] = true
		writeJSON(w, http.StatusForbidden, body)
	default:
		log.WithError(err).Error("request failed")
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"message": "Server error",
			"code":    codeServerError,
		})
	}
}

func errorBody(err error, code string) map[string]interface{} {
	return map[string]interface{}{
		"success": false,
		"message": err.Error(),
		"code":    code,
	}
}
