package middleware

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/greencity/waste-pickup/internal/gate"
	"github.com/greencity/waste-pickup/internal/models"
)

// GateMiddleware is the HTTP face of the feature gate. It must wrap
// every state-changing route; pure reads never pass through it.
type GateMiddleware struct {
	gate *gate.FeatureGate
}

// NewGateMiddleware creates a new feature gate middleware
func NewGateMiddleware(g *gate.FeatureGate) *GateMiddleware {
	return &GateMiddleware{gate: g}
}

// RequireCapability blocks the request when maintenance mode or the
// capability's toggle forbids it for the caller's role. Administrators
// always pass.
func (m *GateMiddleware) RequireCapability(capability gate.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := models.RoleResident
			if claims, ok := GetUserFromContext(r.Context()); ok {
				role = claims.Role
			}

			err := m.gate.Authorize(r.Context(), capability, role)
			if err == nil {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Content-Type", "application/json")

			var maintenance *gate.MaintenanceError
			if errors.As(err, &maintenance) {
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]interface{}{
					"success":     false,
					"message":     maintenance.Message,
					"maintenance": true,
					"window":      maintenance.Window,
				})
				return
			}

			var disabled *gate.FeatureDisabledError
			if errors.As(err, &disabled) {
				w.WriteHeader(http.StatusForbidden)
				json.NewEncoder(w).Encode(map[string]interface{}{
					"success":         false,
					"message":         disabled.Error(),
					"featureDisabled": true,
					"feature":         disabled.Feature,
				})
				return
			}

			log.WithError(err).Error("feature gate check failed")
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"success": false,
				"message": "Server error checking feature availability",
			})
		})
	}
}
