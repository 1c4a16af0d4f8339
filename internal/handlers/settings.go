package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/greencity/waste-pickup/internal/audit"
	"github.com/greencity/waste-pickup/internal/db"
	"github.com/greencity/waste-pickup/internal/middleware"
	"github.com/greencity/waste-pickup/internal/models"
)

// SettingsHandler serves the admin system settings endpoints
type SettingsHandler struct {
	settings db.SettingsCollection
	audit    *audit.Recorder
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settings db.SettingsCollection, recorder *audit.Recorder) *SettingsHandler {
	return &SettingsHandler{
		settings: settings,
		audit:    recorder,
	}
}

// Get handles GET /api/admin/settings
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.GetConfig(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, settings)
}

// sameWindow compares two maintenance windows by value, treating a nil
// boundary as equal only to another nil boundary.
func sameWindow(a, b models.MaintenanceWindow) bool {
	sameTime := func(x, y *time.Time) bool {
		if x == nil || y == nil {
			return x == y
		}
		return x.Equal(*y)
	}
	return sameTime(a.Start, b.Start) && sameTime(a.End, b.End)
}

// Pointer fields distinguish "not sent" from an explicit false/empty.
type updateSettingsRequest struct {
	MaintenanceMode       *bool                     `json:"maintenance_mode"`
	MaintenanceMessage    *string                   `json:"maintenance_message"`
	MaintenanceWindow     *models.MaintenanceWindow `json:"maintenance_window"`
	AllowIssueReporting   *bool                     `json:"allow_issue_reporting"`
	AllowPickupScheduling *bool                     `json:"allow_pickup_scheduling"`
}

// Update handles PUT /api/admin/settings. It diffs old against new and
// records one TOGGLE_FEATURE audit entry carrying only the fields that
// actually changed.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	var req updateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	adminID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user id", http.StatusUnauthorized)
		return
	}

	settings, err := h.settings.GetConfig(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	previous := bson.M{}
	changes := bson.M{}

	if req.MaintenanceMode != nil && *req.MaintenanceMode != settings.MaintenanceMode {
		previous["maintenance_mode"] = settings.MaintenanceMode
		changes["maintenance_mode"] = *req.MaintenanceMode
		settings.MaintenanceMode = *req.MaintenanceMode
	}
	if req.MaintenanceMessage != nil && *req.MaintenanceMessage != settings.MaintenanceMessage {
		previous["maintenance_message"] = settings.MaintenanceMessage
		changes["maintenance_message"] = *req.MaintenanceMessage
		settings.MaintenanceMessage = *req.MaintenanceMessage
	}
	if req.MaintenanceWindow != nil && !sameWindow(*req.MaintenanceWindow, settings.MaintenanceWindow) {
		previous["maintenance_window"] = settings.MaintenanceWindow
		changes["maintenance_window"] = *req.MaintenanceWindow
		settings.MaintenanceWindow = *req.MaintenanceWindow
	}
	if req.AllowIssueReporting != nil && *req.AllowIssueReporting != settings.AllowIssueReporting {
		previous["allow_issue_reporting"] = settings.AllowIssueReporting
		changes["allow_issue_reporting"] = *req.AllowIssueReporting
		settings.AllowIssueReporting = *req.AllowIssueReporting
	}
	if req.AllowPickupScheduling != nil && *req.AllowPickupScheduling != settings.AllowPickupScheduling {
		previous["allow_pickup_scheduling"] = settings.AllowPickupScheduling
		changes["allow_pickup_scheduling"] = *req.AllowPickupScheduling
		settings.AllowPickupScheduling = *req.AllowPickupScheduling
	}

	settings.UpdatedBy = adminID
	if err := h.settings.SaveConfig(r.Context(), *settings); err != nil {
		writeError(w, err)
		return
	}

	// No entry for a write that changed nothing.
	if len(changes) > 0 {
		h.audit.Record(r.Context(), models.AuditLogEntry{
			Admin:         adminID,
			ActionType:    models.ActionToggleFeature,
			TargetType:    models.TargetSystemSettings,
			PreviousValue: previous,
			NewValue:      changes,
			Meta: models.AuditMeta{
				IP:     middleware.ClientIP(r),
				Device: r.UserAgent(),
			},
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"message":  "System settings updated successfully",
		"settings": settings,
	})
}
