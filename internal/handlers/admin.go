package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/greencity/waste-pickup/internal/db"
	"github.com/greencity/waste-pickup/internal/lifecycle"
	"github.com/greencity/waste-pickup/internal/middleware"
	"github.com/greencity/waste-pickup/internal/models"
)

// AdminPickupHandler serves the administrative pickup endpoints
type AdminPickupHandler struct {
	lifecycle *lifecycle.Service
	pickups   db.PickupCollection
}

// NewAdminPickupHandler creates a new admin pickup handler
func NewAdminPickupHandler(svc *lifecycle.Service, pickups db.PickupCollection) *AdminPickupHandler {
	return &AdminPickupHandler{
		lifecycle: svc,
		pickups:   pickups,
	}
}

// List handles GET /api/admin/pickups with status and search filters
func (h *AdminPickupHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := db.PickupFilter{
		Search: r.URL.Query().Get("search"),
	}
	if status := r.URL.Query().Get("status"); status != "" && status != "All" {
		filter.Status = models.Status(strings.ToLower(status))
	}

	pickups, err := h.pickups.FindPickups(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, pickups)
}

// Get handles GET /api/admin/pickups/{id}
func (h *AdminPickupHandler) Get(w http.ResponseWriter, r *http.Request) {
	pickup, err := h.pickups.FindPickupByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, pickup)
}

type updateStatusRequest struct {
	Status         models.Status         `json:"status"`
	DriverDetails  *models.DriverDetails `json:"driver_details"`
	WasteCollected float64               `json:"waste_collected"`
	AdminRemark    string                `json:"admin_remark"`
}

// UpdateStatus handles PATCH /api/admin/pickups/{id}/status
func (h *AdminPickupHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	adminID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user id", http.StatusUnauthorized)
		return
	}

	actor := lifecycle.Actor{
		ID:          adminID,
		DisplayName: claims.Name,
		Meta: models.AuditMeta{
			IP:     middleware.ClientIP(r),
			Device: r.UserAgent(),
		},
	}
	payload := lifecycle.TransitionPayload{
		DriverDetails:  req.DriverDetails,
		WasteCollected: req.WasteCollected,
		Remark:         req.AdminRemark,
	}

	pickup, err := h.lifecycle.TransitionAsAdmin(r.Context(), mux.Vars(r)["id"], req.Status, payload, actor)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("Pickup marked as %s", pickup.Status),
		"pickup":  pickup,
	})
}
