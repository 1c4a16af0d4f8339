package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/greencity/waste-pickup/internal/db"
	"github.com/greencity/waste-pickup/internal/lifecycle"
	"github.com/greencity/waste-pickup/internal/middleware"
	"github.com/greencity/waste-pickup/internal/models"
)

// PickupHandler serves the resident-facing pickup endpoints
type PickupHandler struct {
	lifecycle *lifecycle.Service
	pickups   db.PickupCollection
	users     db.UserCollection
}

// NewPickupHandler creates a new pickup handler
func NewPickupHandler(svc *lifecycle.Service, pickups db.PickupCollection, users db.UserCollection) *PickupHandler {
	return &PickupHandler{
		lifecycle: svc,
		pickups:   pickups,
		users:     users,
	}
}

type createPickupRequest struct {
	WasteType     models.WasteType `json:"waste_type"`
	Address       string           `json:"address"`
	ScheduledDate time.Time        `json:"scheduled_date"`
	Instructions  string           `json:"instructions"`
}

// Create handles POST /api/pickups
func (h *PickupHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	var req createPickupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	ownerID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user id", http.StatusUnauthorized)
		return
	}

	// Fetch the live profile for the name/email snapshots. The snapshot
	// is frozen on the pickup from here on.
	owner, err := h.users.FindUserByID(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	pickup, err := h.lifecycle.CreatePickup(r.Context(), lifecycle.CreatePickupInput{
		OwnerID:       ownerID,
		OwnerName:     owner.Name,
		OwnerEmail:    owner.Email,
		WasteType:     req.WasteType,
		Address:       req.Address,
		ScheduledDate: req.ScheduledDate,
		Instructions:  req.Instructions,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Pickup scheduled successfully",
		"pickup":  pickup,
	})
}

// MyPickups handles GET /api/pickups/my-pickups
func (h *PickupHandler) MyPickups(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	ownerID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user id", http.StatusUnauthorized)
		return
	}

	pickups, err := h.pickups.FindPickups(r.Context(), db.PickupFilter{UserID: &ownerID})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, pickups)
}

// Cancel handles PATCH /api/pickups/{id}/cancel
func (h *PickupHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	ownerID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user id", http.StatusUnauthorized)
		return
	}

	pickup, err := h.lifecycle.CancelAsOwner(r.Context(), mux.Vars(r)["id"], ownerID, claims.Name)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Pickup cancelled",
		"pickup":  pickup,
	})
}
