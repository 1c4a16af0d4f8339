package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Status is the state-machine variable of a pickup request.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// allowedTransitions is the full transition table. Terminal states have
// no outgoing edges.
var allowedTransitions = map[Status][]Status{
	StatusPending:   {StatusApproved, StatusCancelled},
	StatusApproved:  {StatusCompleted, StatusCancelled},
	StatusCompleted: {},
	StatusCancelled: {},
}

// IsValidStatus checks if a status is one of the four known states.
func IsValidStatus(s Status) bool {
	_, ok := allowedTransitions[s]
	return ok
}

// IsTerminal reports whether the status has no outgoing transitions.
func (s Status) IsTerminal() bool {
	return len(allowedTransitions[s]) == 0 && IsValidStatus(s)
}

// CanTransitionTo reports whether target is an allowed successor of s.
func (s Status) CanTransitionTo(target Status) bool {
	for _, t := range allowedTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// WasteType classifies the waste to be collected.
type WasteType string

const (
	WasteDry        WasteType = "Dry"
	WasteWet        WasteType = "Wet"
	WasteElectronic WasteType = "Electronic"
	WasteMedical    WasteType = "Medical"
	WasteMixed      WasteType = "Mixed"
	WasteEWaste     WasteType = "E-Waste"
	WasteBulk       WasteType = "Bulk/Furniture"
)

// IsValidWasteType checks if a waste type is part of the accepted set.
func IsValidWasteType(w WasteType) bool {
	switch w {
	case WasteDry, WasteWet, WasteElectronic, WasteMedical, WasteMixed, WasteEWaste, WasteBulk:
		return true
	default:
		return false
	}
}

// DriverDetails is the driver assignment captured on approval.
type DriverDetails struct {
	Name          string `bson:"name" json:"name"`
	Contact       string `bson:"contact" json:"contact"`
	VehicleNumber string `bson:"vehicle_number" json:"vehicle_number"`
}

// TimelineEntry records one status change, including the initial creation.
type TimelineEntry struct {
	Status    Status    `bson:"status" json:"status"`
	ChangedBy string    `bson:"changed_by" json:"changed_by"`
	Date      time.Time `bson:"date" json:"date"`
	Remark    string    `bson:"remark,omitempty" json:"remark,omitempty"`
}

// PickupRequest is the aggregate root: the request document together
// with its embedded timeline.
type PickupRequest struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	// Owner reference plus snapshots captured at creation time. The
	// snapshots are intentionally never synced with later profile edits.
	UserID   primitive.ObjectID `bson:"user" json:"user"`
	UserName string             `bson:"user_name" json:"user_name"`
	Email    string             `bson:"email" json:"email"`

	WasteType     WasteType `bson:"waste_type" json:"waste_type"`
	Address       string    `bson:"address" json:"address"`
	ScheduledDate time.Time `bson:"scheduled_date" json:"scheduled_date"`
	Instructions  string    `bson:"instructions,omitempty" json:"instructions,omitempty"`

	Status   Status          `bson:"status" json:"status"`
	Timeline []TimelineEntry `bson:"timeline" json:"timeline"`

	DriverDetails  *DriverDetails `bson:"driver_details,omitempty" json:"driver_details,omitempty"`
	WasteCollected float64        `bson:"waste_collected" json:"waste_collected"`
	AdminRemark    string         `bson:"admin_remark,omitempty" json:"admin_remark,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
