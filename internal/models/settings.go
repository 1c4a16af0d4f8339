package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SettingsKey is the fixed _id of the one settings document. Using a
// well-known key enforces the singleton structurally instead of relying
// on "first document found" semantics.
const SettingsKey = "system_settings"

// DefaultMaintenanceMessage is shown to users when no custom message is set.
const DefaultMaintenanceMessage = "We are currently performing system upgrades. Please check back later."

// MaintenanceWindow is the planned downtime window. Informational only,
// it is never enforced.
type MaintenanceWindow struct {
	Start *time.Time `bson:"start,omitempty" json:"start,omitempty"`
	End   *time.Time `bson:"end,omitempty" json:"end,omitempty"`
}

// SystemSettings is the process-wide configuration singleton.
type SystemSettings struct {
	ID                 string             `bson:"_id" json:"-"`
	MaintenanceMode    bool               `bson:"maintenance_mode" json:"maintenance_mode"`
	MaintenanceMessage string             `bson:"maintenance_message" json:"maintenance_message"`
	MaintenanceWindow  MaintenanceWindow  `bson:"maintenance_window" json:"maintenance_window"`

	AllowIssueReporting   bool `bson:"allow_issue_reporting" json:"allow_issue_reporting"`
	AllowPickupScheduling bool `bson:"allow_pickup_scheduling" json:"allow_pickup_scheduling"`

	UpdatedBy primitive.ObjectID `bson:"updated_by,omitempty" json:"updated_by,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// DefaultSystemSettings is the state assumed when no settings document
// exists yet: everything enabled, no maintenance.
func DefaultSystemSettings() SystemSettings {
	return SystemSettings{
		ID:                    SettingsKey,
		MaintenanceMode:       false,
		MaintenanceMessage:    DefaultMaintenanceMessage,
		AllowIssueReporting:   true,
		AllowPickupScheduling: true,
	}
}
