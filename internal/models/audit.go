package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActionType classifies what an administrator did.
type ActionType string

const (
	ActionUpdateStatus  ActionType = "UPDATE_STATUS"
	ActionToggleFeature ActionType = "TOGGLE_FEATURE"
	ActionSystemUpdate  ActionType = "SYSTEM_UPDATE"
	ActionDelete        ActionType = "DELETE"
)

// TargetType classifies which kind of entity an action touched.
type TargetType string

const (
	TargetIssue          TargetType = "ISSUE"
	TargetPickup         TargetType = "PICKUP"
	TargetSystemSettings TargetType = "SYSTEM_SETTINGS"
	TargetUser           TargetType = "USER"
)

// AuditMeta carries best-effort request metadata.
type AuditMeta struct {
	IP     string `bson:"ip,omitempty" json:"ip,omitempty"`
	Device string `bson:"device,omitempty" json:"device,omitempty"`
}

// AuditLogEntry is a write-once record of an administrative mutation.
// There is no updated_at: entries are never modified after creation.
type AuditLogEntry struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Admin         primitive.ObjectID  `bson:"admin" json:"admin"`
	ActionType    ActionType          `bson:"action_type" json:"action_type"`
	TargetType    TargetType          `bson:"target_type" json:"target_type"`
	TargetID      *primitive.ObjectID `bson:"target_id,omitempty" json:"target_id,omitempty"`
	PreviousValue bson.M              `bson:"previous_value,omitempty" json:"previous_value,omitempty"`
	NewValue      bson.M              `bson:"new_value,omitempty" json:"new_value,omitempty"`
	Meta          AuditMeta           `bson:"meta,omitempty" json:"meta,omitempty"`
	CreatedAt     time.Time           `bson:"created_at" json:"created_at"`
}

// AuditLogView is an entry with the actor identity resolved for display.
type AuditLogView struct {
	AuditLogEntry `bson:",inline"`
	AdminName     string `json:"admin_name"`
	AdminEmail    string `json:"admin_email"`
}

// AuditPage is one page of the reverse-chronological audit trail.
type AuditPage struct {
	Logs  []AuditLogView `json:"logs"`
	Page  int64          `json:"page"`
	Pages int64          `json:"pages"`
	Total int64          `json:"total"`
}
