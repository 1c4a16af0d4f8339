package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IssueStatus is the resolution state of a reported issue. Unlike the
// pickup lifecycle, any state may move to any other: an issue can be
// reopened after rejection.
type IssueStatus string

const (
	IssuePending    IssueStatus = "PENDING"
	IssueInProgress IssueStatus = "IN_PROGRESS"
	IssueResolved   IssueStatus = "RESOLVED"
	IssueRejected   IssueStatus = "REJECTED"
)

// IsValidIssueStatus checks if a status is one of the known states.
func IsValidIssueStatus(s IssueStatus) bool {
	switch s {
	case IssuePending, IssueInProgress, IssueResolved, IssueRejected:
		return true
	default:
		return false
	}
}

// IssueCategory classifies what a resident is reporting.
type IssueCategory string

const (
	IssueMissedPickup   IssueCategory = "Missed Pickup"
	IssueOverflowingBin IssueCategory = "Overflowing Bin"
	IssueBrokenBin      IssueCategory = "Broken Bin"
	IssueOther          IssueCategory = "Other"
)

// IsValidIssueCategory checks if a category is part of the accepted set.
func IsValidIssueCategory(c IssueCategory) bool {
	switch c {
	case IssueMissedPickup, IssueOverflowingBin, IssueBrokenBin, IssueOther:
		return true
	default:
		return false
	}
}

// Issue is a resident-reported problem with collection service.
type Issue struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	// Reporter reference plus snapshots captured at creation time, same
	// convention as the pickup owner snapshots.
	UserID   primitive.ObjectID `bson:"user" json:"user"`
	UserName string             `bson:"user_name" json:"user_name"`
	Email    string             `bson:"email" json:"email"`

	Title       string        `bson:"title" json:"title"`
	Description string        `bson:"description" json:"description"`
	Category    IssueCategory `bson:"category" json:"category"`

	Status      IssueStatus `bson:"status" json:"status"`
	AdminRemark string      `bson:"admin_remark,omitempty" json:"admin_remark,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
