package lifecycle

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/greencity/waste-pickup/internal/db"
	"github.com/greencity/waste-pickup/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Fixed remarks recorded when a resident cancels their own request.
const (
	residentCancelRemark   = "Cancelled by Resident"
	residentTimelineRemark = "User changed mind"
	createdTimelineRemark  = "Request created"
)

// AuditSink receives audit entries for administrative mutations. It
// never reports failure: audit writes are best-effort and must not
// block or roll back the triggering transition.
type AuditSink interface {
	Record(ctx context.Context, entry models.AuditLogEntry)
}

// Actor identifies who is performing an administrative transition.
// Identity is resolved upstream; the lifecycle never authenticates.
type Actor struct {
	ID          primitive.ObjectID
	DisplayName string
	Meta        models.AuditMeta
}

// TransitionPayload carries the operational data a transition may require.
type TransitionPayload struct {
	DriverDetails  *models.DriverDetails
	WasteCollected float64
	Remark         string
}

// CreatePickupInput is the data needed to open a new pickup request.
// The owner name and email are snapshotted onto the aggregate.
type CreatePickupInput struct {
	OwnerID       primitive.ObjectID
	OwnerName     string
	OwnerEmail    string
	WasteType     models.WasteType
	Address       string
	ScheduledDate time.Time
	Instructions  string
}

// Service owns the pickup lifecycle: every status change, whatever the
// calling surface, passes through it. Transition validation lives here,
// not in the request layer.
type Service struct {
	pickups db.PickupCollection
	audit   AuditSink
	now     func() time.Time
}

// NewService creates a lifecycle service
func NewService(pickups db.PickupCollection, audit AuditSink) *Service {
	return &Service{
		pickups: pickups,
		audit:   audit,
		now:     time.Now,
	}
}

// CreatePickup opens a new request in the pending state with a seeded
// timeline entry.
func (s *Service) CreatePickup(ctx context.Context, in CreatePickupInput) (*models.PickupRequest, error) {
	if !models.IsValidWasteType(in.WasteType) {
		return nil, fmt.Errorf("%w: unknown waste type %q", ErrValidation, in.WasteType)
	}
	if strings.TrimSpace(in.Address) == "" {
		return nil, fmt.Errorf("%w: address is required", ErrValidation)
	}
	if in.ScheduledDate.IsZero() {
		return nil, fmt.Errorf("%w: scheduled date is required", ErrValidation)
	}
	if in.OwnerID.IsZero() || strings.TrimSpace(in.OwnerName) == "" || strings.TrimSpace(in.OwnerEmail) == "" {
		return nil, fmt.Errorf("%w: owner identity is required", ErrValidation)
	}

	now := s.now()
	pickup := models.PickupRequest{
		UserID:        in.OwnerID,
		UserName:      in.OwnerName,
		Email:         in.OwnerEmail,
		WasteType:     in.WasteType,
		Address:       in.Address,
		ScheduledDate: in.ScheduledDate,
		Instructions:  in.Instructions,
		Status:        models.StatusPending,
		Timeline: []models.TimelineEntry{
			{
				Status:    models.StatusPending,
				ChangedBy: in.OwnerName,
				Date:      now,
				Remark:    createdTimelineRemark,
			},
		},
	}

	return s.pickups.InsertPickup(ctx, pickup)
}

// CancelAsOwner cancels a resident's own pickup. Residents may only
// cancel requests still in pending; the remarks are fixed system text.
// Resident cancellations are not audit-logged: they show up in the
// resident's own history, not the admin trail.
func (s *Service) CancelAsOwner(ctx context.Context, pickupID string, ownerID primitive.ObjectID, ownerName string) (*models.PickupRequest, error) {
	pickup, err := s.pickups.FindPickupByID(ctx, pickupID)
	if err != nil {
		return nil, err
	}
	if pickup.UserID != ownerID {
		return nil, db.ErrPickupNotFound
	}

	if pickup.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: pickup is already %s", ErrInvalidState, pickup.Status)
	}
	if pickup.Status != models.StatusPending {
		return nil, fmt.Errorf("%w: residents can only cancel pending pickups", ErrIllegalTransition)
	}

	expected := pickup.Status
	payload := TransitionPayload{Remark: residentCancelRemark}
	if err := applyTransition(pickup, models.StatusCancelled, payload, ownerName, residentTimelineRemark, s.now()); err != nil {
		return nil, err
	}

	if err := s.pickups.ApplyTransition(ctx, pickupID, expected, *pickup); err != nil {
		return nil, err
	}
	return pickup, nil
}

// TransitionAsAdmin applies an administrator-requested status change
// and records one UPDATE_STATUS audit entry on success.
func (s *Service) TransitionAsAdmin(ctx context.Context, pickupID string, target models.Status, payload TransitionPayload, actor Actor) (*models.PickupRequest, error) {
	if !models.IsValidStatus(target) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, target)
	}

	pickup, err := s.pickups.FindPickupByID(ctx, pickupID)
	if err != nil {
		return nil, err
	}

	expected := pickup.Status
	if err := applyTransition(pickup, target, payload, actor.DisplayName, payload.Remark, s.now()); err != nil {
		return nil, err
	}

	if err := s.pickups.ApplyTransition(ctx, pickupID, expected, *pickup); err != nil {
		return nil, err
	}

	targetID := pickup.ID
	s.audit.Record(ctx, models.AuditLogEntry{
		Admin:         actor.ID,
		ActionType:    models.ActionUpdateStatus,
		TargetType:    models.TargetPickup,
		TargetID:      &targetID,
		PreviousValue: bson.M{"status": expected},
		NewValue:      bson.M{"status": pickup.Status},
		Meta:          actor.Meta,
	})

	return pickup, nil
}

// applyTransition validates the requested edge and payload, then
// mutates the aggregate in memory: status, operational fields, and one
// appended timeline entry. Persistence happens at the call site with a
// compare-and-swap on the prior status.
func applyTransition(p *models.PickupRequest, target models.Status, payload TransitionPayload, changedBy, timelineRemark string, at time.Time) error {
	if p.Status.IsTerminal() {
		return fmt.Errorf("%w: pickup is already %s", ErrInvalidState, p.Status)
	}
	if !p.Status.CanTransitionTo(target) {
		return fmt.Errorf("%w: cannot move from %s to %s", ErrIllegalTransition, p.Status, target)
	}

	switch target {
	case models.StatusApproved:
		if payload.DriverDetails == nil || strings.TrimSpace(payload.DriverDetails.Name) == "" {
			return fmt.Errorf("%w: driver details (name) are required to approve", ErrValidation)
		}
		p.DriverDetails = payload.DriverDetails

	case models.StatusCompleted:
		if payload.WasteCollected <= 0 {
			return fmt.Errorf("%w: collected waste weight (kg) must be greater than zero", ErrValidation)
		}
		p.WasteCollected = payload.WasteCollected

	case models.StatusCancelled:
		if strings.TrimSpace(payload.Remark) == "" {
			return fmt.Errorf("%w: cancellation reason is required", ErrValidation)
		}
		// A driver assigned before cancellation stays on the record;
		// the timeline remark is the operator's account of why.
	}

	p.Status = target
	if payload.Remark != "" {
		p.AdminRemark = payload.Remark
	}
	p.Timeline = append(p.Timeline, models.TimelineEntry{
		Status:    target,
		ChangedBy: changedBy,
		Date:      at,
		Remark:    timelineRemark,
	})
	p.UpdatedAt = at
	return nil
}
