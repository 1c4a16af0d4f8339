package gate

import (
	"context"
	"errors"
	"fmt"

	"github.com/greencity/waste-pickup/internal/db"
	"github.com/greencity/waste-pickup/internal/models"
)

// Capability names a gated write path.
type Capability string

const (
	CapabilityPickupScheduling Capability = "pickup scheduling"
	CapabilityIssueReporting   Capability = "issue reporting"
)

var (
	// ErrServiceUnavailable means maintenance mode is blocking non-admin
	// traffic.
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrFeatureDisabled means the specific capability has been toggled
	// off for non-admin users.
	ErrFeatureDisabled = errors.New("feature disabled")
)

// MaintenanceError carries the operator-facing message and planned
// window so clients can render a banner instead of a bare failure.
type MaintenanceError struct {
	Message string
	Window  models.MaintenanceWindow
}

func (e *MaintenanceError) Error() string { return e.Message }

func (e *MaintenanceError) Unwrap() error { return ErrServiceUnavailable }

// FeatureDisabledError names the capability that was toggled off.
type FeatureDisabledError struct {
	Feature Capability
}

func (e *FeatureDisabledError) Error() string {
	return fmt.Sprintf("%s is temporarily disabled by the administrator", e.Feature)
}

func (e *FeatureDisabledError) Unwrap() error { return ErrFeatureDisabled }

// FeatureGate decides whether a state-changing request may proceed,
// based on the global settings and the caller's role. It has no effect
// on pure reads. Settings are read fresh on every call: a toggle flip
// applies to the next request evaluated, never to requests already past
// the check.
type FeatureGate struct {
	settings db.SettingsCollection
}

// NewFeatureGate creates a feature gate backed by the settings store
func NewFeatureGate(settings db.SettingsCollection) *FeatureGate {
	return &FeatureGate{settings: settings}
}

// Authorize admits or rejects a write for the given capability.
// Administrators bypass both maintenance mode and feature toggles.
func (g *FeatureGate) Authorize(ctx context.Context, capability Capability, role models.Role) error {
	settings, err := g.settings.GetConfig(ctx)
	if err != nil {
		return fmt.Errorf("load system settings: %w", err)
	}

	if role.IsAdmin() {
		return nil
	}

	if settings.MaintenanceMode {
		msg := settings.MaintenanceMessage
		if msg == "" {
			msg = models.DefaultMaintenanceMessage
		}
		return &MaintenanceError{Message: msg, Window: settings.MaintenanceWindow}
	}

	enabled := true
	switch capability {
	case CapabilityPickupScheduling:
		enabled = settings.AllowPickupScheduling
	case CapabilityIssueReporting:
		enabled = settings.AllowIssueReporting
	}
	if !enabled {
		return &FeatureDisabledError{Feature: capability}
	}
	return nil
}
