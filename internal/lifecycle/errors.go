package lifecycle

import "errors"

var (
	// ErrValidation means a required field for the requested transition
	// is missing or invalid. User-correctable.
	ErrValidation = errors.New("validation failed")

	// ErrIllegalTransition means the requested target status is not
	// reachable from the current status.
	ErrIllegalTransition = errors.New("illegal status transition")

	// ErrInvalidState means the pickup is already in a terminal state
	// and accepts no further mutation.
	ErrInvalidState = errors.New("pickup is in a terminal state")
)
