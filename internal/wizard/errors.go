package wizard

import (
	"errors"
	"fmt"
)

var (
	// ErrBusy is returned while a submission is in flight
	ErrBusy = errors.New("wizard: a booking submission is already in progress")

	// ErrNotReady is returned when the current step's requirements are not met
	ErrNotReady = errors.New("wizard: current step is incomplete")

	// ErrConfirmed is returned for actions that are not allowed after confirmation
	ErrConfirmed = errors.New("wizard: booking already confirmed")

	// ErrSubmissionFailed covers every booking failure other than a capacity conflict
	ErrSubmissionFailed = errors.New("wizard: booking submission failed")
)

// CapacityConflictError reports that the chosen slot no longer fits the party
type CapacityConflictError struct {
	Available int
}

func (e *CapacityConflictError) Error() string {
	return fmt.Sprintf("wizard: not enough capacity (available: %d)", e.Available)
}

// Messages are the user-visible texts the wizard surfaces
type Messages struct {
	CapacityConflict func(available int) string
	SubmissionFailed string
}

// DefaultMessages returns the English message set
func DefaultMessages() Messages {
	return Messages{
		CapacityConflict: func(available int) string {
			return fmt.Sprintf("Only %d spot(s) left for this time. Please choose another time or date.", available)
		},
		SubmissionFailed: "We could not complete your booking. Please try again.",
	}
}
