package core

import "errors"

var (
	// ErrInvalidScheduleExpression is returned when a schedule expression is
	// neither an absolute date-time literal nor a relative duration.
	ErrInvalidScheduleExpression = errors.New("invalid schedule expression")

	// ErrInvalidTransition is returned when a status change is attempted on
	// a record that is no longer pending.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrNotCancellable is returned when cancelling a record that already
	// reached a terminal status.
	ErrNotCancellable = errors.New("scheduled message is not cancellable")

	// ErrNotFound is returned when no record exists for the given ID.
	ErrNotFound = errors.New("scheduled message not found")
)
