package linkstate

import "errors"

var (
	// ErrInvalidTransition is returned when an operation is not legal in the
	// machine's current state. No event is published.
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrNotStarted is returned when the machine is used before Start.
	ErrNotStarted = errors.New("state machine not started")
)
