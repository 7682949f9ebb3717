package eventqueue

import "errors"

var (
	// ErrTableFull is returned by Register when every listener slot is occupied.
	// The capacity is fixed at construction time; callers may retry after
	// another listener unregisters.
	ErrTableFull = errors.New("listener table is full")

	// ErrNotRegistered is returned by Consume for an identity that has no live
	// listener slot. It is distinct from ErrNoData so the caller can detect
	// misuse of an unregistered handle.
	ErrNotRegistered = errors.New("listener is not registered")

	// ErrNoData is returned by Consume when the listener has no unread events.
	// It is not a failure; callers normally check HasPending first.
	ErrNoData = errors.New("no event data available")

	// ErrShortBuffer is returned by Consume when the destination buffer cannot
	// hold the next header or payload. The call mutates no state and is safe
	// to retry with a larger buffer.
	ErrShortBuffer = errors.New("destination buffer too small")

	// ErrUnknownStatus is returned by Publish for an event kind it does not
	// recognize. Nothing is appended.
	ErrUnknownStatus = errors.New("unknown event status")
)
