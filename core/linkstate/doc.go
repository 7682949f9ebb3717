// Package linkstate implements the wireless link-state machine that produces
// the notifications distributed by core/eventqueue: it decides when a
// connect, disconnect, scan or soft-AP event happened and publishes it to a
// Sink (normally the event queue) atomically with the state transition.
//
// The machine validates every transition against its current state and
// rejects the rest with ErrInvalidTransition. Scans are re-entrant with
// respect to mode: scanning can start from the disconnected, connected or
// soft-AP state and resumes that state when the scan concludes.
package linkstate
