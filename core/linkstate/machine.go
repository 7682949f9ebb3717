package linkstate

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/wlankit/linknotify/core/eventqueue"
)

// Sink receives the events the machine emits on transitions.
// *eventqueue.Queue satisfies it.
type Sink interface {
	Publish(status eventqueue.Status, scan *eventqueue.ScanResult) error
}

// Machine tracks the wireless link state and publishes a notification for
// every externally visible transition. It is safe for concurrent use; the
// transition check and the resulting publish happen atomically with respect
// to other transitions.
type Machine struct {
	mu     sync.Mutex
	state  State
	prev   State // state to resume when a scan concludes
	sink   Sink
	logger *slog.Logger
}

// Option configures a Machine.
type Option func(*Machine)

// WithLogger configures structured logging for state transitions.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// New creates a state machine that publishes its events to sink. The machine
// starts uninitialized; call Start before driving transitions.
func New(sink Sink, opts ...Option) *Machine {
	m := &Machine{
		state:  StateUninitialized,
		sink:   sink,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// State returns the current link state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Start brings the machine out of the uninitialized state.
func (m *Machine) Start() error {
	return m.transition("start", StateDisconnected, nil, StateUninitialized)
}

// Connect begins a station connection attempt.
func (m *Machine) Connect() error {
	return m.transition("connect", StateConnecting, nil, StateDisconnected)
}

// ConnectSucceeded records a completed connection and notifies listeners.
func (m *Machine) ConnectSucceeded() error {
	return m.transition("connect done", StateConnected,
		publish(eventqueue.StatusConnected), StateConnecting, StateReconnecting)
}

// ConnectFailed records a failed connection attempt and notifies listeners.
func (m *Machine) ConnectFailed() error {
	return m.transition("connect failed", StateDisconnected,
		publish(eventqueue.StatusConnectFailed), StateConnecting, StateReconnecting)
}

// Disconnect begins an orderly station disconnect.
func (m *Machine) Disconnect() error {
	return m.transition("disconnect", StateDisconnecting, nil, StateConnected)
}

// DisconnectDone completes an orderly disconnect and notifies listeners.
func (m *Machine) DisconnectDone() error {
	return m.transition("disconnect done", StateDisconnected,
		publish(eventqueue.StatusDisconnected), StateDisconnecting)
}

// LinkLost records an unexpected drop of an established connection. The
// machine moves to reconnecting and listeners receive a disconnect event.
func (m *Machine) LinkLost() error {
	return m.transition("link lost", StateReconnecting,
		publish(eventqueue.StatusDisconnected), StateConnected)
}

// StartScan enters the scanning state, remembering where to resume.
func (m *Machine) StartScan() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case StateDisconnected, StateConnected, StateSoftAP:
		m.prev = m.state
		m.setState(StateScanning)
		return nil
	case StateUninitialized:
		return fmt.Errorf("start scan: %w", ErrNotStarted)
	default:
		return fmt.Errorf("start scan in state %s: %w", m.state, ErrInvalidTransition)
	}
}

// ScanCompleted leaves the scanning state, resumes the previous state and
// publishes the scan results. The queue degrades an unencodable list to a
// scan-failure notification on its own.
func (m *Machine) ScanCompleted(list *eventqueue.ScanResult) error {
	return m.endScan("scan completed", eventqueue.StatusScanDone, list)
}

// ScanFailed leaves the scanning state, resumes the previous state and
// notifies listeners that the scan attempt failed.
func (m *Machine) ScanFailed() error {
	return m.endScan("scan failed", eventqueue.StatusScanFailed, nil)
}

// StartSoftAP switches the interface into soft-AP mode.
func (m *Machine) StartSoftAP() error {
	return m.transition("start softap", StateSoftAP, nil, StateDisconnected)
}

// StationJoined reports a station joining the soft-AP. The state does not
// change; listeners are notified.
func (m *Machine) StationJoined() error {
	return m.transition("station joined", StateSoftAP,
		publish(eventqueue.StatusSoftAPJoined), StateSoftAP)
}

// StationLeft reports a station leaving the soft-AP.
func (m *Machine) StationLeft() error {
	return m.transition("station left", StateSoftAP,
		publish(eventqueue.StatusSoftAPLeft), StateSoftAP)
}

// StopSoftAP switches the interface back to station mode.
func (m *Machine) StopSoftAP() error {
	return m.transition("stop softap", StateDisconnected, nil, StateSoftAP)
}

// emit publishes one event through the sink. Separated so transitions without
// a visible event pass nil.
type emit func(sink Sink) error

func publish(status eventqueue.Status) emit {
	return func(sink Sink) error {
		return sink.Publish(status, nil)
	}
}

// transition moves the machine to next if the current state is one of from,
// running fn (when non-nil) under the same critical section so concurrent
// transitions cannot reorder their events.
func (m *Machine) transition(op string, next State, fn emit, from ...State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ok := false
	for _, s := range from {
		if m.state == s {
			ok = true
			break
		}
	}
	if !ok {
		if m.state == StateUninitialized {
			return fmt.Errorf("%s: %w", op, ErrNotStarted)
		}
		return fmt.Errorf("%s in state %s: %w", op, m.state, ErrInvalidTransition)
	}

	if fn != nil {
		if err := fn(m.sink); err != nil {
			return fmt.Errorf("%s: publish event: %w", op, err)
		}
	}
	m.setState(next)
	return nil
}

func (m *Machine) endScan(op string, status eventqueue.Status, list *eventqueue.ScanResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateScanning {
		return fmt.Errorf("%s in state %s: %w", op, m.state, ErrInvalidTransition)
	}
	if err := m.sink.Publish(status, list); err != nil {
		return fmt.Errorf("%s: publish event: %w", op, err)
	}
	m.setState(m.prev)
	return nil
}

// setState records the transition. Caller holds m.mu.
func (m *Machine) setState(next State) {
	m.logger.Debug("link state transition",
		slog.String("from", m.state.String()),
		slog.String("to", next.String()))
	m.state = next
}
