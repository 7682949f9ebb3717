package endpoint

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/wlankit/linknotify/core/eventqueue"
)

// Event is one fully read notification: the parsed status and, for scan
// results, the raw packed payload.
type Event struct {
	Status  eventqueue.Status
	Payload []byte
}

// Endpoint is the device-file layer of the notification channel: it maps
// open handles to listener slots in the event queue and supplies the
// poll-style blocking the queue itself refuses to do.
type Endpoint struct {
	queue  *eventqueue.Queue
	logger *slog.Logger

	mu           sync.Mutex
	ready        chan struct{} // closed and renewed on every readiness signal
	handles      map[eventqueue.ListenerID]*Handle
	maxListeners int
	closed       bool
}

// Option configures an Endpoint.
type Option func(*Endpoint)

// WithMaxListeners sets the fixed number of concurrent handles.
// Default is eventqueue.DefaultCapacity.
func WithMaxListeners(n int) Option {
	return func(e *Endpoint) {
		if n > 0 {
			e.maxListeners = n
		}
	}
}

// WithLogger configures structured logging for the endpoint and its queue.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Endpoint) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates a notification endpoint with its own event queue.
func New(opts ...Option) *Endpoint {
	e := &Endpoint{
		ready:        make(chan struct{}),
		handles:      make(map[eventqueue.ListenerID]*Handle),
		maxListeners: eventqueue.DefaultCapacity,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(e)
	}

	e.queue = eventqueue.New(
		eventqueue.WithCapacity(e.maxListeners),
		eventqueue.WithLogger(e.logger),
		eventqueue.WithNotify(e.wake),
	)
	return e
}

// Queue exposes the underlying event queue so producers (the link-state
// machine) can publish into it.
func (e *Endpoint) Queue() *eventqueue.Queue {
	return e.queue
}

// Open registers a new listener and returns a handle for reading its
// private event stream. The listener starts caught up: only events published
// after Open are visible through it.
func (e *Endpoint) Open() (*Handle, error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil, ErrEndpointClosed
	}
	e.mu.Unlock()

	id := eventqueue.ListenerID(uuid.New().String())
	if err := e.queue.Register(id); err != nil {
		return nil, fmt.Errorf("open notification handle: %w", err)
	}

	h := &Handle{ep: e, id: id}
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		e.queue.Unregister(id)
		return nil, ErrEndpointClosed
	}
	e.handles[id] = h
	e.mu.Unlock()

	e.logger.Debug("notification handle opened", slog.String("listener_id", string(id)))
	return h, nil
}

// Close closes the endpoint and every open handle. Subsequent Open calls
// fail with ErrEndpointClosed. Close is idempotent.
func (e *Endpoint) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	handles := make([]*Handle, 0, len(e.handles))
	for _, h := range e.handles {
		handles = append(handles, h)
	}
	e.mu.Unlock()

	for _, h := range handles {
		_ = h.Close()
	}
	e.logger.Debug("notification endpoint closed")
	return nil
}

// wake broadcasts readiness to every blocked Wait by closing the current
// signal channel and installing a fresh one.
func (e *Endpoint) wake() {
	e.mu.Lock()
	ch := e.ready
	e.ready = make(chan struct{})
	e.mu.Unlock()
	close(ch)
}

// readySignal returns the channel the next readiness broadcast will close.
func (e *Endpoint) readySignal() <-chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ready
}

// Handle is one listener's open descriptor on the endpoint. A handle is
// meant for a single reader; concurrent Read calls on the same handle would
// interleave the two phases of the wire protocol.
type Handle struct {
	ep     *Endpoint
	id     eventqueue.ListenerID
	closed atomic.Bool
}

// Read copies the next chunk of the oldest unread event into p, following
// the two-phase wire protocol: header first, then payload if the header
// announced one. It never blocks; with nothing pending it fails with
// eventqueue.ErrNoData.
func (h *Handle) Read(p []byte) (int, error) {
	if h.closed.Load() {
		return 0, ErrHandleClosed
	}
	return h.ep.queue.Consume(h.id, p)
}

// Ready reports whether a Read would yield data right now.
func (h *Handle) Ready() bool {
	if h.closed.Load() {
		return false
	}
	return h.ep.queue.HasPending(h.id)
}

// Wait blocks until the handle is readable, its context is done, or the
// handle is closed. Readiness is re-checked after every wakeup; a wakeup is
// only a hint.
func (h *Handle) Wait(ctx context.Context) error {
	for {
		if h.closed.Load() {
			return ErrHandleClosed
		}
		if h.ep.queue.HasPending(h.id) {
			return nil
		}
		ch := h.ep.readySignal()
		// A publish may have landed between the probe and the subscribe.
		if h.ep.queue.HasPending(h.id) {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ch:
		}
	}
}

// Next blocks for the next event and drives the full two-phase protocol:
// a header read into a fixed HeaderSize buffer, then a payload read into a
// buffer sized exactly as the header announced.
func (h *Handle) Next(ctx context.Context) (Event, error) {
	for {
		if err := h.Wait(ctx); err != nil {
			return Event{}, err
		}

		var hdr [eventqueue.HeaderSize]byte
		_, err := h.Read(hdr[:])
		if errors.Is(err, eventqueue.ErrNoData) {
			continue
		}
		if err != nil {
			return Event{}, err
		}

		status, payloadLen, err := eventqueue.ParseHeader(hdr[:])
		if err != nil {
			return Event{}, err
		}
		evt := Event{Status: status}
		if payloadLen > 0 {
			evt.Payload = make([]byte, payloadLen)
			if _, err := h.Read(evt.Payload); err != nil {
				return Event{}, err
			}
		}
		return evt, nil
	}
}

// Close unregisters the listener, discarding its unread backlog. Close is
// idempotent and wakes any blocked Wait.
func (h *Handle) Close() error {
	if h.closed.Swap(true) {
		return nil
	}
	h.ep.queue.Unregister(h.id)

	h.ep.mu.Lock()
	delete(h.ep.handles, h.id)
	h.ep.mu.Unlock()

	h.ep.wake()
	h.ep.logger.Debug("notification handle closed", slog.String("listener_id", string(h.id)))
	return nil
}
