package eventqueue

import (
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
)

// DefaultCapacity is the default number of concurrent listener slots.
const DefaultCapacity = 8

// ListenerID identifies a registered listener. The value is supplied by the
// caller (typically the endpoint layer) and must be unique among live
// listeners; registering the same identity twice is a caller contract
// violation and leaves delivery undefined for that identity.
type ListenerID string

type readPhase uint8

const (
	phaseHeader readPhase = iota
	phasePayload
)

// node is one notification record on the shared event chain. Status and
// payload are immutable after construction; next and pendingReaders are
// mutated only under the queue mutex.
type node struct {
	status  Status
	payload []byte
	next    *node

	// pendingReaders counts listeners that have not yet fully consumed this
	// node. It is snapshotted to the listener count at publish time and the
	// node is torn down exactly when it reaches zero.
	pendingReaders int
}

// slot is one listener's private view into the shared chain: its next unread
// node and which half of the two-phase read comes next.
type slot struct {
	id     ListenerID
	active bool
	cursor *node
	phase  readPhase
}

// Queue is the event distribution queue: a single append-only chain of event
// nodes fanned out to every registered listener through per-listener cursors.
// Payloads are never copied per listener; a reference count on each node
// tracks how many listeners still have to pass it.
//
// All operations are safe for concurrent use. One mutex guards the chain and
// the listener table together: an append and a cursor advance that releases
// a node must never race.
type Queue struct {
	mu        sync.Mutex
	slots     []slot
	tail      *node
	listeners int

	logger *slog.Logger
	notify func()

	// Observability metrics
	eventsPublished atomic.Int64
	eventsDropped   atomic.Int64
	nodesFreed      atomic.Int64
	liveNodes       atomic.Int64
}

// QueueStats provides observability metrics for monitoring and debugging.
type QueueStats struct {
	EventsPublished int64 // Events appended to the chain
	EventsDropped   int64 // Events published while no listener was registered
	NodesFreed      int64 // Nodes torn down after their last reference was released
	LiveNodes       int64 // Nodes currently on the chain
	ActiveListeners int   // Currently registered listeners
}

// Option configures a Queue.
type Option func(*Queue)

// WithCapacity sets the fixed number of listener slots. Default is
// DefaultCapacity. The table never grows; Register fails with ErrTableFull
// once every slot is taken.
func WithCapacity(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.slots = make([]slot, n)
		}
	}
}

// WithLogger configures structured logging for queue internals.
func WithLogger(logger *slog.Logger) Option {
	return func(q *Queue) {
		if logger != nil {
			q.logger = logger
		}
	}
}

// WithNotify sets a readiness callback invoked after every successful append,
// outside the queue mutex. The endpoint layer uses it to wake listeners
// blocked in poll-style waits; the callback must re-check HasPending.
func WithNotify(fn func()) Option {
	return func(q *Queue) {
		q.notify = fn
	}
}

// New creates an event distribution queue with an empty chain and an empty
// listener table.
func New(opts ...Option) *Queue {
	q := &Queue{
		slots:  make([]slot, DefaultCapacity),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(q)
	}

	return q
}

// Publish appends one event to the chain and attaches it to every registered
// listener. For StatusScanDone the scan list is serialized into the event
// payload; if serialization fails the event degrades to StatusScanFailed
// with no payload so listeners still learn that the scan attempt concluded.
// Publishing never fails for an encoding problem, only for an unknown status.
//
// With no listeners registered the event is dropped: nothing would ever
// release its reference.
func (q *Queue) Publish(status Status, scan *ScanResult) error {
	if !status.valid() {
		return ErrUnknownStatus
	}

	var payload []byte
	if status == StatusScanDone {
		buf, err := encodeScanList(scan)
		if err != nil {
			q.logger.Debug("scan list encoding failed, degrading event",
				slog.Any("error", err))
			status = StatusScanFailed
		} else {
			payload = buf
		}
	}

	q.mu.Lock()
	if q.listeners == 0 {
		q.mu.Unlock()
		q.eventsDropped.Add(1)
		q.logger.Debug("event dropped, no listeners",
			slog.String("status", status.String()))
		return nil
	}

	n := &node{
		status:         status,
		payload:        payload,
		pendingReaders: q.listeners,
	}
	if q.tail != nil {
		q.tail.next = n
	}
	q.tail = n
	for i := range q.slots {
		if s := &q.slots[i]; s.active && s.cursor == nil {
			s.cursor = n
		}
	}
	q.mu.Unlock()

	q.eventsPublished.Add(1)
	q.liveNodes.Add(1)
	q.logger.Debug("event published",
		slog.String("status", status.String()),
		slog.Int("payload_size", len(payload)))

	if q.notify != nil {
		q.notify()
	}
	return nil
}

// Consume copies the next chunk of the listener's oldest unread event into
// buf and returns the number of bytes written. Each event is delivered in
// two phases: first a HeaderSize header (status + payload length), then, if
// the payload length is non-zero, the payload itself in a second call. An
// event without payload completes on the header read alone.
//
// A buf too small for the pending phase fails with ErrShortBuffer and
// changes nothing; the call can be retried with a larger buffer and yields
// the same bytes.
func (q *Queue) Consume(id ListenerID, buf []byte) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	s := q.lookup(id)
	if s == nil {
		return 0, ErrNotRegistered
	}
	n := s.cursor
	if n == nil {
		return 0, ErrNoData
	}

	switch s.phase {
	case phaseHeader:
		if len(buf) < HeaderSize {
			return 0, ErrShortBuffer
		}
		PutHeader(buf, n.status, uint32(len(n.payload)))
		if len(n.payload) > 0 {
			s.phase = phasePayload
			return HeaderSize, nil
		}
		q.advance(s, n)
		return HeaderSize, nil

	default: // phasePayload
		if len(buf) < len(n.payload) {
			return 0, ErrShortBuffer
		}
		written := copy(buf, n.payload)
		s.phase = phaseHeader
		q.advance(s, n)
		return written, nil
	}
}

// Register claims a free listener slot for id. The new listener starts
// caught up: it only receives events published after this call, never
// backlog.
func (q *Queue) Register(id ListenerID) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i := range q.slots {
		if s := &q.slots[i]; !s.active {
			*s = slot{id: id, active: true}
			q.listeners++
			q.logger.Debug("listener registered",
				slog.String("listener_id", string(id)),
				slog.Int("slot", i))
			return nil
		}
	}
	return ErrTableFull
}

// Unregister removes the listener and releases one reference from every node
// it had not yet consumed, tearing down any that reach zero. Unregistering
// an unknown identity is a no-op: some handles close without ever having
// registered.
func (q *Queue) Unregister(id ListenerID) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i := range q.slots {
		s := &q.slots[i]
		if !s.active || s.id != id {
			continue
		}
		for n := s.cursor; n != nil; {
			next := n.next
			q.release(n)
			n = next
		}
		*s = slot{}
		q.listeners--
		q.logger.Debug("listener unregistered",
			slog.String("listener_id", string(id)),
			slog.Int("slot", i))
		return
	}
}

// HasPending reports whether the listener has at least one unread event.
// It is the readiness probe for the poll layer and agrees exactly with what
// Consume would find.
func (q *Queue) HasPending(id ListenerID) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	s := q.lookup(id)
	return s != nil && s.cursor != nil
}

// Stats returns a snapshot of queue metrics.
func (q *Queue) Stats() QueueStats {
	q.mu.Lock()
	listeners := q.listeners
	q.mu.Unlock()

	return QueueStats{
		EventsPublished: q.eventsPublished.Load(),
		EventsDropped:   q.eventsDropped.Load(),
		NodesFreed:      q.nodesFreed.Load(),
		LiveNodes:       q.liveNodes.Load(),
		ActiveListeners: listeners,
	}
}

// lookup finds the active slot for id. Caller holds q.mu.
func (q *Queue) lookup(id ListenerID) *slot {
	for i := range q.slots {
		if s := &q.slots[i]; s.active && s.id == id {
			return s
		}
	}
	return nil
}

// advance moves the slot past n and releases the slot's reference to it.
// Caller holds q.mu.
func (q *Queue) advance(s *slot, n *node) {
	s.cursor = n.next
	q.release(n)
}

// release drops one reference from n. This is the sole teardown authority:
// when the count reaches zero every listener has passed the node, so no
// cursor can still point at it and it is unlinked from the chain. Caller
// holds q.mu.
func (q *Queue) release(n *node) {
	n.pendingReaders--
	if n.pendingReaders > 0 {
		return
	}
	if n.pendingReaders < 0 {
		q.logger.Error("event node reference count went negative",
			slog.String("status", n.status.String()),
			slog.Int("refs", n.pendingReaders))
		return
	}
	if q.tail == n {
		q.tail = nil
	}
	n.payload = nil
	n.next = nil
	q.nodesFreed.Add(1)
	q.liveNodes.Add(-1)
}
