// Package eventqueue implements the fan-out notification channel of a
// wireless link driver: a single producer publishes discrete link events
// (connect, disconnect, scan results, soft-AP joins and leaves) and every
// registered listener receives each of them, independently and completely,
// through a read/poll-style interface.
//
// # Design
//
// Events live on one shared, append-only chain. Each listener owns a private
// cursor into that chain, so a payload is stored once no matter how many
// listeners will read it. Every node carries a reference count snapshotted to
// the number of listeners registered at publish time; a listener releases its
// reference when it finishes reading the node (or when it unregisters), and
// the node is torn down exactly when the count reaches zero. Listeners that
// register later start caught up and never see backlog.
//
// Delivery is a two-phase protocol. A read first yields a fixed-size header
// (status code plus payload length, see HeaderSize); if the length is
// non-zero, the next read yields the payload. This lets a client read with a
// small fixed buffer first and then allocate exactly the right amount for
// the body, without the queue assuming any maximum payload size. A read into
// a buffer too small for the pending phase fails without touching queue
// state, so it can simply be retried.
//
// All five operations (Publish, Consume, Register, Unregister, HasPending)
// share one mutex: appending to the chain and advancing a cursor with a
// possible node teardown must never race.
//
// # Usage
//
//	queue := eventqueue.New(
//		eventqueue.WithCapacity(8),
//		eventqueue.WithLogger(logger),
//	)
//
//	if err := queue.Register("listener-1"); err != nil {
//		// table full
//	}
//
//	_ = queue.Publish(eventqueue.StatusConnected, nil)
//
//	buf := make([]byte, eventqueue.HeaderSize)
//	n, err := queue.Consume("listener-1", buf)
//	if err != nil {
//		// eventqueue.ErrNoData: nothing pending
//	}
//	status, payloadLen, _ := eventqueue.ParseHeader(buf[:n])
//	if payloadLen > 0 {
//		body := make([]byte, payloadLen)
//		n, err = queue.Consume("listener-1", body)
//	}
//
// The queue itself never blocks waiting for data; ErrNoData is an immediate
// result. Poll-style blocking lives in the endpoint layer, which hooks the
// WithNotify callback and re-checks HasPending after each wakeup.
//
// # Scan results
//
// StatusScanDone is the only event kind with a payload: an intrusive list of
// ScanResult records serialized back-to-back in list order, ScanRecordSize
// bytes each. If serialization fails the event degrades to StatusScanFailed
// with no payload — listeners still need some signal that the scan attempt
// concluded, so a publish is never aborted for an encoding problem.
package eventqueue
