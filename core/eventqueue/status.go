package eventqueue

// Status identifies the kind of link event carried by a notification.
// Status codes travel on the wire as little-endian uint32 values; the zero
// value is reserved and never published.
type Status uint32

const (
	StatusUnknown Status = iota
	StatusConnected
	StatusConnectFailed
	StatusDisconnected
	StatusScanDone
	StatusScanFailed
	StatusSoftAPJoined
	StatusSoftAPLeft
)

// String returns a human-readable name for logging.
func (s Status) String() string {
	switch s {
	case StatusConnected:
		return "connected"
	case StatusConnectFailed:
		return "connect_failed"
	case StatusDisconnected:
		return "disconnected"
	case StatusScanDone:
		return "scan_done"
	case StatusScanFailed:
		return "scan_failed"
	case StatusSoftAPJoined:
		return "softap_joined"
	case StatusSoftAPLeft:
		return "softap_left"
	default:
		return "unknown"
	}
}

// valid reports whether s is a publishable event kind.
func (s Status) valid() bool {
	return s > StatusUnknown && s <= StatusSoftAPLeft
}
