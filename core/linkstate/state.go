package linkstate

// State is the wireless link-layer state of the station or soft-AP.
type State uint8

const (
	StateUninitialized State = iota
	StateDisconnected
	StateDisconnecting
	StateConnecting
	StateConnected
	StateReconnecting
	StateSoftAP
	StateScanning
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateDisconnected:
		return "disconnected"
	case StateDisconnecting:
		return "disconnecting"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReconnecting:
		return "reconnecting"
	case StateSoftAP:
		return "softap"
	case StateScanning:
		return "scanning"
	default:
		return "invalid"
	}
}
