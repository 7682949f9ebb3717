package endpoint

import "errors"

var (
	// ErrEndpointClosed is returned by Open after the endpoint has been closed.
	ErrEndpointClosed = errors.New("notification endpoint is closed")

	// ErrHandleClosed is returned by handle operations after Close.
	ErrHandleClosed = errors.New("notification handle is closed")
)
