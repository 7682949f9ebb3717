package endpoint

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wlankit/linknotify/core/eventqueue"
)

const wsCloseWriteTimeout = 5 * time.Second

type feedConfig struct {
	upgrader *websocket.Upgrader
}

// FeedOption configures the websocket feed handler.
type FeedOption func(*feedConfig)

// WithWSReadBuffer sets the websocket read buffer size.
func WithWSReadBuffer(size int) FeedOption {
	return func(c *feedConfig) {
		c.upgrader.ReadBufferSize = size
	}
}

// WithWSWriteBuffer sets the websocket write buffer size.
func WithWSWriteBuffer(size int) FeedOption {
	return func(c *feedConfig) {
		c.upgrader.WriteBufferSize = size
	}
}

// WithWSOriginCheck sets the origin check function.
func WithWSOriginCheck(fn func(r *http.Request) bool) FeedOption {
	return func(c *feedConfig) {
		c.upgrader.CheckOrigin = fn
	}
}

// WithWSAllowAnyOrigin disables origin checking.
func WithWSAllowAnyOrigin() FeedOption {
	return func(c *feedConfig) {
		c.upgrader.CheckOrigin = func(r *http.Request) bool {
			return true
		}
	}
}

// Feed returns an HTTP handler that serves the endpoint's event stream over
// a websocket. Each client gets its own listener handle, so a slow or
// disconnected client never affects another's delivery. Every event is sent
// as one binary frame holding the wire-format header followed by the
// payload.
func Feed(e *Endpoint, opts ...FeedOption) http.Handler {
	cfg := &feedConfig{
		upgrader: &websocket.Upgrader{},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := cfg.upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade already replied to the client.
			return
		}
		defer conn.Close()

		h, err := e.Open()
		if err != nil {
			msg := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, err.Error())
			_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(wsCloseWriteTimeout))
			return
		}
		defer h.Close()

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		// Drain incoming frames so close handshakes and pings are processed;
		// any read error means the client is gone.
		go func() {
			defer cancel()
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			evt, err := h.Next(ctx)
			if err != nil {
				return
			}

			frame := make([]byte, eventqueue.HeaderSize+len(evt.Payload))
			eventqueue.PutHeader(frame, evt.Status, uint32(len(evt.Payload)))
			copy(frame[eventqueue.HeaderSize:], evt.Payload)

			if err := conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
				return
			}
		}
	})
}
