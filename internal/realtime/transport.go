// Package realtime implements the reconnecting event-stream client for the
// gateway. A Channel owns the connection lifecycle state machine
// (disconnected -> connecting -> connected <-> reconnecting -> failed) and
// exposes the current state plus the most recently arrived event; consumers
// only read. When realtime is disabled by configuration the NoopChannel
// provides the same surface with inert, well-typed values.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"propdesk/internal/types"
)

// ErrUnknownEventType marks an inbound envelope whose type is outside the
// closed KnownEventTypes set. The envelope is rejected at the boundary; the
// connection itself stays healthy.
var ErrUnknownEventType = errors.New("realtime: unknown event type")

// Transport abstracts the underlying event-stream dial so the channel state
// machine is testable without a real server.
type Transport interface {
	// Connect performs the transport handshake and returns a live Conn.
	Connect(ctx context.Context, url string) (Conn, error)
}

// Conn is a single established event-stream connection.
type Conn interface {
	// ReadEnvelope blocks until the next event arrives and returns it as a
	// typed envelope. Envelopes with an unrecognized type return an error
	// wrapping ErrUnknownEventType; any other error means the connection is
	// no longer usable.
	ReadEnvelope() (types.EventEnvelope, error)

	// Close tears the connection down. Safe to call concurrently with
	// ReadEnvelope; a blocked read returns with an error.
	Close() error
}

// wsTransport is the production Transport over gorilla/websocket.
type wsTransport struct {
	handshakeTimeout time.Duration
}

// NewWebsocketTransport returns a Transport that dials the realtime endpoint
// over websocket with the given handshake timeout.
func NewWebsocketTransport(handshakeTimeout time.Duration) Transport {
	return &wsTransport{handshakeTimeout: handshakeTimeout}
}

// Connect dials the websocket endpoint.
func (t *wsTransport) Connect(ctx context.Context, url string) (Conn, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: t.handshakeTimeout,
	}
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("realtime: dial %s: %w", url, err)
	}
	return &wsConn{conn: conn}, nil
}

// wsConn adapts a *websocket.Conn to the Conn interface.
type wsConn struct {
	conn *websocket.Conn
}

// ReadEnvelope reads the next text frame and decodes it as an EventEnvelope.
func (c *wsConn) ReadEnvelope() (types.EventEnvelope, error) {
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return types.EventEnvelope{}, fmt.Errorf("realtime: read: %w", err)
	}

	var env types.EventEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return types.EventEnvelope{}, fmt.Errorf("realtime: malformed envelope: %w", err)
	}
	if !types.KnownEventTypes[env.Type] {
		return types.EventEnvelope{}, fmt.Errorf("%w: %q", ErrUnknownEventType, env.Type)
	}
	return env, nil
}

// Close closes the underlying websocket connection.
func (c *wsConn) Close() error {
	return c.conn.Close()
}
