package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propdesk/internal/types"
)

// errConnClosed is what a blocked fake read returns once the conn is closed,
// standing in for the transport-level error a real websocket read produces.
var errConnClosed = errors.New("connection closed")

type readResult struct {
	env types.EventEnvelope
	err error
}

// fakeConn is a scriptable Conn: tests push events or errors into the inbox
// and the channel's pump consumes them.
type fakeConn struct {
	inbox     chan readResult
	closed    chan struct{}
	closeOnce sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		inbox:  make(chan readResult, 16),
		closed: make(chan struct{}),
	}
}

func (c *fakeConn) send(env types.EventEnvelope) { c.inbox <- readResult{env: env} }
func (c *fakeConn) fail(err error)               { c.inbox <- readResult{err: err} }

func (c *fakeConn) ReadEnvelope() (types.EventEnvelope, error) {
	select {
	case r := <-c.inbox:
		return r.env, r.err
	case <-c.closed:
		return types.EventEnvelope{}, errConnClosed
	}
}

func (c *fakeConn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

// fakeTransport replays a scripted sequence of dial outcomes, then falls
// back to a default outcome for any further dials.
type fakeTransport struct {
	mu      sync.Mutex
	dials   int
	script  []func() (Conn, error)
	defDial func() (Conn, error)
}

func (f *fakeTransport) Connect(ctx context.Context, url string) (Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.dials++
	var dial func() (Conn, error)
	if len(f.script) > 0 {
		dial = f.script[0]
		f.script = f.script[1:]
	} else {
		dial = f.defDial
	}
	f.mu.Unlock()

	if dial == nil {
		return nil, errors.New("dial refused")
	}
	return dial()
}

func (f *fakeTransport) dialCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dials
}

func connOK(conn *fakeConn) func() (Conn, error) {
	return func() (Conn, error) { return conn, nil }
}

type nopLogger struct{}

func (nopLogger) Info(string, ...any)      {}
func (nopLogger) Error(string, ...any)     {}
func (nopLogger) Warn(string, ...any)      {}
func (nopLogger) With(...any) types.Logger { return nopLogger{} }

func fastPolicy(maxRetries int) RetryPolicy {
	return RetryPolicy{MaxRetries: maxRetries, BaseBackoff: time.Millisecond, MaxBackoff: 5 * time.Millisecond}
}

func waitForState(t *testing.T, ch EventChannel, want types.ConnectionState) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if ch.State() == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for state %s, still %s", want, ch.State())
}

func envelope(typ types.EventType, payload string) types.EventEnvelope {
	return types.EventEnvelope{
		Type:      typ,
		Payload:   json.RawMessage(payload),
		Timestamp: time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestChannelStartsDisconnected(t *testing.T) {
	ch := NewChannel("wss://x", &fakeTransport{}, fastPolicy(1), nopLogger{})

	assert.Equal(t, types.StateDisconnected, ch.State())
	assert.Nil(t, ch.LastEvent())
}

func TestNoopChannelIsInert(t *testing.T) {
	var ch EventChannel = NoopChannel{}

	// Safe in any order, any number of times.
	ch.Connect()
	ch.Reconnect()
	ch.Disconnect()

	assert.Equal(t, types.StateDisconnected, ch.State())
	assert.Nil(t, ch.LastEvent())
}

func TestConnectReachesConnected(t *testing.T) {
	conn := newFakeConn()
	tr := &fakeTransport{script: []func() (Conn, error){connOK(conn)}}
	ch := NewChannel("wss://x", tr, fastPolicy(1), nopLogger{})
	defer ch.Disconnect()

	ch.Connect()
	waitForState(t, ch, types.StateConnected)
	assert.Equal(t, 1, tr.dialCount())

	// Connect while connected is a no-op.
	ch.Connect()
	assert.Equal(t, types.StateConnected, ch.State())
	assert.Equal(t, 1, tr.dialCount())
}

func TestEventsDeliveredInArrivalOrder(t *testing.T) {
	conn := newFakeConn()
	tr := &fakeTransport{script: []func() (Conn, error){connOK(conn)}}

	var (
		mu   sync.Mutex
		seen []string
	)
	ch := NewChannel("wss://x", tr, fastPolicy(1), nopLogger{},
		WithObserver(func(env types.EventEnvelope) {
			mu.Lock()
			seen = append(seen, string(env.Payload))
			mu.Unlock()
		}),
	)
	defer ch.Disconnect()

	ch.Connect()
	waitForState(t, ch, types.StateConnected)

	conn.send(envelope(types.EventNotification, `"A"`))
	conn.send(envelope(types.EventMatchUpdate, `"B"`))
	conn.send(envelope(types.EventValuationComplete, `"C"`))

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		n := len(seen)
		mu.Unlock()
		if n == 3 {
			break
		}
		time.Sleep(time.Millisecond)
	}

	mu.Lock()
	assert.Equal(t, []string{`"A"`, `"B"`, `"C"`}, seen)
	mu.Unlock()

	last := ch.LastEvent()
	require.NotNil(t, last)
	assert.Equal(t, json.RawMessage(`"C"`), last.Payload)
	assert.Equal(t, types.EventValuationComplete, last.Type)
}

func TestUnknownEventTypeRejectedWithoutDisconnect(t *testing.T) {
	conn := newFakeConn()
	tr := &fakeTransport{script: []func() (Conn, error){connOK(conn)}}

	var (
		mu       sync.Mutex
		rejected []error
		seen     int
	)
	ch := NewChannel("wss://x", tr, fastPolicy(1), nopLogger{},
		WithObserver(func(types.EventEnvelope) {
			mu.Lock()
			seen++
			mu.Unlock()
		}),
		WithErrorListener(func(err error) {
			mu.Lock()
			rejected = append(rejected, err)
			mu.Unlock()
		}),
	)
	defer ch.Disconnect()

	ch.Connect()
	waitForState(t, ch, types.StateConnected)

	conn.fail(fmt.Errorf("%w: %q", ErrUnknownEventType, "unknown-kind"))
	conn.send(envelope(types.EventSystem, `"after"`))

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		done := seen == 1 && len(rejected) == 1
		mu.Unlock()
		if done {
			break
		}
		time.Sleep(time.Millisecond)
	}

	mu.Lock()
	require.Len(t, rejected, 1)
	assert.ErrorIs(t, rejected[0], ErrUnknownEventType)
	assert.Equal(t, 1, seen)
	mu.Unlock()

	assert.Equal(t, types.StateConnected, ch.State())
}

func TestTransportDropThenResume(t *testing.T) {
	first := newFakeConn()
	second := newFakeConn()
	tr := &fakeTransport{script: []func() (Conn, error){connOK(first), connOK(second)}}

	var (
		mu     sync.Mutex
		states []types.ConnectionState
	)
	ch := NewChannel("wss://x", tr, fastPolicy(3), nopLogger{},
		WithStateListener(func(s types.ConnectionState) {
			mu.Lock()
			states = append(states, s)
			mu.Unlock()
		}),
	)
	defer ch.Disconnect()

	ch.Connect()
	waitForState(t, ch, types.StateConnected)

	first.fail(errors.New("transport dropped"))
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && tr.dialCount() < 2 {
		time.Sleep(time.Millisecond)
	}
	waitForState(t, ch, types.StateConnected) // resumed on the second conn

	assert.Equal(t, 2, tr.dialCount())

	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, states, types.StateReconnecting)
}

func TestRetryBudgetExhaustedReachesFailed(t *testing.T) {
	conn := newFakeConn()
	tr := &fakeTransport{script: []func() (Conn, error){connOK(conn)}} // all later dials refused
	ch := NewChannel("wss://x", tr, fastPolicy(2), nopLogger{})
	defer ch.Disconnect()

	ch.Connect()
	waitForState(t, ch, types.StateConnected)

	conn.fail(errors.New("transport dropped"))
	waitForState(t, ch, types.StateFailed)

	// Initial dial + the drop + MaxRetries redials.
	assert.Equal(t, 3, tr.dialCount())

	// Terminal: no further dials happen on their own.
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 3, tr.dialCount())
}

func TestDisconnectFromConnected(t *testing.T) {
	conn := newFakeConn()
	tr := &fakeTransport{script: []func() (Conn, error){connOK(conn)}}
	ch := NewChannel("wss://x", tr, fastPolicy(3), nopLogger{})

	ch.Connect()
	waitForState(t, ch, types.StateConnected)

	ch.Disconnect()
	assert.Equal(t, types.StateDisconnected, ch.State())

	// The closed connection must not trigger automatic reconnection.
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, types.StateDisconnected, ch.State())
	assert.Equal(t, 1, tr.dialCount())
}

func TestDisconnectCancelsPendingReconnect(t *testing.T) {
	// Every dial fails; a long backoff keeps the channel parked in
	// reconnecting so Disconnect must kill the pending retry timer.
	tr := &fakeTransport{}
	policy := RetryPolicy{MaxRetries: 10, BaseBackoff: time.Minute, MaxBackoff: time.Minute}
	ch := NewChannel("wss://x", tr, policy, nopLogger{})

	ch.Connect()
	waitForState(t, ch, types.StateReconnecting)
	dialsBefore := tr.dialCount()

	done := make(chan struct{})
	go func() {
		ch.Disconnect()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Disconnect blocked on a pending reconnect timer")
	}

	assert.Equal(t, types.StateDisconnected, ch.State())
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, dialsBefore, tr.dialCount())
}

func TestReconnectFromFailed(t *testing.T) {
	tr := &fakeTransport{} // dials refused until we append a success
	ch := NewChannel("wss://x", tr, fastPolicy(0), nopLogger{})
	defer ch.Disconnect()

	ch.Connect()
	waitForState(t, ch, types.StateFailed)

	conn := newFakeConn()
	tr.mu.Lock()
	tr.script = append(tr.script, connOK(conn))
	tr.mu.Unlock()

	ch.Reconnect()
	waitForState(t, ch, types.StateConnected)
}

func TestReconnectIdempotentWhileConnected(t *testing.T) {
	conn := newFakeConn()
	tr := &fakeTransport{script: []func() (Conn, error){connOK(conn)}}
	ch := NewChannel("wss://x", tr, fastPolicy(1), nopLogger{})
	defer ch.Disconnect()

	ch.Connect()
	waitForState(t, ch, types.StateConnected)

	ch.Reconnect()
	assert.Equal(t, types.StateConnected, ch.State())
	assert.Equal(t, 1, tr.dialCount())
}

func TestRetryPolicyBackoff(t *testing.T) {
	p := RetryPolicy{MaxRetries: 5, BaseBackoff: time.Second, MaxBackoff: 10 * time.Second}

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, time.Second}, // clamped to the first attempt
		{1, time.Second},
		{2, 2 * time.Second},
		{3, 4 * time.Second},
		{4, 8 * time.Second},
		{5, 10 * time.Second}, // capped
		{20, 10 * time.Second},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, p.Backoff(tt.attempt), "attempt %d", tt.attempt)
	}
}
