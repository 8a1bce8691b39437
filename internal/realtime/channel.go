package realtime

import (
	"context"
	"errors"
	"sync"
	"time"

	"propdesk/internal/types"
)

// EventChannel is the consumer-facing surface of the realtime subsystem.
// Consumers read state and the latest event; lifecycle mutations go through
// the three explicit operations only.
type EventChannel interface {
	// State returns the current connection state.
	State() types.ConnectionState

	// LastEvent returns the most recently arrived event, or nil before the
	// first arrival. Only the latest event is retained; there is no backlog
	// of events missed while disconnected.
	LastEvent() *types.EventEnvelope

	// Connect starts the connection lifecycle. No-op if the channel is
	// already connecting, connected, or reconnecting.
	Connect()

	// Reconnect forces the channel back toward connecting from failed or
	// any active state. Idempotent when already connecting or connected.
	Reconnect()

	// Disconnect unconditionally and immediately stops the channel: it
	// cancels any pending reconnect timer, closes the live connection, and
	// settles in the disconnected state. No automatic reconnection happens
	// afterwards until Connect or Reconnect is called again.
	Disconnect()
}

// RetryPolicy defines the bounded retry budget and exponential backoff for
// reconnection attempts.
type RetryPolicy struct {
	// MaxRetries is how many consecutive failed attempts are retried after
	// the first failure before the channel settles in the failed state.
	MaxRetries  int
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
}

// DefaultRetryPolicy returns sensible defaults for the realtime channel.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:  5,
		BaseBackoff: 1 * time.Second,
		MaxBackoff:  30 * time.Second,
	}
}

// Backoff computes the delay before retry attempt n (1-based):
// min(BaseBackoff * 2^(n-1), MaxBackoff).
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := p.BaseBackoff
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= p.MaxBackoff || d < 0 {
			return p.MaxBackoff
		}
	}
	if d > p.MaxBackoff {
		return p.MaxBackoff
	}
	return d
}

// Channel is the production EventChannel. All state lives behind its mutex;
// a generation counter invalidates run loops that outlive a Disconnect or
// Reconnect, so a stale goroutine can never mutate fresh state.
type Channel struct {
	url       string
	transport Transport
	policy    RetryPolicy
	logger    types.Logger

	observer func(types.EventEnvelope)
	onState  func(types.ConnectionState)
	onError  func(error)

	mu        sync.Mutex
	state     types.ConnectionState
	lastEvent *types.EventEnvelope
	conn      Conn
	cancel    context.CancelFunc
	gen       uint64
}

// Compile-time assertion that Channel implements EventChannel.
var _ EventChannel = (*Channel)(nil)

// ChannelOption is a functional option for configuring a Channel.
type ChannelOption func(*Channel)

// WithObserver registers the event observer. It is invoked once per inbound
// event, in arrival order, after LastEvent has been updated.
func WithObserver(fn func(types.EventEnvelope)) ChannelOption {
	return func(c *Channel) { c.observer = fn }
}

// WithStateListener registers a listener invoked on every state transition.
// Listeners must not call back into the channel.
func WithStateListener(fn func(types.ConnectionState)) ChannelOption {
	return func(c *Channel) { c.onState = fn }
}

// WithErrorListener registers a listener for transport errors and rejected
// envelopes. Reaching the failed state is always also visible via State and
// the state listener; errors are never only logged.
func WithErrorListener(fn func(error)) ChannelOption {
	return func(c *Channel) { c.onError = fn }
}

// NewChannel creates a Channel in the disconnected state. Nothing connects
// until Connect is called.
func NewChannel(url string, transport Transport, policy RetryPolicy, logger types.Logger, opts ...ChannelOption) *Channel {
	c := &Channel{
		url:       url,
		transport: transport,
		policy:    policy,
		logger:    logger,
		state:     types.StateDisconnected,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current connection state.
func (c *Channel) State() types.ConnectionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LastEvent returns the most recently arrived event, or nil.
func (c *Channel) LastEvent() *types.EventEnvelope {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastEvent == nil {
		return nil
	}
	ev := *c.lastEvent
	return &ev
}

// Connect starts the connection lifecycle if the channel is idle.
func (c *Channel) Connect() {
	c.mu.Lock()
	switch c.state {
	case types.StateConnecting, types.StateConnected, types.StateReconnecting:
		c.mu.Unlock()
		return
	}
	c.startLocked()
	c.mu.Unlock()
	c.notifyState(types.StateConnecting)
}

// Reconnect forces a fresh connection attempt unless one is already under
// way or established.
func (c *Channel) Reconnect() {
	c.mu.Lock()
	switch c.state {
	case types.StateConnecting, types.StateConnected:
		c.mu.Unlock()
		return
	}
	c.stopLocked()
	c.startLocked()
	c.mu.Unlock()
	c.notifyState(types.StateConnecting)
}

// Disconnect stops the channel unconditionally.
func (c *Channel) Disconnect() {
	c.mu.Lock()
	c.stopLocked()
	c.state = types.StateDisconnected
	c.mu.Unlock()
	c.notifyState(types.StateDisconnected)
}

// startLocked bumps the generation, spawns a fresh run loop, and moves the
// state to connecting. Caller holds c.mu.
func (c *Channel) startLocked() {
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.gen++
	c.state = types.StateConnecting
	go c.run(ctx, c.gen)
}

// stopLocked cancels the active run loop and closes the live connection.
// Closing unblocks a pending read immediately; cancellation is not
// best-effort. Caller holds c.mu.
func (c *Channel) stopLocked() {
	c.gen++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
}

// run is the connection supervisor for one generation. It dials, pumps
// events, and applies the bounded retry budget, exiting when the context is
// cancelled or the budget is exhausted.
func (c *Channel) run(ctx context.Context, gen uint64) {
	attempt := 0
	for {
		if ctx.Err() != nil {
			return
		}

		conn, err := c.transport.Connect(ctx, c.url)
		if ctx.Err() != nil {
			if conn != nil {
				_ = conn.Close()
			}
			return
		}

		if err == nil {
			if !c.adopt(gen, conn) {
				_ = conn.Close()
				return
			}
			attempt = 0
			err = c.pump(ctx, gen, conn)
			c.release(gen)
			_ = conn.Close()
			if ctx.Err() != nil {
				return
			}
		}

		c.reportError(err)
		attempt++
		if attempt > c.policy.MaxRetries {
			c.logger.Warn("realtime retry budget exhausted",
				"url", c.url,
				"attempts", attempt,
			)
			c.transition(gen, types.StateFailed)
			return
		}

		if !c.transition(gen, types.StateReconnecting) {
			return
		}
		if !c.sleep(ctx, c.policy.Backoff(attempt)) {
			return
		}
	}
}

// pump reads events until the connection breaks. Unknown event types are
// rejected and reported without dropping the connection.
func (c *Channel) pump(ctx context.Context, gen uint64, conn Conn) error {
	for {
		env, err := conn.ReadEnvelope()
		if err != nil {
			if errors.Is(err, ErrUnknownEventType) {
				c.reportError(err)
				continue
			}
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.deliver(gen, env)
	}
}

// adopt installs a live connection and transitions to connected. Returns
// false when the generation is stale (the channel moved on).
func (c *Channel) adopt(gen uint64, conn Conn) bool {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return false
	}
	c.conn = conn
	c.state = types.StateConnected
	c.mu.Unlock()
	c.notifyState(types.StateConnected)
	return true
}

// release clears the stored connection after the pump exits.
func (c *Channel) release(gen uint64) {
	c.mu.Lock()
	if gen == c.gen {
		c.conn = nil
	}
	c.mu.Unlock()
}

// deliver updates lastEvent and invokes the observer, preserving arrival
// order. Stale generations deliver nothing.
func (c *Channel) deliver(gen uint64, env types.EventEnvelope) {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	ev := env
	c.lastEvent = &ev
	observer := c.observer
	c.mu.Unlock()

	if observer != nil {
		observer(env)
	}
}

// transition moves the state for a live generation. Returns false when the
// generation is stale.
func (c *Channel) transition(gen uint64, state types.ConnectionState) bool {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return false
	}
	c.state = state
	c.mu.Unlock()
	c.notifyState(state)
	return true
}

// sleep waits for the backoff delay. Returns false when the context is
// cancelled first, which is how Disconnect kills a pending reconnect timer.
func (c *Channel) sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (c *Channel) notifyState(state types.ConnectionState) {
	if c.onState != nil {
		c.onState(state)
	}
}

func (c *Channel) reportError(err error) {
	if err == nil {
		return
	}
	c.logger.Warn("realtime transport error", "error", err)
	if c.onError != nil {
		c.onError(err)
	}
}
