// Package notify implements the session-scoped notification bus: an
// append-only-then-expiring FIFO of transient user-facing messages, shared
// by every producer in the session.
//
// The bus owns all of its state; consumers read snapshots and dismiss by id,
// never mutate directly. Each message carries its own independent expiry
// timer keyed by its own id, so dismissing or expiring one message never
// affects the others. There are no observable failure modes: this is pure
// in-memory state with no I/O.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"propdesk/internal/types"
)

// DefaultDisplayTTL is the fixed display window before automatic expiry.
const DefaultDisplayTTL = 3 * time.Second

// timerFactory schedules fn after d and returns a cancel function.
// Injectable so tests can fire expiries deterministically.
type timerFactory func(d time.Duration, fn func()) (cancel func())

func realTimerFactory(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// Listener is invoked after every visible change with a snapshot of the
// current messages in display order. Invoked synchronously while the change
// is applied; implementations must be fast and must not call back into the
// bus.
type Listener func(messages []types.NotificationMessage)

// Bus is the process-wide notification store.
type Bus struct {
	mu       sync.Mutex
	ttl      time.Duration
	clock    types.Clock
	logger   types.Logger
	newTimer timerFactory
	listener Listener

	order  []string
	byID   map[string]types.NotificationMessage
	cancel map[string]func()
}

// BusOption is a functional option for configuring a Bus.
type BusOption func(*Bus)

// WithClock overrides the clock used for message timestamps.
func WithClock(clock types.Clock) BusOption {
	return func(b *Bus) { b.clock = clock }
}

// WithTimerFactory overrides expiry timer scheduling. Intended for tests.
func WithTimerFactory(f timerFactory) BusOption {
	return func(b *Bus) { b.newTimer = f }
}

// WithListener registers a change listener.
func WithListener(l Listener) BusOption {
	return func(b *Bus) { b.listener = l }
}

// NewBus creates a Bus with the given display TTL. A non-positive ttl falls
// back to DefaultDisplayTTL.
func NewBus(ttl time.Duration, logger types.Logger, opts ...BusOption) *Bus {
	if ttl <= 0 {
		ttl = DefaultDisplayTTL
	}
	b := &Bus{
		ttl:      ttl,
		clock:    types.RealClock{},
		logger:   logger,
		newTimer: realTimerFactory,
		byID:     make(map[string]types.NotificationMessage),
		cancel:   make(map[string]func()),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Push appends a new message and schedules its automatic expiry. The message
// is visible to Messages immediately. Returns the generated message id.
func (b *Bus) Push(text string, severity types.Severity) string {
	id := uuid.NewString()
	msg := types.NotificationMessage{
		ID:        id,
		Text:      text,
		Severity:  severity,
		CreatedAt: b.clock.Now(),
	}

	b.mu.Lock()
	b.order = append(b.order, id)
	b.byID[id] = msg
	b.cancel[id] = b.newTimer(b.ttl, func() { b.expire(id) })
	snapshot := b.snapshotLocked()
	b.mu.Unlock()

	b.notify(snapshot)
	return id
}

// Dismiss removes a message immediately regardless of elapsed time and
// cancels its pending expiry. Idempotent: dismissing an unknown or already
// removed id is a no-op.
func (b *Bus) Dismiss(id string) {
	b.mu.Lock()
	removed := b.removeLocked(id)
	var snapshot []types.NotificationMessage
	if removed {
		snapshot = b.snapshotLocked()
	}
	b.mu.Unlock()

	if removed {
		b.notify(snapshot)
	}
}

// Messages returns the currently visible messages in insertion order.
func (b *Bus) Messages() []types.NotificationMessage {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshotLocked()
}

// expire is the timer callback for a single message. If the message was
// dismissed first, the entry is already gone and this is a no-op.
func (b *Bus) expire(id string) {
	b.mu.Lock()
	removed := b.removeLocked(id)
	var snapshot []types.NotificationMessage
	if removed {
		snapshot = b.snapshotLocked()
	}
	b.mu.Unlock()

	if removed {
		b.notify(snapshot)
	}
}

// removeLocked deletes a message and cancels its timer. Caller holds b.mu.
func (b *Bus) removeLocked(id string) bool {
	if _, ok := b.byID[id]; !ok {
		return false
	}
	delete(b.byID, id)
	if cancel, ok := b.cancel[id]; ok {
		cancel()
		delete(b.cancel, id)
	}
	for i, existing := range b.order {
		if existing == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
	return true
}

// snapshotLocked copies the visible messages in order. Caller holds b.mu.
func (b *Bus) snapshotLocked() []types.NotificationMessage {
	out := make([]types.NotificationMessage, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, b.byID[id])
	}
	return out
}

func (b *Bus) notify(snapshot []types.NotificationMessage) {
	if b.listener != nil {
		b.listener(snapshot)
	}
}
