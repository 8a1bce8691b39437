package realtime

import "propdesk/internal/types"

// NoopChannel is the inert EventChannel used when realtime is disabled by
// configuration. Every consumer mounted without a live channel still gets a
// well-typed, harmless value set: permanently disconnected, no last event,
// and lifecycle operations that do nothing. This graceful-degradation
// contract lets the rest of the gateway be written against EventChannel
// without caring whether realtime exists.
type NoopChannel struct{}

// Compile-time assertion that NoopChannel implements EventChannel.
var _ EventChannel = NoopChannel{}

// State always reports disconnected.
func (NoopChannel) State() types.ConnectionState { return types.StateDisconnected }

// LastEvent always returns nil.
func (NoopChannel) LastEvent() *types.EventEnvelope { return nil }

// Connect does nothing.
func (NoopChannel) Connect() {}

// Reconnect does nothing.
func (NoopChannel) Reconnect() {}

// Disconnect does nothing.
func (NoopChannel) Disconnect() {}
