// Package gate implements the UI-boundary feature gate. Given a resolved
// entitlement it decides between exposing the protected capability, a
// caller-supplied fallback experience, or a generic upgrade prompt.
//
// The gate hard-blocks only pure boolean-off features. Numeric entitlements
// always pass through as accessible, whatever their magnitude: quotas are
// ceilings the backend enforces at time of use, and hiding a feature at
// "zero remaining" was explicitly rejected as a product decision. Do not
// change that policy here without product confirmation.
package gate

import (
	"propdesk/internal/plan"
	"propdesk/internal/types"
)

// Outcome names the three possible gate decisions.
type Outcome string

const (
	// OutcomeAccessible exposes the protected capability.
	OutcomeAccessible Outcome = "accessible"
	// OutcomeFallback renders the caller-supplied fallback experience.
	OutcomeFallback Outcome = "fallback"
	// OutcomeUpgrade renders the generic upgrade prompt.
	OutcomeUpgrade Outcome = "upgrade"
)

// Decision is the result of a gate evaluation. For OutcomeUpgrade,
// MinimumTier carries the lowest tier that enables the feature ("" when no
// tier does). For OutcomeFallback, Fallback carries the caller's view.
type Decision struct {
	Outcome     Outcome           `json:"outcome"`
	Feature     types.FeatureKey  `json:"feature"`
	Entitlement types.Entitlement `json:"entitlement"`
	MinimumTier types.PlanTier    `json:"minimum_tier,omitempty"`
	Fallback    string            `json:"fallback,omitempty"`
}

// Accessible is a convenience accessor for consumers that only care about
// the binary question.
func (d Decision) Accessible() bool {
	return d.Outcome == OutcomeAccessible
}

// Option configures a single gate evaluation.
type Option func(*evalOpts)

type evalOpts struct {
	fallback    string
	hasFallback bool
}

// WithFallback supplies a fallback view to render instead of the generic
// upgrade prompt when the feature is boolean-off.
func WithFallback(view string) Option {
	return func(o *evalOpts) {
		o.fallback = view
		o.hasFallback = true
	}
}

// Gate evaluates feature access for a session. It routes every lookup
// through the plan resolver; it never re-derives tier logic.
type Gate struct {
	resolver *plan.Resolver
}

// New creates a Gate over the given resolver.
func New(resolver *plan.Resolver) *Gate {
	return &Gate{resolver: resolver}
}

// Evaluate resolves the entitlement for key at tier and decides the outcome.
// A resolution failure (unknown tier or key) propagates unchanged: contract
// violations stay loud.
func (g *Gate) Evaluate(tier types.PlanTier, key types.FeatureKey, opts ...Option) (Decision, error) {
	ent, err := g.resolver.Resolve(tier, key)
	if err != nil {
		return Decision{}, err
	}
	return g.Decide(key, ent, opts...)
}

// Decide applies the gate policy to an already-resolved entitlement.
func (g *Gate) Decide(key types.FeatureKey, ent types.Entitlement, opts ...Option) (Decision, error) {
	var o evalOpts
	for _, opt := range opts {
		opt(&o)
	}

	d := Decision{Feature: key, Entitlement: ent}

	// Numeric limits are never gated here, including zero. Boolean true is
	// trivially accessible.
	if ent.Kind == types.EntitlementLimit || ent.Enabled {
		d.Outcome = OutcomeAccessible
		return d, nil
	}

	if o.hasFallback {
		d.Outcome = OutcomeFallback
		d.Fallback = o.fallback
		return d, nil
	}

	d.Outcome = OutcomeUpgrade
	minTier, ok, err := g.resolver.MinimumTierFor(key)
	if err != nil {
		return Decision{}, err
	}
	if ok {
		d.MinimumTier = minTier
	}
	return d, nil
}
