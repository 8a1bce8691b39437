package gate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propdesk/internal/plan"
	"propdesk/internal/types"
)

func newGate(t *testing.T) *Gate {
	t.Helper()
	return New(plan.NewResolver(plan.NewStaticCatalog()))
}

func TestEvaluateBooleanEnabled(t *testing.T) {
	g := newGate(t)

	d, err := g.Evaluate(types.PlanPro, types.FeatureAIAssistant)
	require.NoError(t, err)
	assert.Equal(t, OutcomeAccessible, d.Outcome)
	assert.True(t, d.Accessible())
}

// TestEvaluateNumericAlwaysAccessible pins the quota pass-through policy:
// numeric entitlements are never gated at this layer, for any magnitude
// including zero. Enforcement happens in the backend at time of use.
func TestEvaluateNumericAlwaysAccessible(t *testing.T) {
	g := newGate(t)

	for _, limit := range []int{0, 1, 5, 1000, types.Unlimited} {
		d, err := g.Decide(types.FeatureValuationsMonthly, types.LimitEntitlement(limit))
		require.NoError(t, err)
		assert.Equal(t, OutcomeAccessible, d.Outcome, "limit %d must be accessible", limit)
	}
}

func TestEvaluateEliteUnlimitedValuations(t *testing.T) {
	g := newGate(t)

	d, err := g.Evaluate(types.PlanElite, types.FeatureValuationsMonthly)
	require.NoError(t, err)
	assert.Equal(t, OutcomeAccessible, d.Outcome)
	assert.True(t, d.Entitlement.IsUnlimited())
}

func TestEvaluateBooleanOffWithFallback(t *testing.T) {
	g := newGate(t)

	d, err := g.Evaluate(types.PlanStarter, types.FeatureVirtualStaging,
		WithFallback("staging-teaser"))
	require.NoError(t, err)

	assert.Equal(t, OutcomeFallback, d.Outcome)
	assert.Equal(t, "staging-teaser", d.Fallback)
	assert.False(t, d.Accessible())
}

// TestEvaluateStarterAIAssistantPrompt covers the canonical upgrade-prompt
// scenario: a starter asking for the AI assistant is pointed at pro.
func TestEvaluateStarterAIAssistantPrompt(t *testing.T) {
	g := newGate(t)

	d, err := g.Evaluate(types.PlanStarter, types.FeatureAIAssistant)
	require.NoError(t, err)

	assert.Equal(t, OutcomeUpgrade, d.Outcome)
	assert.Equal(t, types.FeatureAIAssistant, d.Feature)
	assert.Equal(t, types.PlanPro, d.MinimumTier)
}

func TestEvaluateSharingNetworkPromptNamesElite(t *testing.T) {
	g := newGate(t)

	d, err := g.Evaluate(types.PlanPro, types.FeatureSharingNetwork)
	require.NoError(t, err)

	assert.Equal(t, OutcomeUpgrade, d.Outcome)
	assert.Equal(t, types.PlanElite, d.MinimumTier)
}

// TestEvaluateEmptyFallbackStillFallback distinguishes "fallback provided
// but empty" from "no fallback": supplying one always wins over the prompt.
func TestEvaluateEmptyFallbackStillFallback(t *testing.T) {
	g := newGate(t)

	d, err := g.Evaluate(types.PlanStarter, types.FeaturePortalExport, WithFallback(""))
	require.NoError(t, err)
	assert.Equal(t, OutcomeFallback, d.Outcome)
}

func TestEvaluateContractViolationPropagates(t *testing.T) {
	g := newGate(t)

	_, err := g.Evaluate(types.PlanTier("diamond"), types.FeatureAIAssistant)
	require.Error(t, err)

	var appErr *types.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, types.ErrCodeEntitlementUnknownTier, appErr.Code)

	_, err = g.Evaluate(types.PlanPro, types.FeatureKey("time-travel"))
	require.Error(t, err)
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, types.ErrCodeEntitlementUnknownFeature, appErr.Code)
}
