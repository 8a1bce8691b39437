package plan

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propdesk/internal/types"
)

func newResolver(t *testing.T) *Resolver {
	t.Helper()
	return NewResolver(NewStaticCatalog())
}

func TestResolveKnownValues(t *testing.T) {
	r := newResolver(t)

	tests := []struct {
		tier types.PlanTier
		key  types.FeatureKey
		want types.Entitlement
	}{
		{types.PlanStarter, types.FeatureAIAssistant, types.BoolEntitlement(false)},
		{types.PlanPro, types.FeatureAIAssistant, types.BoolEntitlement(true)},
		{types.PlanPro, types.FeatureSharingNetwork, types.BoolEntitlement(false)},
		{types.PlanElite, types.FeatureSharingNetwork, types.BoolEntitlement(true)},
		{types.PlanStarter, types.FeatureValuationsMonthly, types.LimitEntitlement(5)},
		{types.PlanElite, types.FeatureValuationsMonthly, types.LimitEntitlement(types.Unlimited)},
	}

	for _, tt := range tests {
		got, err := r.Resolve(tt.tier, tt.key)
		require.NoError(t, err, "%s/%s", tt.tier, tt.key)
		assert.Equal(t, tt.want, got, "%s/%s", tt.tier, tt.key)
	}
}

// TestResolveIsPure verifies repeated calls with identical arguments return
// identical results.
func TestResolveIsPure(t *testing.T) {
	r := newResolver(t)

	first, err := r.Resolve(types.PlanPro, types.FeatureCRMContacts)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := r.Resolve(types.PlanPro, types.FeatureCRMContacts)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestResolveUnknownFeatureFailsFast(t *testing.T) {
	r := newResolver(t)

	_, err := r.Resolve(types.PlanPro, types.FeatureKey("teleportation"))
	require.Error(t, err)

	var appErr *types.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, types.ErrCodeEntitlementUnknownFeature, appErr.Code)
}

func TestResolveUnknownTierFailsFast(t *testing.T) {
	r := newResolver(t)

	_, err := r.Resolve(types.PlanTier(""), types.FeatureAIAssistant)
	require.Error(t, err)

	var appErr *types.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, types.ErrCodeEntitlementUnknownTier, appErr.Code)
}

func TestIsAtLeast(t *testing.T) {
	r := newResolver(t)

	assert.True(t, r.IsAtLeast(types.PlanElite, types.PlanStarter))
	assert.True(t, r.IsAtLeast(types.PlanPro, types.PlanPro))
	assert.False(t, r.IsAtLeast(types.PlanStarter, types.PlanPro))

	// Unknown tiers never satisfy a requirement in either position.
	assert.False(t, r.IsAtLeast(types.PlanTier("gold"), types.PlanStarter))
	assert.False(t, r.IsAtLeast(types.PlanElite, types.PlanTier("gold")))
}

func TestMinimumTierFor(t *testing.T) {
	r := newResolver(t)

	tier, ok, err := r.MinimumTierFor(types.FeatureAIAssistant)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, types.PlanPro, tier)

	tier, ok, err = r.MinimumTierFor(types.FeatureSharingNetwork)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, types.PlanElite, tier)
}

func TestMinimumTierForNumericKeyIsContractViolation(t *testing.T) {
	r := newResolver(t)

	_, _, err := r.MinimumTierFor(types.FeatureValuationsMonthly)
	require.Error(t, err)

	var appErr *types.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, types.ErrCodeEntitlementUnknownFeature, appErr.Code)
}

func TestPlanContext(t *testing.T) {
	r := newResolver(t)

	pc, err := r.PlanContext(types.PlanPro)
	require.NoError(t, err)

	assert.Equal(t, types.PlanPro, pc.Tier)
	assert.Len(t, pc.Entitlements, len(types.AllFeatureKeys))
	assert.True(t, pc.Entitlements[types.FeatureAIAssistant].Enabled)

	_, err = r.PlanContext(types.PlanTier("bronze"))
	require.Error(t, err)
}
