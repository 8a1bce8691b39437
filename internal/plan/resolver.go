package plan

import (
	"propdesk/internal/types"
)

// Resolver answers entitlement questions against a Catalog. It is pure:
// repeated calls with identical arguments always return identical results,
// and no call has side effects.
type Resolver struct {
	catalog Catalog
}

// NewResolver creates a Resolver over the given catalog.
func NewResolver(catalog Catalog) *Resolver {
	return &Resolver{catalog: catalog}
}

// Resolve looks up the entitlement value for a feature at a tier.
// Unknown tier or feature key is a contract violation and returns a
// 500-class AppError; callers must not treat it as a runtime condition.
func (r *Resolver) Resolve(tier types.PlanTier, key types.FeatureKey) (types.Entitlement, error) {
	ents, err := r.catalog.Entitlements(tier)
	if err != nil {
		return types.Entitlement{}, err
	}

	ent, ok := ents[key]
	if !ok {
		return types.Entitlement{}, types.NewAppErrorWithDetails(
			types.ErrCodeEntitlementUnknownFeature,
			"unknown feature key",
			nil,
			map[string]any{"feature": string(key), "tier": string(tier)},
		)
	}
	return ent, nil
}

// IsAtLeast reports whether tier ranks at or above target in the tier
// ordering. Unknown tiers rank below everything, so a malformed tier never
// passes a gate by accident.
func (r *Resolver) IsAtLeast(tier, target types.PlanTier) bool {
	tr, gr := tier.Rank(), target.Rank()
	if tr < 0 || gr < 0 {
		return false
	}
	return tr >= gr
}

// MinimumTierFor returns the lowest tier whose boolean entitlement for key
// is enabled. It backs the upgrade prompt ("available starting with the Pro
// plan"). The second return is false when no tier enables the feature.
// Calling it with a numeric key is a contract violation, same as Resolve.
func (r *Resolver) MinimumTierFor(key types.FeatureKey) (types.PlanTier, bool, error) {
	for _, tier := range types.TierOrder {
		ent, err := r.Resolve(tier, key)
		if err != nil {
			return "", false, err
		}
		if ent.Kind != types.EntitlementBool {
			return "", false, types.NewAppErrorWithDetails(
				types.ErrCodeEntitlementUnknownFeature,
				"minimum tier is only defined for boolean features",
				nil,
				map[string]any{"feature": string(key)},
			)
		}
		if ent.Enabled {
			return tier, true, nil
		}
	}
	return "", false, nil
}

// PlanContext materializes the immutable session-scoped UserPlanContext for
// a tier. Sessions hold the returned value for their lifetime; a plan change
// produces a fresh context rather than mutating this one.
func (r *Resolver) PlanContext(tier types.PlanTier) (types.UserPlanContext, error) {
	ents, err := r.catalog.Entitlements(tier)
	if err != nil {
		return types.UserPlanContext{}, err
	}
	return types.UserPlanContext{Tier: tier, Entitlements: ents}, nil
}
