// Package plan provides the plan catalog and entitlement resolution for the
// propdesk gateway. It is the single source of truth for what each
// subscription tier allows; every feature check in the system must route
// through this package instead of re-deriving tier logic locally.
package plan

import (
	"fmt"

	"propdesk/internal/types"
)

// Catalog defines the authoritative entitlements for each tier.
type Catalog interface {
	// Entitlements returns the full entitlement set for the given tier.
	// Unknown tiers are a programming error and return a loud
	// entitlement_unknown_tier AppError; there is no soft fallback.
	Entitlements(tier types.PlanTier) (map[types.FeatureKey]types.Entitlement, error)
}

// staticCatalog is a compile-time plan catalog backed by an in-memory map.
// It implements Catalog and is the standard implementation for production use.
type staticCatalog struct {
	entitlements map[types.PlanTier]map[types.FeatureKey]types.Entitlement
}

// catalogDefaults defines the hardcoded per-tier entitlements.
//
//	| Key                      | Starter | Pro       | Elite     |
//	|--------------------------|---------|-----------|-----------|
//	| valuations_monthly_limit | 5       | 50        | unlimited |
//	| crm_contacts_limit       | 100     | 1,000     | unlimited |
//	| showcases_limit          | 1       | 10        | 50        |
//	| ai_assistant             | no      | yes       | yes       |
//	| virtual_staging          | no      | yes       | yes       |
//	| portal_export            | no      | yes       | yes       |
//	| sharing_network          | no      | no        | yes       |
//
// The table must stay monotonic across the tier ordering: each tier's
// entitlements are a superset of the tier below. NewStaticCatalog verifies
// this at construction and panics on violation, so a bad edit here never
// reaches a running gateway.
var catalogDefaults = map[types.PlanTier]map[types.FeatureKey]types.Entitlement{
	types.PlanStarter: {
		types.FeatureValuationsMonthly: types.LimitEntitlement(5),
		types.FeatureCRMContacts:       types.LimitEntitlement(100),
		types.FeatureShowcases:         types.LimitEntitlement(1),
		types.FeatureAIAssistant:       types.BoolEntitlement(false),
		types.FeatureVirtualStaging:    types.BoolEntitlement(false),
		types.FeaturePortalExport:      types.BoolEntitlement(false),
		types.FeatureSharingNetwork:    types.BoolEntitlement(false),
	},
	types.PlanPro: {
		types.FeatureValuationsMonthly: types.LimitEntitlement(50),
		types.FeatureCRMContacts:       types.LimitEntitlement(1000),
		types.FeatureShowcases:         types.LimitEntitlement(10),
		types.FeatureAIAssistant:       types.BoolEntitlement(true),
		types.FeatureVirtualStaging:    types.BoolEntitlement(true),
		types.FeaturePortalExport:      types.BoolEntitlement(true),
		types.FeatureSharingNetwork:    types.BoolEntitlement(false),
	},
	types.PlanElite: {
		types.FeatureValuationsMonthly: types.LimitEntitlement(types.Unlimited),
		types.FeatureCRMContacts:       types.LimitEntitlement(types.Unlimited),
		types.FeatureShowcases:         types.LimitEntitlement(50),
		types.FeatureAIAssistant:       types.BoolEntitlement(true),
		types.FeatureVirtualStaging:    types.BoolEntitlement(true),
		types.FeaturePortalExport:      types.BoolEntitlement(true),
		types.FeatureSharingNetwork:    types.BoolEntitlement(true),
	},
}

// NewStaticCatalog returns a Catalog backed by the hardcoded entitlement
// table. It panics if the table is incomplete or violates monotonicity:
// catalog defects are build-time mistakes and must never ship.
func NewStaticCatalog() Catalog {
	if err := checkCatalog(catalogDefaults); err != nil {
		panic(fmt.Sprintf("plan: invalid catalog: %v", err))
	}

	// Copy the defaults so callers can never mutate the package-level table.
	m := make(map[types.PlanTier]map[types.FeatureKey]types.Entitlement, len(catalogDefaults))
	for tier, ents := range catalogDefaults {
		inner := make(map[types.FeatureKey]types.Entitlement, len(ents))
		for k, v := range ents {
			inner[k] = v
		}
		m[tier] = inner
	}
	return &staticCatalog{entitlements: m}
}

// Entitlements returns a copy of the entitlement set for the given tier.
func (c *staticCatalog) Entitlements(tier types.PlanTier) (map[types.FeatureKey]types.Entitlement, error) {
	ents, ok := c.entitlements[tier]
	if !ok {
		return nil, types.NewAppErrorWithDetails(
			types.ErrCodeEntitlementUnknownTier,
			"unknown plan tier",
			nil,
			map[string]any{"tier": string(tier)},
		)
	}

	out := make(map[types.FeatureKey]types.Entitlement, len(ents))
	for k, v := range ents {
		out[k] = v
	}
	return out, nil
}

// checkCatalog validates completeness and monotonicity of an entitlement
// table across the tier ordering.
func checkCatalog(table map[types.PlanTier]map[types.FeatureKey]types.Entitlement) error {
	for _, tier := range types.TierOrder {
		ents, ok := table[tier]
		if !ok {
			return fmt.Errorf("tier %s missing from catalog", tier)
		}
		for _, key := range types.AllFeatureKeys {
			if _, ok := ents[key]; !ok {
				return fmt.Errorf("tier %s missing key %s", tier, key)
			}
		}
		if len(ents) != len(types.AllFeatureKeys) {
			return fmt.Errorf("tier %s declares undeclared feature keys", tier)
		}
	}

	// Adjacent-pair monotonicity for every key.
	for i := 1; i < len(types.TierOrder); i++ {
		lower, higher := types.TierOrder[i-1], types.TierOrder[i]
		for _, key := range types.AllFeatureKeys {
			lo, hi := table[lower][key], table[higher][key]
			if lo.Kind != hi.Kind {
				return fmt.Errorf("key %s changes kind between %s and %s", key, lower, higher)
			}
			if !atLeastAsPermissive(hi, lo) {
				return fmt.Errorf("key %s regresses from %s to %s", key, lower, higher)
			}
		}
	}
	return nil
}

// atLeastAsPermissive reports whether entitlement a grants at least as much
// as entitlement b of the same kind. Unlimited quotas beat any finite limit.
func atLeastAsPermissive(a, b types.Entitlement) bool {
	switch a.Kind {
	case types.EntitlementBool:
		return a.Enabled || !b.Enabled
	case types.EntitlementLimit:
		if a.Limit == types.Unlimited {
			return true
		}
		if b.Limit == types.Unlimited {
			return false
		}
		return a.Limit >= b.Limit
	default:
		return false
	}
}
