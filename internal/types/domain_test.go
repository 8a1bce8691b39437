package types

import (
	"encoding/json"
	"testing"
	"time"
)

func TestEntitlementConstructors(t *testing.T) {
	on := BoolEntitlement(true)
	if on.Kind != EntitlementBool || !on.Enabled {
		t.Errorf("BoolEntitlement(true) = %+v", on)
	}

	limit := LimitEntitlement(25)
	if limit.Kind != EntitlementLimit || limit.Limit != 25 {
		t.Errorf("LimitEntitlement(25) = %+v", limit)
	}

	unlimited := LimitEntitlement(Unlimited)
	if !unlimited.IsUnlimited() {
		t.Errorf("LimitEntitlement(Unlimited) should report IsUnlimited")
	}
	if LimitEntitlement(0).IsUnlimited() {
		t.Errorf("a zero quota is not unlimited")
	}
	if BoolEntitlement(true).IsUnlimited() {
		t.Errorf("a boolean entitlement is never unlimited")
	}
}

func TestPlanTierRank(t *testing.T) {
	if PlanStarter.Rank() != 0 || PlanPro.Rank() != 1 || PlanElite.Rank() != 2 {
		t.Errorf("tier ranks out of order: starter=%d pro=%d elite=%d",
			PlanStarter.Rank(), PlanPro.Rank(), PlanElite.Rank())
	}
	if PlanTier("gold").Rank() != -1 {
		t.Errorf("unknown tier must rank -1")
	}
}

func TestEventEnvelopeDecode(t *testing.T) {
	raw := []byte(`{"type":"valuation-complete","payload":{"valuation_id":"v_1"},"timestamp":"2026-01-05T10:00:00Z"}`)

	var env EventEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	if env.Type != EventValuationComplete {
		t.Errorf("type = %s, want %s", env.Type, EventValuationComplete)
	}
	if !KnownEventTypes[env.Type] {
		t.Errorf("valuation-complete must be a known event type")
	}
	want := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	if !env.Timestamp.Equal(want) {
		t.Errorf("timestamp = %v, want %v", env.Timestamp, want)
	}
}
