package types

import (
	"encoding/json"
	"time"
)

// Unlimited is the sentinel for a numeric entitlement with no ceiling.
// Comparison code must treat it as greater than any finite limit.
const Unlimited = -1

// Entitlement is the resolved value of a feature for a tier: either a
// boolean capability switch or a numeric usage ceiling. Exactly one of the
// two shapes is meaningful per feature key; the catalog decides which.
type Entitlement struct {
	// Kind discriminates the union below.
	Kind EntitlementKind `json:"kind"`

	// Enabled is meaningful when Kind == EntitlementBool.
	Enabled bool `json:"enabled,omitempty"`

	// Limit is meaningful when Kind == EntitlementLimit. Unlimited (-1)
	// means no ceiling; any other value is a non-negative integer.
	Limit int `json:"limit,omitempty"`
}

// EntitlementKind discriminates boolean switches from numeric quotas.
type EntitlementKind string

const (
	EntitlementBool  EntitlementKind = "bool"
	EntitlementLimit EntitlementKind = "limit"
)

// BoolEntitlement constructs a boolean capability entitlement.
func BoolEntitlement(enabled bool) Entitlement {
	return Entitlement{Kind: EntitlementBool, Enabled: enabled}
}

// LimitEntitlement constructs a numeric quota entitlement.
// Pass Unlimited for no ceiling.
func LimitEntitlement(limit int) Entitlement {
	return Entitlement{Kind: EntitlementLimit, Limit: limit}
}

// IsUnlimited reports whether this is a quota entitlement with no ceiling.
func (e Entitlement) IsUnlimited() bool {
	return e.Kind == EntitlementLimit && e.Limit == Unlimited
}

// UserPlanContext is the session-scoped plan snapshot. It is created once at
// session start and never mutated; a plan change is delivered as a fresh
// context, not an in-place update. Immutability is the concurrency strategy:
// the value is safely shared by every consumer without locking.
type UserPlanContext struct {
	Tier         PlanTier                   `json:"tier"`
	Entitlements map[FeatureKey]Entitlement `json:"entitlements"`
}

// NotificationMessage is a transient user-facing message owned by the
// NotificationBus. It is destroyed after a fixed display window or on
// explicit dismissal, whichever happens first.
type NotificationMessage struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Severity  Severity  `json:"severity"`
	CreatedAt time.Time `json:"created_at"`
}

// EventEnvelope is the typed wrapper for every inbound realtime event.
// Type is drawn from the closed KnownEventTypes set; envelopes with an
// unrecognized type are rejected at the boundary rather than passed through.
type EventEnvelope struct {
	Type      EventType       `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

// Property is a portfolio listing as exchanged with the backend API.
type Property struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Kind        ListingKind    `json:"kind"`
	Status      PropertyStatus `json:"status"`
	City        string         `json:"city"`
	District    string         `json:"district"`
	Rooms       string         `json:"rooms,omitempty"`
	AreaM2      float64        `json:"area_m2,omitempty"`
	Price       int64          `json:"price"`
	Currency    string         `json:"currency"`
	Description string         `json:"description,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// Customer is a CRM contact.
type Customer struct {
	ID        string        `json:"id"`
	FullName  string        `json:"full_name"`
	Email     string        `json:"email,omitempty"`
	Phone     string        `json:"phone,omitempty"`
	Stage     CustomerStage `json:"stage"`
	Budget    int64         `json:"budget,omitempty"`
	Notes     string        `json:"notes,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Showcase is a public, shareable curated subset of a portfolio.
type Showcase struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	PropertyIDs []string  `json:"property_ids"`
	Published   bool      `json:"published"`
	CreatedAt   time.Time `json:"created_at"`
}

// Valuation is an AI-assisted property valuation request and its result.
type Valuation struct {
	ID             string          `json:"id"`
	PropertyID     string          `json:"property_id,omitempty"`
	Status         ValuationStatus `json:"status"`
	EstimatedPrice int64           `json:"estimated_price,omitempty"`
	Currency       string          `json:"currency,omitempty"`
	Confidence     float64         `json:"confidence,omitempty"`
	RequestedAt    time.Time       `json:"requested_at"`
	CompletedAt    *time.Time      `json:"completed_at,omitempty"`
}

// AreaRiskReport carries area analytics including earthquake risk scoring.
type AreaRiskReport struct {
	AreaID         string    `json:"area_id"`
	City           string    `json:"city"`
	District       string    `json:"district"`
	EarthquakeRisk float64   `json:"earthquake_risk"` // 0..1, higher is riskier
	PricePerM2     int64     `json:"price_per_m2"`
	TrendPercent   float64   `json:"trend_percent"`
	GeneratedAt    time.Time `json:"generated_at"`
}

// Session is the authenticated session the gateway holds for a user,
// combining the backend-issued token with the resolved plan context.
type Session struct {
	Token     string          `json:"token"`
	UserID    string          `json:"user_id"`
	TenantID  string          `json:"tenant_id"`
	Plan      UserPlanContext `json:"plan"`
	ExpiresAt time.Time       `json:"expires_at"`
}
