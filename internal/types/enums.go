package types

// PlanTier identifies the subscription level of a tenant account.
// Tiers are totally ordered by capability: every entitlement at a tier is
// at least as permissive at the tier above it.
type PlanTier string

const (
	PlanStarter PlanTier = "starter"
	PlanPro     PlanTier = "pro"
	PlanElite   PlanTier = "elite"
)

// TierOrder lists the plan tiers from least to most capable. Tier comparison
// and the catalog monotonicity check both iterate this slice; adding a tier
// means inserting it here in rank position.
var TierOrder = []PlanTier{PlanStarter, PlanPro, PlanElite}

// Rank returns the position of the tier in TierOrder, or -1 if the tier is
// not a known value.
func (t PlanTier) Rank() int {
	for i, tier := range TierOrder {
		if tier == t {
			return i
		}
	}
	return -1
}

// FeatureKey identifies a plan-gated capability. The set is closed: every
// key used anywhere in the gateway must be declared here and present in the
// plan catalog for all tiers.
type FeatureKey string

const (
	// Numeric quota keys. Quotas are ceilings enforced by the backend at
	// time of use; the gateway only reports them.
	FeatureValuationsMonthly FeatureKey = "valuations_monthly_limit"
	FeatureCRMContacts       FeatureKey = "crm_contacts_limit"
	FeatureShowcases         FeatureKey = "showcases_limit"

	// Boolean capability switches.
	FeatureAIAssistant    FeatureKey = "ai_assistant"
	FeatureVirtualStaging FeatureKey = "virtual_staging"
	FeaturePortalExport   FeatureKey = "portal_export"
	FeatureSharingNetwork FeatureKey = "sharing_network"
)

// AllFeatureKeys enumerates every declared feature key. Used by the catalog
// self-check and by the session entitlements endpoint.
var AllFeatureKeys = []FeatureKey{
	FeatureValuationsMonthly,
	FeatureCRMContacts,
	FeatureShowcases,
	FeatureAIAssistant,
	FeatureVirtualStaging,
	FeaturePortalExport,
	FeatureSharingNetwork,
}

// Severity classifies a transient notification message.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
)

// ConnectionState describes the realtime channel lifecycle.
type ConnectionState string

const (
	StateDisconnected ConnectionState = "disconnected"
	StateConnecting   ConnectionState = "connecting"
	StateConnected    ConnectionState = "connected"
	StateReconnecting ConnectionState = "reconnecting"
	StateFailed       ConnectionState = "failed"
)

// EventType identifies the kind of realtime event envelope.
type EventType string

const (
	EventNotification      EventType = "notification"
	EventMatchUpdate       EventType = "match-update"
	EventValuationComplete EventType = "valuation-complete"
	EventSystem            EventType = "system"
)

// KnownEventTypes is the closed set of accepted inbound event types.
// Envelopes with any other type are rejected at the boundary.
var KnownEventTypes = map[EventType]bool{
	EventNotification:      true,
	EventMatchUpdate:       true,
	EventValuationComplete: true,
	EventSystem:            true,
}

// PropertyStatus represents the listing lifecycle of a property.
type PropertyStatus string

const (
	PropertyActive   PropertyStatus = "active"
	PropertySold     PropertyStatus = "sold"
	PropertyRented   PropertyStatus = "rented"
	PropertyArchived PropertyStatus = "archived"
)

// ListingKind distinguishes sale listings from rentals.
type ListingKind string

const (
	ListingSale ListingKind = "sale"
	ListingRent ListingKind = "rent"
)

// CustomerStage tracks where a CRM contact sits in the pipeline.
type CustomerStage string

const (
	StageLead        CustomerStage = "lead"
	StageContacted   CustomerStage = "contacted"
	StageViewing     CustomerStage = "viewing"
	StageNegotiation CustomerStage = "negotiation"
	StageClosed      CustomerStage = "closed"
)

// ValuationStatus represents the lifecycle of an AI valuation request.
type ValuationStatus string

const (
	ValuationPending  ValuationStatus = "pending"
	ValuationComplete ValuationStatus = "complete"
	ValuationFailed   ValuationStatus = "failed"
)
