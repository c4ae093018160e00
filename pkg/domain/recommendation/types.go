// Package recommendation provides the canonical decision artifact shared
// by all domain engines.
//
// INVARIANTS:
//   - Base → (Urgency, Color) is a pure deterministic mapping, except that
//     an EMERGENCY overlay forces CRITICAL/RED and requires human
//     confirmation.
//   - ConfirmedAt is the only field mutated after creation, and only for
//     EMERGENCY-flagged recommendations.
//   - Expiry (ValidUntil) is advisory; enforcement belongs to consumers.
package recommendation

import (
	"fmt"
	"time"

	"fieldsense/pkg/domain/metric"
	"fieldsense/pkg/domain/safety"
	"fieldsense/pkg/domain/scenario"
	fserrors "fieldsense/pkg/errors"
)

// Domain identifies an operational decision domain.
type Domain string

const (
	Planning    Domain = "PLANNING"
	FieldPrep   Domain = "FIELD_PREP"
	Planting    Domain = "PLANTING"
	Irrigation  Domain = "IRRIGATION"
	Nutrient    Domain = "NUTRIENT"
	PestWeed    Domain = "PEST_WEED"
	Harvest     Domain = "HARVEST"
	Processing  Domain = "PROCESSING"
	Packaging   Domain = "PACKAGING"
	Warehousing Domain = "WAREHOUSING"
	Logistics   Domain = "LOGISTICS"
)

// AllDomains returns all domains in pipeline order.
func AllDomains() []Domain {
	return []Domain{
		Planning, FieldPrep, Planting, Irrigation, Nutrient, PestWeed,
		Harvest, Processing, Packaging, Warehousing, Logistics,
	}
}

// Validate checks if the domain is known.
func (d Domain) Validate() error {
	for _, k := range AllDomains() {
		if d == k {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", fserrors.ErrUnknownDomain, d)
}

// Base is the base recommendation level.
type Base string

const (
	// Now means immediate action required.
	Now Base = "NOW"
	// Soon means action needed within hours.
	Soon Base = "SOON"
	// Later means action needed within days.
	Later Base = "LATER"
	// Wait means conditions are not suitable.
	Wait Base = "WAIT"
	// Monitor means observe without action.
	Monitor Base = "MONITOR"
)

// AllBases returns all base recommendation levels in urgency order.
func AllBases() []Base {
	return []Base{Now, Soon, Later, Wait, Monitor}
}

// Validate checks if the base level is valid.
func (b Base) Validate() error {
	switch b {
	case Now, Soon, Later, Wait, Monitor:
		return nil
	default:
		return fmt.Errorf("invalid base recommendation: %s", b)
	}
}

// Urgency is the display urgency derived from Base and overlays.
type Urgency string

const (
	UrgencyCritical Urgency = "CRITICAL"
	UrgencyHigh     Urgency = "HIGH"
	UrgencyMedium   Urgency = "MEDIUM"
	UrgencyLow      Urgency = "LOW"
	UrgencyNone     Urgency = "NONE"
	UrgencyInfo     Urgency = "INFO"
)

// Color is the display color derived from Base and overlays.
type Color string

const (
	ColorRed    Color = "RED"
	ColorOrange Color = "ORANGE"
	ColorYellow Color = "YELLOW"
	ColorBlue   Color = "BLUE"
	ColorGreen  Color = "GREEN"
	ColorCyan   Color = "CYAN"
	ColorWhite  Color = "WHITE"
)

// ContextFlag is a side annotation explaining an external constraint.
type ContextFlag string

const (
	WeatherDelay        ContextFlag = "WEATHER_DELAY"
	LaborConstraint     ContextFlag = "LABOR_CONSTRAINT"
	EquipmentConstraint ContextFlag = "EQUIPMENT_CONSTRAINT"
	CapacityConstraint  ContextFlag = "CAPACITY_CONSTRAINT"
	MaterialsConstraint ContextFlag = "MATERIALS_CONSTRAINT"
)

// SeverityOverlay escalates a recommendation beyond its base mapping.
type SeverityOverlay string

const (
	// Emergency forces CRITICAL/RED and human confirmation.
	Emergency SeverityOverlay = "EMERGENCY"
)

// HasEmergency reports whether the overlay set contains EMERGENCY.
func HasEmergency(overlays []SeverityOverlay) bool {
	for _, o := range overlays {
		if o == Emergency {
			return true
		}
	}
	return false
}

// UrgencyFor maps a base level and overlays to a display urgency.
// EMERGENCY overrides the base mapping unconditionally.
func UrgencyFor(base Base, overlays []SeverityOverlay) Urgency {
	if HasEmergency(overlays) {
		return UrgencyCritical
	}
	switch base {
	case Now:
		return UrgencyHigh
	case Soon:
		return UrgencyMedium
	case Later:
		return UrgencyLow
	case Wait:
		return UrgencyNone
	case Monitor:
		return UrgencyInfo
	default:
		return UrgencyNone
	}
}

// ColorFor maps a base level and overlays to a display color.
func ColorFor(base Base, overlays []SeverityOverlay) Color {
	if HasEmergency(overlays) {
		return ColorRed
	}
	switch base {
	case Now:
		return ColorOrange
	case Soon:
		return ColorYellow
	case Later:
		return ColorBlue
	case Wait:
		return ColorGreen
	case Monitor:
		return ColorCyan
	default:
		return ColorWhite
	}
}

// ReasoningStep is one link in a deep explainability chain.
type ReasoningStep struct {
	Step        string
	Observation string
	Implication string
	Confidence  float64
}

// Explainability records why a recommendation was made. The deep fields
// (ReasoningChain onward) are populated only by engines that run the full
// hardening → safety → scenario stack; threshold-only engines leave them
// empty.
type Explainability struct {
	InputsUsed            []string
	ThresholdsCrossed     []string
	ThresholdsApproaching []string
	TrendsConsidered      []string
	CropStage             string

	// Deep fields.
	ReasoningChain     []ReasoningStep
	HardenedMetrics    map[metric.Type]metric.HardenedMetric
	DataIntegrityScore float64
	Scenarios          []scenario.Outcome
	SafetyInterlocks   []safety.Interlock
	ResolutionMetadata *safety.ResolutionMetadata
}

// Recommendation is the canonical decision artifact.
type Recommendation struct {
	ID       string
	Domain   Domain
	FieldID  string
	IssuedAt time.Time

	// ValidUntil is advisory; the core never enforces expiry.
	ValidUntil time.Time

	Base             Base
	UrgencyLevel     Urgency
	DisplayColor     Color
	ContextFlags     []ContextFlag
	SeverityOverlays []SeverityOverlay

	RequiresHumanConfirmation bool
	ConfirmedAt               *time.Time

	Explainability Explainability
	KPIs           map[string]float64

	PredictedNext *Base
	Confidence    float64

	AuditLogID string
	RawInputs  map[string]any
}

// Confirm records human confirmation of an EMERGENCY recommendation.
// The only legal post-creation mutation.
func (r *Recommendation) Confirm(now time.Time) error {
	if !r.RequiresHumanConfirmation {
		return fserrors.ErrConfirmationNotRequired
	}
	t := now
	r.ConfirmedAt = &t
	return nil
}

// Validate checks the recommendation's structural invariants.
func (r *Recommendation) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("missing recommendation id")
	}
	if err := r.Domain.Validate(); err != nil {
		return err
	}
	if err := r.Base.Validate(); err != nil {
		return err
	}
	if r.Confidence < 0 || r.Confidence > 1 {
		return fmt.Errorf("confidence out of range [0,1]: %f", r.Confidence)
	}
	if r.AuditLogID == "" {
		return fmt.Errorf("missing audit log id")
	}
	if HasEmergency(r.SeverityOverlays) && !r.RequiresHumanConfirmation {
		return fmt.Errorf("emergency overlay without confirmation requirement")
	}
	return nil
}
