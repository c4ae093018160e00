// Package irrigation provides domain types for the deterministic
// irrigation decision cascade.
//
// The cascade is the direct-control decision path: a fixed rule ladder
// over a snapshot of readings and a soil profile. It is intentionally
// separate from the irrigation domain engine, which produces the
// explainability-rich Recommendation record for the same physical
// question via a different call path.
//
// INVARIANTS:
//   - Same DecisionInput => same DecisionResult. No hidden time or
//     randomness.
//   - Every rule evaluated is recorded in RuleEvaluations, whether or not
//     it decided the outcome.
package irrigation

import (
	"fmt"
	"time"

	"fieldsense/pkg/domain/metric"
)

// Decision is the cascade's recommendation.
type Decision string

const (
	// Irrigate means start irrigation now.
	Irrigate Decision = "IRRIGATE"

	// Delay means conditions suggest waiting for soil to stabilize.
	Delay Decision = "DELAY"

	// Hold means do not irrigate.
	Hold Decision = "HOLD"
)

// Validate checks if the decision is valid.
func (d Decision) Validate() error {
	switch d {
	case Irrigate, Delay, Hold:
		return nil
	default:
		return fmt.Errorf("invalid irrigation decision: %s", d)
	}
}

// SoilProfile carries the static soil reference values for a field.
type SoilProfile struct {
	// FieldCapacityPercent is the moisture level the soil holds against
	// drainage.
	FieldCapacityPercent float64

	// WiltingPointPercent is the moisture level below which crops cannot
	// extract water.
	WiltingPointPercent float64
}

// DefaultSoilProfile is used when a field has no soil reference values.
var DefaultSoilProfile = SoilProfile{
	FieldCapacityPercent: 30,
	WiltingPointPercent:  12,
}

// AvailableWater is the span between field capacity and wilting point.
func (p SoilProfile) AvailableWater() float64 {
	return p.FieldCapacityPercent - p.WiltingPointPercent
}

// IrrigationThreshold is the moisture level at which irrigation becomes
// warranted: wilting point plus 30% of available water.
func (p SoilProfile) IrrigationThreshold() float64 {
	return p.WiltingPointPercent + p.AvailableWater()*0.3
}

// HoldThreshold is the moisture level above which the soil holds adequate
// water: wilting point plus 50% of available water.
func (p SoilProfile) HoldThreshold() float64 {
	return p.WiltingPointPercent + p.AvailableWater()*0.5
}

// DecisionInput is the full snapshot the cascade evaluates.
type DecisionInput struct {
	// FieldID identifies the field.
	FieldID string

	// Soil carries the field's soil reference values; nil falls back to
	// DefaultSoilProfile.
	Soil *SoilProfile

	// SoilMoisture, SoilTemperature, Precipitation and
	// Evapotranspiration are the current readings; nil means the reading
	// is unavailable.
	SoilMoisture       *metric.NormalizedMetric
	SoilTemperature    *metric.NormalizedMetric
	Precipitation      *metric.NormalizedMetric
	Evapotranspiration *metric.NormalizedMetric

	// RecentPrecipitationMM is accumulated rainfall over the last 24h.
	RecentPrecipitationMM float64
}

// Profile resolves the soil profile, applying the default when absent.
func (in *DecisionInput) Profile() SoilProfile {
	if in.Soil == nil {
		return DefaultSoilProfile
	}
	return *in.Soil
}

// ResolutionAssessment grades the data quality behind a cascade decision.
type ResolutionAssessment struct {
	SoilMoistureConfidence  float64
	TemperatureConfidence   float64
	PrecipitationConfidence float64

	// OverallConfidence weights moisture 0.5, temperature 0.2,
	// precipitation 0.3.
	OverallConfidence float64

	DataQualityIssues []string

	// IsSafeForActuation is true iff OverallConfidence >= 0.6 and no
	// issues were found.
	IsSafeForActuation bool
}

// RuleEvaluation records one rule's outcome in evaluation order.
type RuleEvaluation struct {
	Rule      string
	Triggered bool
}

// DecisionResult is the cascade's full, auditable output.
type DecisionResult struct {
	Recommendation Decision
	Confidence     float64
	Reasoning      string

	RecommendedDurationMinutes int
	RecommendedFlowRatePercent int

	ResolutionAssessment ResolutionAssessment

	// RuleEvaluations lists every rule evaluated, in order.
	RuleEvaluations []RuleEvaluation
}

// RuleTriggered reports whether the named rule was evaluated and triggered.
func (r *DecisionResult) RuleTriggered(name string) bool {
	for _, e := range r.RuleEvaluations {
		if e.Rule == name {
			return e.Triggered
		}
	}
	return false
}

// ControlValidation is the outcome of pre-actuation validation for a
// cascade decision.
type ControlValidation struct {
	IsValid  bool
	Errors   []string
	Warnings []string
}

// ActionStatus classifies a past control action.
type ActionStatus string

const (
	ActionCompleted ActionStatus = "COMPLETED"
	ActionFailed    ActionStatus = "FAILED"
	ActionPending   ActionStatus = "PENDING"
)

// RecentAction is a prior control action considered during validation.
type RecentAction struct {
	Status    ActionStatus
	Timestamp time.Time
}
