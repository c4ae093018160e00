// Package cascade implements the deterministic irrigation decision rule
// ladder.
//
// Rules are applied in order, first match wins. Every rule evaluated is
// recorded in the result, whether or not it decided the outcome, so a
// decision can be replayed and audited from its inputs alone.
package cascade

import (
	"fmt"
	"math"
	"strings"
	"time"

	"fieldsense/pkg/clock"
	"fieldsense/pkg/domain/irrigation"
	"fieldsense/pkg/events"
)

// Engine evaluates irrigation decisions and pre-actuation validation.
type Engine struct {
	clock   clock.Clock
	emitter events.Emitter
}

// NewEngine creates a cascade engine. A nil clock falls back to real
// time; a nil emitter disables events.
func NewEngine(clk clock.Clock, emitter events.Emitter) *Engine {
	if clk == nil {
		clk = clock.NewReal()
	}
	if emitter == nil {
		emitter = events.NoopEmitter{}
	}
	return &Engine{clock: clk, emitter: emitter}
}

// AssessResolution grades the data quality behind a decision input.
// Missing readings and low per-reading confidence both register as
// issues; a reading with no confidence score counts as 0.7.
func (e *Engine) AssessResolution(in *irrigation.DecisionInput) irrigation.ResolutionAssessment {
	var a irrigation.ResolutionAssessment

	if in.SoilMoisture == nil {
		a.DataQualityIssues = append(a.DataQualityIssues, "No soil moisture data available")
	} else {
		a.SoilMoistureConfidence = confidenceOrDefault(in.SoilMoisture.Confidence)
		if a.SoilMoistureConfidence < 0.5 {
			a.DataQualityIssues = append(a.DataQualityIssues, "Low soil moisture confidence")
		}
	}

	if in.SoilTemperature == nil {
		a.DataQualityIssues = append(a.DataQualityIssues, "No soil temperature data available")
	} else {
		a.TemperatureConfidence = confidenceOrDefault(in.SoilTemperature.Confidence)
		if a.TemperatureConfidence < 0.5 {
			a.DataQualityIssues = append(a.DataQualityIssues, "Low temperature confidence")
		}
	}

	if in.Precipitation == nil {
		a.DataQualityIssues = append(a.DataQualityIssues, "No precipitation data available")
	} else {
		a.PrecipitationConfidence = confidenceOrDefault(in.Precipitation.Confidence)
		if a.PrecipitationConfidence < 0.5 {
			a.DataQualityIssues = append(a.DataQualityIssues, "Low precipitation confidence")
		}
	}

	a.OverallConfidence = a.SoilMoistureConfidence*0.5 +
		a.TemperatureConfidence*0.2 +
		a.PrecipitationConfidence*0.3

	a.IsSafeForActuation = a.OverallConfidence >= 0.6 && len(a.DataQualityIssues) == 0

	return a
}

func confidenceOrDefault(c float64) float64 {
	if c == 0 {
		return 0.7
	}
	return c
}

// Decide runs the full rule ladder over a decision input.
func (e *Engine) Decide(in *irrigation.DecisionInput) irrigation.DecisionResult {
	assessment := e.AssessResolution(in)
	var evals []irrigation.RuleEvaluation

	record := func(rule string, triggered bool) bool {
		evals = append(evals, irrigation.RuleEvaluation{Rule: rule, Triggered: triggered})
		return triggered
	}

	finish := func(r irrigation.DecisionResult) irrigation.DecisionResult {
		r.ResolutionAssessment = assessment
		r.RuleEvaluations = evals
		e.emitter.Emit(events.Event{
			Type:    events.CascadeDecisionMade,
			FieldID: in.FieldID,
			Metadata: map[string]string{
				"recommendation": string(r.Recommendation),
				"confidence":     fmt.Sprintf("%g", r.Confidence),
			},
		})
		return r
	}

	// Rule 1: insufficient data quality.
	if record("insufficientData", len(assessment.DataQualityIssues) > 0) {
		e.emitter.Emit(events.Event{
			Type:    events.CascadeInsufficientData,
			FieldID: in.FieldID,
		})
		return finish(irrigation.DecisionResult{
			Recommendation: irrigation.Hold,
			Confidence:     0.3,
			Reasoning: fmt.Sprintf(
				"Insufficient data quality: %s. System cannot safely make irrigation decisions.",
				strings.Join(assessment.DataQualityIssues, ", ")),
		})
	}

	var moisture *float64
	if in.SoilMoisture != nil {
		moisture = &in.SoilMoisture.Value
	}
	var soilTemp *float64
	if in.SoilTemperature != nil {
		soilTemp = &in.SoilTemperature.Value
	}
	precipMM := 0.0
	if in.Precipitation != nil {
		precipMM = in.Precipitation.Value
	}
	etMM := 0.0
	if in.Evapotranspiration != nil {
		etMM = in.Evapotranspiration.Value
	}

	profile := in.Profile()
	irrigationThreshold := profile.IrrigationThreshold()
	holdThreshold := profile.HoldThreshold()

	// Rule 2: recent precipitation sufficient.
	if record("recentPrecipitation", precipMM >= 10) {
		return finish(irrigation.DecisionResult{
			Recommendation: irrigation.Delay,
			Confidence:     0.85,
			Reasoning: fmt.Sprintf(
				"Recent precipitation of %gmm is sufficient. Delaying irrigation to allow soil moisture to stabilize.",
				precipMM),
		})
	}

	// Rule 3: soil moisture critically low.
	if record("criticallyLow", moisture != nil && *moisture <= profile.WiltingPointPercent) {
		return finish(irrigation.DecisionResult{
			Recommendation: irrigation.Irrigate,
			Confidence:     0.95,
			Reasoning: fmt.Sprintf(
				"Soil moisture at %g%% is at or below wilting point (%g%%). Immediate irrigation required to prevent crop stress.",
				*moisture, profile.WiltingPointPercent),
			RecommendedDurationMinutes: 120,
			RecommendedFlowRatePercent: 100,
		})
	}

	// Rule 4: soil moisture below irrigation threshold.
	if record("belowThreshold", moisture != nil && *moisture <= irrigationThreshold) {
		if record("highETDemand", etMM > 4) {
			duration := int(math.Min(180, math.Max(60, math.Round(etMM*10))))
			return finish(irrigation.DecisionResult{
				Recommendation: irrigation.Irrigate,
				Confidence:     0.80,
				Reasoning: fmt.Sprintf(
					"Soil moisture at %g%% is below irrigation threshold (%g%%). High evapotranspiration demand (%gmm/day) indicates crop water need.",
					*moisture, irrigationThreshold, etMM),
				RecommendedDurationMinutes: duration,
				RecommendedFlowRatePercent: 80,
			})
		}

		return finish(irrigation.DecisionResult{
			Recommendation: irrigation.Delay,
			Confidence:     0.70,
			Reasoning: fmt.Sprintf(
				"Soil moisture at %g%% is approaching irrigation threshold (%g%%). Monitoring ET demand before irrigation decision.",
				*moisture, irrigationThreshold),
		})
	}

	// Rule 5: soil moisture adequate.
	if record("aboveThreshold", moisture != nil && *moisture > holdThreshold) {
		return finish(irrigation.DecisionResult{
			Recommendation: irrigation.Hold,
			Confidence:     0.85,
			Reasoning: fmt.Sprintf(
				"Soil moisture at %g%% is above hold threshold (%g%%). Soil has adequate water; irrigation not needed.",
				*moisture, holdThreshold),
		})
	}

	// Rule 6: soil temperature too low for irrigation.
	if record("temperatureTooLow", soilTemp != nil && *soilTemp < 10) {
		return finish(irrigation.DecisionResult{
			Recommendation: irrigation.Hold,
			Confidence:     0.75,
			Reasoning: fmt.Sprintf(
				"Soil temperature at %g°C is too low for optimal irrigation. Delaying until soil warms.",
				*soilTemp),
		})
	}

	return finish(irrigation.DecisionResult{
		Recommendation: irrigation.Hold,
		Confidence:     0.50,
		Reasoning:      "Insufficient data to make a confident irrigation decision. Monitoring conditions.",
	})
}

// ValidateControlAction gates a cascade decision before actuation.
// Errors block; warnings advise. recentActions is newest first.
func (e *Engine) ValidateControlAction(
	result *irrigation.DecisionResult,
	equipmentStatus string,
	recentActions []irrigation.RecentAction,
) irrigation.ControlValidation {
	var v irrigation.ControlValidation

	if equipmentStatus != "operational" {
		v.Errors = append(v.Errors, fmt.Sprintf(
			"Equipment status is %s, not operational", equipmentStatus))
	}

	if !result.ResolutionAssessment.IsSafeForActuation {
		v.Errors = append(v.Errors, "Data resolution insufficient for safe actuation")
	}

	if result.Confidence < 0.6 {
		v.Warnings = append(v.Warnings, fmt.Sprintf(
			"Low confidence recommendation (%g)", result.Confidence))
	}

	if len(recentActions) > 0 {
		last := recentActions[0]
		if last.Status == irrigation.ActionCompleted &&
			e.clock.Now().Sub(last.Timestamp) < 5*time.Minute {
			v.Warnings = append(v.Warnings, "Recent irrigation action detected; verify before repeating")
		}
	}

	v.IsValid = len(v.Errors) == 0

	typ := events.CascadeActionValidated
	if !v.IsValid {
		typ = events.CascadeActionValidationHit
	}
	e.emitter.Emit(events.Event{
		Type: typ,
		Metadata: map[string]string{
			"errors":   fmt.Sprintf("%d", len(v.Errors)),
			"warnings": fmt.Sprintf("%d", len(v.Warnings)),
		},
	})

	return v
}
