package domainengine

import (
	"fmt"

	"fieldsense/pkg/domain/metric"
	"fieldsense/pkg/domain/recommendation"
)

// PestWeedEngine decides spray intervention timing from pest pressure,
// disease risk and wind safety.
type PestWeedEngine struct {
	svc Services
}

// NewPestWeedEngine creates the pest and weed engine.
func NewPestWeedEngine(svc Services) *PestWeedEngine {
	return &PestWeedEngine{svc: svc}
}

// Domain returns PEST_WEED.
func (e *PestWeedEngine) Domain() recommendation.Domain {
	return recommendation.PestWeed
}

// Generate evaluates the spray ladder. Wind above 20 km/h makes
// spraying unsafe regardless of pressure.
func (e *PestWeedEngine) Generate(input Input) (*recommendation.Recommendation, error) {
	pestPressure := input.Metrics.Value(metric.PestPressure, 0)
	diseaseRisk := input.Metrics.Value(metric.DiseaseRiskIndex, 0)
	windSpeed := input.Metrics.Value(metric.WindSpeed, 0)
	equipmentAvailable := input.Metrics.Flag(metric.EquipmentAvailable, true)

	applicationSafety := 100.0
	if windSpeed > 15 {
		applicationSafety = 0
	}

	var thresholdsCrossed, thresholdsApproaching []string
	var contextFlags []recommendation.ContextFlag
	kpis := map[string]float64{
		"pest_control_efficacy":    0,
		"application_safety_score": applicationSafety,
	}

	var base recommendation.Base
	predictedNext := recommendation.Wait

	switch {
	case !equipmentAvailable:
		contextFlags = append(contextFlags, recommendation.EquipmentConstraint)
		base = recommendation.Wait
		thresholdsCrossed = append(thresholdsCrossed, "Spraying equipment unavailable.")
	case windSpeed > 20:
		contextFlags = append(contextFlags, recommendation.WeatherDelay)
		base = recommendation.Wait
		thresholdsCrossed = append(thresholdsCrossed, fmt.Sprintf(
			"Wind speed (%g km/h) exceeds safety threshold for spraying.", windSpeed))
		predictedNext = recommendation.Soon
	case diseaseRisk > 80 || pestPressure > 70:
		base = recommendation.Now
		thresholdsCrossed = append(thresholdsCrossed, fmt.Sprintf(
			"Critical risk: Disease index (%g) or pest pressure (%g) exceeded thresholds.",
			diseaseRisk, pestPressure))
		kpis["pest_control_efficacy"] = 90
		predictedNext = recommendation.Wait
	case diseaseRisk > 60 || pestPressure > 50:
		base = recommendation.Soon
		thresholdsApproaching = append(thresholdsApproaching, "Pest or disease levels approaching intervention thresholds")
		predictedNext = recommendation.Now
	default:
		base = recommendation.Monitor
	}

	return e.svc.Assembler.Assemble(input.FieldID, e.Domain(), Params{
		Base:         base,
		ContextFlags: contextFlags,
		Explainability: recommendation.Explainability{
			InputsUsed:            []string{"pest_pressure", "disease_risk_index", "wind_speed", "equipment_available"},
			ThresholdsCrossed:     thresholdsCrossed,
			ThresholdsApproaching: thresholdsApproaching,
			TrendsConsidered:      []string{"Pest population growth", "Disease environmental suitability"},
			CropStage:             "GROWING",
		},
		KPIs:          kpis,
		PredictedNext: &predictedNext,
		RawInputs:     input.RawInputs,
	}), nil
}
