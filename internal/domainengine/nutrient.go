package domainengine

import (
	"fmt"

	"fieldsense/pkg/domain/metric"
	"fieldsense/pkg/domain/recommendation"
)

// NutrientEngine decides fertilizer application timing.
type NutrientEngine struct {
	svc Services
}

// NewNutrientEngine creates the nutrient engine.
func NewNutrientEngine(svc Services) *NutrientEngine {
	return &NutrientEngine{svc: svc}
}

// Domain returns NUTRIENT.
func (e *NutrientEngine) Domain() recommendation.Domain {
	return recommendation.Nutrient
}

// Generate evaluates nitrogen levels against leaching and equipment
// constraints. Heavy forecast rain blocks application outright.
func (e *NutrientEngine) Generate(input Input) (*recommendation.Recommendation, error) {
	nitrogenLevel := input.Metrics.Value(metric.NitrogenLevel, 50)
	precipForecast := input.Metrics.Value(metric.PrecipitationForecast, 0)
	equipmentAvailable := input.Metrics.Flag(metric.EquipmentAvailable, true)
	cropStage := "VEGETATIVE"

	var thresholdsCrossed, thresholdsApproaching []string
	var contextFlags []recommendation.ContextFlag
	kpis := map[string]float64{
		"nutrient_use_efficiency":   0,
		"environmental_impact_risk": 0,
	}

	var base recommendation.Base
	predictedNext := recommendation.Wait

	switch {
	case !equipmentAvailable:
		contextFlags = append(contextFlags, recommendation.EquipmentConstraint)
		base = recommendation.Wait
		thresholdsCrossed = append(thresholdsCrossed, "Fertilizer application equipment unavailable.")
	case precipForecast > 15:
		contextFlags = append(contextFlags, recommendation.WeatherDelay)
		base = recommendation.Wait
		thresholdsCrossed = append(thresholdsCrossed, fmt.Sprintf(
			"High precipitation forecast (%gmm) increases leaching risk.", precipForecast))
		kpis["environmental_impact_risk"] = 100
		predictedNext = recommendation.Soon
	case nitrogenLevel < 30:
		base = recommendation.Now
		thresholdsCrossed = append(thresholdsCrossed, fmt.Sprintf(
			"Nitrogen level (%g ppm) is below critical threshold for %s stage.", nitrogenLevel, cropStage))
		kpis["nutrient_use_efficiency"] = 95
		predictedNext = recommendation.Wait
	case nitrogenLevel < 45:
		base = recommendation.Soon
		thresholdsApproaching = append(thresholdsApproaching, "Nitrogen levels approaching deficiency")
		predictedNext = recommendation.Now
	default:
		base = recommendation.Monitor
	}

	return e.svc.Assembler.Assemble(input.FieldID, e.Domain(), Params{
		Base:         base,
		ContextFlags: contextFlags,
		Explainability: recommendation.Explainability{
			InputsUsed:            []string{"nitrogen_level", "precipitation_forecast", "equipment_available"},
			ThresholdsCrossed:     thresholdsCrossed,
			ThresholdsApproaching: thresholdsApproaching,
			TrendsConsidered:      []string{"Nutrient depletion rates", "Weather-driven leaching risk"},
			CropStage:             cropStage,
		},
		KPIs:          kpis,
		PredictedNext: &predictedNext,
		RawInputs:     input.RawInputs,
	}), nil
}
