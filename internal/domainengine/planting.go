package domainengine

import (
	"fmt"

	"fieldsense/pkg/domain/metric"
	"fieldsense/pkg/domain/recommendation"
)

// PlantingEngine decides the planting window from soil temperature,
// readiness flags and the precipitation forecast.
type PlantingEngine struct {
	svc Services
}

// NewPlantingEngine creates the planting engine.
func NewPlantingEngine(svc Services) *PlantingEngine {
	return &PlantingEngine{svc: svc}
}

// Domain returns PLANTING.
func (e *PlantingEngine) Domain() recommendation.Domain {
	return recommendation.Planting
}

// Generate evaluates the planting ladder. 7°C is the germination floor
// for potato; 10°C with a dry forecast is the optimal window.
func (e *PlantingEngine) Generate(input Input) (*recommendation.Recommendation, error) {
	soilTemp := input.Metrics.Value(metric.SoilTemp, 0)
	seedReady := input.Metrics.Flag(metric.SeedReady, true)
	laborAvailable := input.Metrics.Flag(metric.LaborAvailable, true)
	precipForecast := input.Metrics.Value(metric.PrecipitationForecast, 0)

	var thresholdsCrossed, thresholdsApproaching []string
	var contextFlags []recommendation.ContextFlag
	kpis := map[string]float64{
		"planting_efficiency": 0,
		"germination_risk":    0,
	}

	var base recommendation.Base
	predictedNext := recommendation.Wait

	switch {
	case !seedReady:
		contextFlags = append(contextFlags, recommendation.MaterialsConstraint)
		base = recommendation.Wait
		thresholdsCrossed = append(thresholdsCrossed, "Seed stock not ready for planting.")
	case !laborAvailable:
		contextFlags = append(contextFlags, recommendation.LaborConstraint)
		base = recommendation.Wait
		thresholdsCrossed = append(thresholdsCrossed, "Planting labor unavailable.")
	case soilTemp < 7:
		contextFlags = append(contextFlags, recommendation.WeatherDelay)
		base = recommendation.Wait
		thresholdsCrossed = append(thresholdsCrossed, fmt.Sprintf(
			"Soil temperature (%g°C) is below the 7°C minimum for potato planting.", soilTemp))
		predictedNext = recommendation.Soon
		kpis["germination_risk"] = 100
	case soilTemp >= 10 && precipForecast < 2:
		base = recommendation.Now
		thresholdsCrossed = append(thresholdsCrossed, fmt.Sprintf(
			"Optimal conditions: Soil temp (%g°C) and low precipitation forecast.", soilTemp))
		kpis["planting_efficiency"] = 100
		predictedNext = recommendation.Wait
	case soilTemp >= 7:
		base = recommendation.Soon
		thresholdsCrossed = append(thresholdsCrossed, fmt.Sprintf(
			"Soil temperature (%g°C) is approaching optimal levels.", soilTemp))
		predictedNext = recommendation.Now
	default:
		base = recommendation.Monitor
	}

	return e.svc.Assembler.Assemble(input.FieldID, e.Domain(), Params{
		Base:         base,
		ContextFlags: contextFlags,
		Explainability: recommendation.Explainability{
			InputsUsed:            []string{"soil_temp", "seed_ready", "labor_available", "precipitation_forecast"},
			ThresholdsCrossed:     thresholdsCrossed,
			ThresholdsApproaching: thresholdsApproaching,
			TrendsConsidered:      []string{"Soil temperature trends", "Weather forecast"},
			CropStage:             "PLANTING",
		},
		KPIs:          kpis,
		PredictedNext: &predictedNext,
		RawInputs:     input.RawInputs,
	}), nil
}
