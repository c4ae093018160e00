package domainengine

import (
	"fmt"

	"fieldsense/pkg/domain/metric"
	"fieldsense/pkg/domain/recommendation"
)

// HarvestEngine decides the harvest window from crop maturity, weather
// and downstream readiness.
type HarvestEngine struct {
	svc Services
}

// NewHarvestEngine creates the harvest engine.
func NewHarvestEngine(svc Services) *HarvestEngine {
	return &HarvestEngine{svc: svc}
}

// Domain returns HARVEST.
func (e *HarvestEngine) Domain() recommendation.Domain {
	return recommendation.Harvest
}

// Generate evaluates the harvest ladder. Constraints are checked before
// maturity: an open window is useless without equipment and storage.
func (e *HarvestEngine) Generate(input Input) (*recommendation.Recommendation, error) {
	maturityIndex := input.Metrics.Value(metric.MaturityIndex, 0)
	precipForecast := input.Metrics.Value(metric.PrecipitationForecast, 0)
	storageReady := input.Metrics.Flag(metric.StorageReady, true)
	equipmentAvailable := input.Metrics.Flag(metric.EquipmentAvailable, true)

	var thresholdsCrossed, thresholdsApproaching []string
	var contextFlags []recommendation.ContextFlag
	kpis := map[string]float64{
		"harvest_efficiency":   0,
		"quality_preservation": 100,
	}

	var base recommendation.Base
	predictedNext := recommendation.Wait

	switch {
	case !equipmentAvailable:
		contextFlags = append(contextFlags, recommendation.EquipmentConstraint)
		base = recommendation.Wait
		thresholdsCrossed = append(thresholdsCrossed, "Harvesting equipment unavailable.")
	case !storageReady:
		contextFlags = append(contextFlags, recommendation.CapacityConstraint)
		base = recommendation.Wait
		thresholdsCrossed = append(thresholdsCrossed, "Storage facilities not ready for harvest.")
	case precipForecast > 10:
		contextFlags = append(contextFlags, recommendation.WeatherDelay)
		base = recommendation.Wait
		thresholdsCrossed = append(thresholdsCrossed, fmt.Sprintf(
			"High precipitation forecast (%gmm) during harvest window.", precipForecast))
		predictedNext = recommendation.Soon
	case maturityIndex > 90:
		base = recommendation.Now
		thresholdsCrossed = append(thresholdsCrossed, fmt.Sprintf(
			"Crop maturity (%g%%) reached. Optimal harvest window open.", maturityIndex))
		kpis["harvest_efficiency"] = 100
		predictedNext = recommendation.Wait
	case maturityIndex > 75:
		base = recommendation.Soon
		thresholdsApproaching = append(thresholdsApproaching, "Crop approaching full maturity")
		predictedNext = recommendation.Now
	default:
		base = recommendation.Monitor
	}

	return e.svc.Assembler.Assemble(input.FieldID, e.Domain(), Params{
		Base:         base,
		ContextFlags: contextFlags,
		Explainability: recommendation.Explainability{
			InputsUsed:            []string{"maturity_index", "precipitation_forecast", "storage_ready", "equipment_available"},
			ThresholdsCrossed:     thresholdsCrossed,
			ThresholdsApproaching: thresholdsApproaching,
			TrendsConsidered:      []string{"Maturity progression", "Weather windows"},
			CropStage:             "MATURITY",
		},
		KPIs:          kpis,
		PredictedNext: &predictedNext,
		RawInputs:     input.RawInputs,
	}), nil
}
