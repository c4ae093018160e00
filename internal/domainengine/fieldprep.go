package domainengine

import (
	"fmt"

	"fieldsense/pkg/domain/metric"
	"fieldsense/pkg/domain/recommendation"
)

// FieldPrepEngine decides when field preparation work should run.
type FieldPrepEngine struct {
	svc Services
}

// NewFieldPrepEngine creates the field preparation engine.
func NewFieldPrepEngine(svc Services) *FieldPrepEngine {
	return &FieldPrepEngine{svc: svc}
}

// Domain returns FIELD_PREP.
func (e *FieldPrepEngine) Domain() recommendation.Domain {
	return recommendation.FieldPrep
}

// Generate evaluates equipment, forecast and soil condition in order.
func (e *FieldPrepEngine) Generate(input Input) (*recommendation.Recommendation, error) {
	awc := input.Metrics.Value(metric.AWC, 100)
	compaction := input.Metrics.Value(metric.CompactionLevel, 0)
	precipForecast := input.Metrics.Value(metric.PrecipitationForecast, 0)
	equipmentAvailable := input.Metrics.Flag(metric.EquipmentAvailable, true)

	var thresholdsCrossed, thresholdsApproaching []string
	var contextFlags []recommendation.ContextFlag
	kpis := map[string]float64{
		"soil_health_index":      100 - compaction,
		"operational_delay_risk": 0,
	}

	var base recommendation.Base
	predictedNext := recommendation.Wait

	switch {
	case !equipmentAvailable:
		contextFlags = append(contextFlags, recommendation.EquipmentConstraint)
		base = recommendation.Wait
		thresholdsCrossed = append(thresholdsCrossed, "Field preparation equipment unavailable.")
	case precipForecast > 5:
		contextFlags = append(contextFlags, recommendation.WeatherDelay)
		base = recommendation.Wait
		thresholdsCrossed = append(thresholdsCrossed, fmt.Sprintf(
			"Precipitation forecast (%gmm) exceeds 5mm threshold for field work.", precipForecast))
		kpis["operational_delay_risk"] = 100
		predictedNext = recommendation.Soon
	case awc < 30 && compaction > 70:
		base = recommendation.Now
		thresholdsCrossed = append(thresholdsCrossed, fmt.Sprintf(
			"Soil moisture (%g%%) is low and compaction (%g) is high, requiring immediate preparation.",
			awc, compaction))
		predictedNext = recommendation.Wait
	default:
		base = recommendation.Monitor
		thresholdsApproaching = append(thresholdsApproaching, "Monitoring soil moisture and compaction levels")
	}

	return e.svc.Assembler.Assemble(input.FieldID, e.Domain(), Params{
		Base:         base,
		ContextFlags: contextFlags,
		Explainability: recommendation.Explainability{
			InputsUsed:            []string{"awc", "compaction_level", "precipitation_forecast", "equipment_available"},
			ThresholdsCrossed:     thresholdsCrossed,
			ThresholdsApproaching: thresholdsApproaching,
			TrendsConsidered:      []string{"Soil moisture and compaction trends"},
			CropStage:             "PRE-PLANTING",
		},
		KPIs:          kpis,
		PredictedNext: &predictedNext,
		RawInputs:     input.RawInputs,
	}), nil
}
