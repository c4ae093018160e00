package domainengine

import (
	"fmt"

	"fieldsense/pkg/domain/metric"
	"fieldsense/pkg/domain/recommendation"
)

// WarehousingEngine watches storage environment and capacity. Potato
// storage holds 2-8°C and 85-95% humidity; excursions demand immediate
// correction.
type WarehousingEngine struct {
	svc Services
}

// NewWarehousingEngine creates the warehousing engine.
func NewWarehousingEngine(svc Services) *WarehousingEngine {
	return &WarehousingEngine{svc: svc}
}

// Domain returns WAREHOUSING.
func (e *WarehousingEngine) Domain() recommendation.Domain {
	return recommendation.Warehousing
}

// Generate evaluates storage conditions in order of quality impact.
func (e *WarehousingEngine) Generate(input Input) (*recommendation.Recommendation, error) {
	storageTemp := input.Metrics.Value(metric.StorageTemp, 4)
	storageHumidity := input.Metrics.Value(metric.StorageHumidity, 90)
	capacityUsed := input.Metrics.Value(metric.CapacityUsed, 0)

	var thresholdsCrossed, thresholdsApproaching []string
	var contextFlags []recommendation.ContextFlag
	kpis := map[string]float64{
		"storage_quality_index": 100,
		"capacity_utilization":  capacityUsed,
	}

	var base recommendation.Base
	predictedNext := recommendation.Wait

	switch {
	case storageTemp > 8 || storageTemp < 2:
		base = recommendation.Now
		thresholdsCrossed = append(thresholdsCrossed, fmt.Sprintf(
			"Storage temperature (%g°C) out of optimal range (2-8°C).", storageTemp))
		kpis["storage_quality_index"] = 60
		predictedNext = recommendation.Monitor
	case storageHumidity < 85:
		base = recommendation.Now
		thresholdsCrossed = append(thresholdsCrossed, fmt.Sprintf(
			"Storage humidity (%g%%) below optimal 85-95%% range.", storageHumidity))
		kpis["storage_quality_index"] = 80
		predictedNext = recommendation.Monitor
	case capacityUsed > 95:
		contextFlags = append(contextFlags, recommendation.CapacityConstraint)
		base = recommendation.Wait
		thresholdsCrossed = append(thresholdsCrossed, fmt.Sprintf(
			"Warehouse capacity (%g%%) nearly full.", capacityUsed))
		predictedNext = recommendation.Soon
	default:
		base = recommendation.Monitor
		thresholdsApproaching = append(thresholdsApproaching, "Monitoring storage environmental conditions")
	}

	return e.svc.Assembler.Assemble(input.FieldID, e.Domain(), Params{
		Base:         base,
		ContextFlags: contextFlags,
		Explainability: recommendation.Explainability{
			InputsUsed:            []string{"storage_temp", "storage_humidity", "capacity_used"},
			ThresholdsCrossed:     thresholdsCrossed,
			ThresholdsApproaching: thresholdsApproaching,
			TrendsConsidered:      []string{"Environmental stability", "Inventory turnover"},
			CropStage:             "STORAGE",
		},
		KPIs:          kpis,
		PredictedNext: &predictedNext,
		RawInputs:     input.RawInputs,
	}), nil
}
