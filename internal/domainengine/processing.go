package domainengine

import (
	"fmt"

	"fieldsense/pkg/domain/metric"
	"fieldsense/pkg/domain/recommendation"
)

// ProcessingEngine decides processing line scheduling from incoming
// volume against capacity.
type ProcessingEngine struct {
	svc Services
}

// NewProcessingEngine creates the processing engine.
func NewProcessingEngine(svc Services) *ProcessingEngine {
	return &ProcessingEngine{svc: svc}
}

// Domain returns PROCESSING.
func (e *ProcessingEngine) Domain() recommendation.Domain {
	return recommendation.Processing
}

// Generate evaluates line readiness and volume fit.
func (e *ProcessingEngine) Generate(input Input) (*recommendation.Recommendation, error) {
	incomingVolume := input.Metrics.Value(metric.IncomingVolume, 0)
	processingCapacity := input.Metrics.Value(metric.ProcessingCapacity, 100)
	equipmentOK := input.Metrics.Flag(metric.EquipmentStatus, true)

	var thresholdsCrossed, thresholdsApproaching []string
	var contextFlags []recommendation.ContextFlag
	kpis := map[string]float64{
		"processing_efficiency": 0,
		"throughput_rate":       0,
	}

	var base recommendation.Base
	predictedNext := recommendation.Wait

	switch {
	case !equipmentOK:
		contextFlags = append(contextFlags, recommendation.EquipmentConstraint)
		base = recommendation.Wait
		thresholdsCrossed = append(thresholdsCrossed, "Processing line equipment maintenance required.")
	case incomingVolume > processingCapacity:
		contextFlags = append(contextFlags, recommendation.CapacityConstraint)
		base = recommendation.Wait
		thresholdsCrossed = append(thresholdsCrossed, fmt.Sprintf(
			"Incoming volume (%g) exceeds processing capacity (%g).", incomingVolume, processingCapacity))
		kpis["throughput_rate"] = processingCapacity
	case incomingVolume > 0:
		base = recommendation.Now
		thresholdsCrossed = append(thresholdsCrossed, fmt.Sprintf(
			"Processing line ready for incoming volume (%g).", incomingVolume))
		kpis["processing_efficiency"] = 100
		kpis["throughput_rate"] = incomingVolume
		predictedNext = recommendation.Wait
	default:
		base = recommendation.Monitor
		thresholdsApproaching = append(thresholdsApproaching, "Awaiting incoming harvest volume")
	}

	return e.svc.Assembler.Assemble(input.FieldID, e.Domain(), Params{
		Base:         base,
		ContextFlags: contextFlags,
		Explainability: recommendation.Explainability{
			InputsUsed:            []string{"incoming_volume", "processing_capacity", "equipment_status"},
			ThresholdsCrossed:     thresholdsCrossed,
			ThresholdsApproaching: thresholdsApproaching,
			TrendsConsidered:      []string{"Harvest arrival schedule", "Processing line uptime"},
			CropStage:             "POST-HARVEST",
		},
		KPIs:          kpis,
		PredictedNext: &predictedNext,
		RawInputs:     input.RawInputs,
	}), nil
}
