package domainengine

import (
	"fmt"

	"fieldsense/pkg/domain/metric"
	"fieldsense/pkg/domain/recommendation"
)

// LogisticsEngine decides dispatch timing from the order backlog and
// fleet availability.
type LogisticsEngine struct {
	svc Services
}

// NewLogisticsEngine creates the logistics engine.
func NewLogisticsEngine(svc Services) *LogisticsEngine {
	return &LogisticsEngine{svc: svc}
}

// Domain returns LOGISTICS.
func (e *LogisticsEngine) Domain() recommendation.Domain {
	return recommendation.Logistics
}

// Generate evaluates the dispatch ladder. Fuel above 4 inflates the
// cost index but never blocks dispatch.
func (e *LogisticsEngine) Generate(input Input) (*recommendation.Recommendation, error) {
	orderBacklog := input.Metrics.Value(metric.OrderBacklog, 0)
	transportAvailable := input.Metrics.Flag(metric.TransportAvailable, true)
	fuelCost := input.Metrics.Value(metric.FuelCost, 3.5)

	costIndex := 100.0
	if fuelCost > 4 {
		costIndex = 120
	}

	var thresholdsCrossed, thresholdsApproaching []string
	var contextFlags []recommendation.ContextFlag
	kpis := map[string]float64{
		"delivery_efficiency":  0,
		"logistics_cost_index": costIndex,
	}

	var base recommendation.Base
	predictedNext := recommendation.Wait

	switch {
	case !transportAvailable:
		contextFlags = append(contextFlags, recommendation.EquipmentConstraint)
		base = recommendation.Wait
		thresholdsCrossed = append(thresholdsCrossed, "Transportation fleet unavailable.")
		predictedNext = recommendation.Soon
	case orderBacklog > 100:
		base = recommendation.Now
		thresholdsCrossed = append(thresholdsCrossed, fmt.Sprintf(
			"High order backlog (%g) requires immediate dispatch.", orderBacklog))
		kpis["delivery_efficiency"] = 95
		predictedNext = recommendation.Wait
	case orderBacklog > 50:
		base = recommendation.Soon
		thresholdsApproaching = append(thresholdsApproaching, "Order backlog accumulating")
		predictedNext = recommendation.Now
	default:
		base = recommendation.Monitor
		thresholdsApproaching = append(thresholdsApproaching, "Monitoring order fulfillment schedule")
	}

	return e.svc.Assembler.Assemble(input.FieldID, e.Domain(), Params{
		Base:         base,
		ContextFlags: contextFlags,
		Explainability: recommendation.Explainability{
			InputsUsed:            []string{"order_backlog", "transport_available", "fuel_cost"},
			ThresholdsCrossed:     thresholdsCrossed,
			ThresholdsApproaching: thresholdsApproaching,
			TrendsConsidered:      []string{"Order arrival rate", "Transportation availability"},
			CropStage:             "DISTRIBUTION",
		},
		KPIs:          kpis,
		PredictedNext: &predictedNext,
		RawInputs:     input.RawInputs,
	}), nil
}
