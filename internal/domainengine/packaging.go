package domainengine

import (
	"fmt"

	"fieldsense/pkg/domain/metric"
	"fieldsense/pkg/domain/recommendation"
)

// PackagingEngine decides packaging runs from processed stock, material
// inventory and labor.
type PackagingEngine struct {
	svc Services
}

// NewPackagingEngine creates the packaging engine.
func NewPackagingEngine(svc Services) *PackagingEngine {
	return &PackagingEngine{svc: svc}
}

// Domain returns PACKAGING.
func (e *PackagingEngine) Domain() recommendation.Domain {
	return recommendation.Packaging
}

// Generate evaluates the packaging ladder.
func (e *PackagingEngine) Generate(input Input) (*recommendation.Recommendation, error) {
	processedStock := input.Metrics.Value(metric.ProcessedStock, 0)
	packagingMaterials := input.Metrics.Value(metric.PackagingMaterials, 100)
	laborAvailable := input.Metrics.Flag(metric.LaborAvailable, true)

	var thresholdsCrossed, thresholdsApproaching []string
	var contextFlags []recommendation.ContextFlag
	kpis := map[string]float64{
		"packaging_efficiency": 0,
		"material_utilization": 0,
	}

	var base recommendation.Base
	predictedNext := recommendation.Wait

	switch {
	case packagingMaterials < 10:
		contextFlags = append(contextFlags, recommendation.MaterialsConstraint)
		base = recommendation.Wait
		thresholdsCrossed = append(thresholdsCrossed, "Packaging materials critically low.")
		predictedNext = recommendation.Soon
	case !laborAvailable:
		contextFlags = append(contextFlags, recommendation.LaborConstraint)
		base = recommendation.Wait
		thresholdsCrossed = append(thresholdsCrossed, "Packaging labor unavailable.")
	case processedStock > 50:
		base = recommendation.Now
		thresholdsCrossed = append(thresholdsCrossed, fmt.Sprintf(
			"Processed stock (%g) ready for packaging.", processedStock))
		kpis["packaging_efficiency"] = 100
		kpis["material_utilization"] = 95
		predictedNext = recommendation.Wait
	case processedStock > 20:
		base = recommendation.Soon
		thresholdsApproaching = append(thresholdsApproaching, "Processed stock accumulating for packaging")
		predictedNext = recommendation.Now
	default:
		base = recommendation.Monitor
	}

	return e.svc.Assembler.Assemble(input.FieldID, e.Domain(), Params{
		Base:         base,
		ContextFlags: contextFlags,
		Explainability: recommendation.Explainability{
			InputsUsed:            []string{"processed_stock", "packaging_materials", "labor_available"},
			ThresholdsCrossed:     thresholdsCrossed,
			ThresholdsApproaching: thresholdsApproaching,
			TrendsConsidered:      []string{"Processing output rate", "Packaging material inventory"},
			CropStage:             "POST-HARVEST",
		},
		KPIs:          kpis,
		PredictedNext: &predictedNext,
		RawInputs:     input.RawInputs,
	}), nil
}
