package domainengine

import (
	"fmt"

	"fieldsense/pkg/domain/metric"
	"fieldsense/pkg/domain/recommendation"
)

// PlanningEngine decides seasonal planning readiness. One of the two
// deep engines: it hardens its inputs and records a reasoning chain.
type PlanningEngine struct {
	svc Services
}

// NewPlanningEngine creates the planning engine.
func NewPlanningEngine(svc Services) *PlanningEngine {
	return &PlanningEngine{svc: svc}
}

// Domain returns PLANNING.
func (e *PlanningEngine) Domain() recommendation.Domain {
	return recommendation.Planning
}

// Generate evaluates planning readiness. All three pillars ready means
// act now; missing labor is a hard constraint; anything else is
// monitored.
func (e *PlanningEngine) Generate(input Input) (*recommendation.Recommendation, error) {
	hardened := e.svc.Hardening.Harden(input.Metrics)

	marketDataReady := hardenedValue(hardened, metric.MarketDataReady, 0) == 1
	budgetApproved := hardenedValue(hardened, metric.BudgetApproved, 0) == 1
	laborAvailable := hardenedValue(hardened, metric.LaborAvailable, 1) == 1

	reasoningChain := []recommendation.ReasoningStep{{
		Step:        "Readiness Assessment",
		Observation: fmt.Sprintf("Market Data: %t, Budget: %t, Labor: %t", marketDataReady, budgetApproved, laborAvailable),
		Implication: "Evaluating operational foundation for the upcoming season.",
		Confidence:  1.0,
	}}

	base := recommendation.Monitor
	var thresholdsCrossed []string
	var contextFlags []recommendation.ContextFlag

	switch {
	case marketDataReady && budgetApproved && laborAvailable:
		base = recommendation.Now
		thresholdsCrossed = append(thresholdsCrossed, "All foundational planning pillars are satisfied.")
		reasoningChain = append(reasoningChain, recommendation.ReasoningStep{
			Step:        "Strategic Decision",
			Observation: "Foundational requirements met.",
			Implication: "Proceed to finalize operational plan and initiate procurement.",
			Confidence:  1.0,
		})
	case !laborAvailable:
		base = recommendation.Wait
		contextFlags = append(contextFlags, recommendation.LaborConstraint)
		thresholdsCrossed = append(thresholdsCrossed, "Labor availability constraint detected.")
		reasoningChain = append(reasoningChain, recommendation.ReasoningStep{
			Step:        "Constraint Analysis",
			Observation: "Labor shortage identified.",
			Implication: "Operational plan cannot be finalized without confirmed labor capacity.",
			Confidence:  0.95,
		})
	default:
		reasoningChain = append(reasoningChain, recommendation.ReasoningStep{
			Step:        "Strategic Decision",
			Observation: "Awaiting market or budget finalization.",
			Implication: "Continue monitoring external factors before committing to operational plan.",
			Confidence:  0.9,
		})
	}

	explainability := recommendation.Explainability{
		InputsUsed:        hardenedInputs(hardened),
		ThresholdsCrossed: thresholdsCrossed,
		TrendsConsidered:  []string{"Market volatility", "Labor market trends"},
		CropStage:         "PRE-SEASON",

		ReasoningChain:     reasoningChain,
		HardenedMetrics:    hardened,
		DataIntegrityScore: 1.0,
	}

	return e.svc.Assembler.Assemble(input.FieldID, e.Domain(), Params{
		Base:           base,
		ContextFlags:   contextFlags,
		Explainability: explainability,
		KPIs:           map[string]float64{"operational_readiness": 85},
		Confidence:     1.0,
		RawInputs:      input.RawInputs,
	}), nil
}
