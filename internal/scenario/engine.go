// Package scenario models deterministic what-if projections for domain
// recommendations.
//
// Projections are fixed lookup tables, not simulations: the same domain
// and base level always yield the same outcome. Only irrigation carries
// a populated table today; other domains fall through to a neutral
// default.
package scenario

import (
	"fmt"

	"fieldsense/pkg/domain/metric"
	"fieldsense/pkg/domain/recommendation"
	"fieldsense/pkg/domain/scenario"
	"fieldsense/pkg/events"
)

// Engine produces scenario outcomes.
type Engine struct {
	emitter events.Emitter
}

// NewEngine creates a scenario engine. A nil emitter disables events.
func NewEngine(emitter events.Emitter) *Engine {
	if emitter == nil {
		emitter = events.NoopEmitter{}
	}
	return &Engine{emitter: emitter}
}

// ModelOutcome projects the outcome of acting on a base recommendation.
// Unknown domain/base combinations get the neutral default outcome with
// risk and confidence both 0.5.
func (e *Engine) ModelOutcome(domain recommendation.Domain, base recommendation.Base, _ metric.Set) scenario.Outcome {
	if domain == recommendation.Irrigation {
		switch base {
		case recommendation.Now:
			return scenario.Outcome{
				Scenario:      fmt.Sprintf("Modeled outcome for %s", base),
				PredictedKPIs: map[string]float64{"water_efficiency": 95, "yield_potential": 100},
				RiskScore:     0.1,
				Confidence:    0.9,
			}
		case recommendation.Wait:
			return scenario.Outcome{
				Scenario:      fmt.Sprintf("Modeled outcome for %s", base),
				PredictedKPIs: map[string]float64{"water_efficiency": 100, "yield_potential": 85},
				RiskScore:     0.4,
				Confidence:    0.85,
			}
		}
	}

	return scenario.Outcome{
		Scenario:      fmt.Sprintf("Default outcome for %s", base),
		PredictedKPIs: map[string]float64{},
		RiskScore:     0.5,
		Confidence:    0.5,
	}
}

// WhatIf enumerates the alternative courses of action for a domain.
// Returns nil for domains without a scenario table.
func (e *Engine) WhatIf(domain recommendation.Domain, _ metric.Set) []scenario.Outcome {
	if domain != recommendation.Irrigation {
		return nil
	}

	outcomes := []scenario.Outcome{
		{
			Scenario:      "Irrigate Now (Recommended)",
			PredictedKPIs: map[string]float64{"water_efficiency": 92, "yield_impact": 0},
			RiskScore:     0.05,
			Confidence:    0.95,
		},
		{
			Scenario:      "Delay 24 Hours",
			PredictedKPIs: map[string]float64{"water_efficiency": 98, "yield_impact": -5},
			RiskScore:     0.3,
			Confidence:    0.8,
		},
		{
			Scenario:      "No Irrigation",
			PredictedKPIs: map[string]float64{"water_efficiency": 100, "yield_impact": -25},
			RiskScore:     0.9,
			Confidence:    0.99,
		},
	}

	e.emitter.Emit(events.Event{
		Type:   events.ScenarioAnalysisCompleted,
		Domain: string(domain),
		Metadata: map[string]string{
			"scenarios": fmt.Sprintf("%d", len(outcomes)),
		},
	})

	return outcomes
}
