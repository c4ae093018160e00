// Package scenario provides domain types for what-if outcome projections.
package scenario

import "fmt"

// Outcome is one labeled what-if projection for a domain.
type Outcome struct {
	// Scenario is the human-readable label ("Irrigate Now (Recommended)").
	Scenario string

	// PredictedKPIs maps KPI name to projected value.
	PredictedKPIs map[string]float64

	// RiskScore is the projected risk in [0,1].
	RiskScore float64

	// Confidence is the projection confidence in [0,1].
	Confidence float64
}

// Validate checks the outcome's structural invariants.
func (o *Outcome) Validate() error {
	if o.Scenario == "" {
		return fmt.Errorf("missing scenario label")
	}
	if o.RiskScore < 0 || o.RiskScore > 1 {
		return fmt.Errorf("risk score out of range [0,1]: %f", o.RiskScore)
	}
	if o.Confidence < 0 || o.Confidence > 1 {
		return fmt.Errorf("confidence out of range [0,1]: %f", o.Confidence)
	}
	return nil
}
