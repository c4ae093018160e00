package scenario

import (
	"testing"

	"fieldsense/pkg/domain/recommendation"
	"fieldsense/pkg/events"
)

func TestWhatIf_IrrigationTable(t *testing.T) {
	engine := NewEngine(nil)

	outcomes := engine.WhatIf(recommendation.Irrigation, nil)
	if len(outcomes) != 3 {
		t.Fatalf("outcomes = %d, want 3", len(outcomes))
	}

	want := []struct {
		scenario    string
		efficiency  float64
		yieldImpact float64
		risk        float64
		confidence  float64
	}{
		{"Irrigate Now (Recommended)", 92, 0, 0.05, 0.95},
		{"Delay 24 Hours", 98, -5, 0.3, 0.8},
		{"No Irrigation", 100, -25, 0.9, 0.99},
	}
	for i, w := range want {
		got := outcomes[i]
		if got.Scenario != w.scenario {
			t.Errorf("[%d] Scenario = %q, want %q", i, got.Scenario, w.scenario)
		}
		if got.PredictedKPIs["water_efficiency"] != w.efficiency {
			t.Errorf("[%d] water_efficiency = %f, want %f", i, got.PredictedKPIs["water_efficiency"], w.efficiency)
		}
		if got.PredictedKPIs["yield_impact"] != w.yieldImpact {
			t.Errorf("[%d] yield_impact = %f, want %f", i, got.PredictedKPIs["yield_impact"], w.yieldImpact)
		}
		if got.RiskScore != w.risk {
			t.Errorf("[%d] RiskScore = %f, want %f", i, got.RiskScore, w.risk)
		}
		if got.Confidence != w.confidence {
			t.Errorf("[%d] Confidence = %f, want %f", i, got.Confidence, w.confidence)
		}
		if err := got.Validate(); err != nil {
			t.Errorf("[%d] Validate: %v", i, err)
		}
	}
}

func TestWhatIf_UnknownDomainIsNil(t *testing.T) {
	engine := NewEngine(nil)

	for _, domain := range []recommendation.Domain{
		recommendation.Planning, recommendation.Harvest, recommendation.Packaging,
	} {
		if outcomes := engine.WhatIf(domain, nil); outcomes != nil {
			t.Errorf("%s: outcomes = %v, want nil", domain, outcomes)
		}
	}
}

func TestWhatIf_Deterministic(t *testing.T) {
	engine := NewEngine(nil)

	first := engine.WhatIf(recommendation.Irrigation, nil)
	second := engine.WhatIf(recommendation.Irrigation, nil)
	for i := range first {
		if first[i].Scenario != second[i].Scenario || first[i].RiskScore != second[i].RiskScore {
			t.Fatalf("outcome %d differs across calls", i)
		}
	}
}

func TestWhatIf_EmitsCompletionEvent(t *testing.T) {
	emitter := events.NewMemoryEmitter()
	engine := NewEngine(emitter)

	engine.WhatIf(recommendation.Irrigation, nil)
	if n := emitter.CountByType(events.ScenarioAnalysisCompleted); n != 1 {
		t.Errorf("completion events = %d, want 1", n)
	}

	engine.WhatIf(recommendation.Harvest, nil)
	if n := emitter.CountByType(events.ScenarioAnalysisCompleted); n != 1 {
		t.Errorf("empty analysis should not emit, events = %d", n)
	}
}

func TestModelOutcome_IrrigationEntries(t *testing.T) {
	engine := NewEngine(nil)

	now := engine.ModelOutcome(recommendation.Irrigation, recommendation.Now, nil)
	if now.PredictedKPIs["water_efficiency"] != 95 || now.PredictedKPIs["yield_potential"] != 100 {
		t.Errorf("NOW KPIs = %v", now.PredictedKPIs)
	}
	if now.RiskScore != 0.1 || now.Confidence != 0.9 {
		t.Errorf("NOW risk/confidence = %f/%f", now.RiskScore, now.Confidence)
	}

	wait := engine.ModelOutcome(recommendation.Irrigation, recommendation.Wait, nil)
	if wait.PredictedKPIs["water_efficiency"] != 100 || wait.PredictedKPIs["yield_potential"] != 85 {
		t.Errorf("WAIT KPIs = %v", wait.PredictedKPIs)
	}
	if wait.RiskScore != 0.4 || wait.Confidence != 0.85 {
		t.Errorf("WAIT risk/confidence = %f/%f", wait.RiskScore, wait.Confidence)
	}
}

func TestModelOutcome_DefaultFallback(t *testing.T) {
	engine := NewEngine(nil)

	got := engine.ModelOutcome(recommendation.Harvest, recommendation.Soon, nil)
	if got.RiskScore != 0.5 || got.Confidence != 0.5 {
		t.Errorf("default risk/confidence = %f/%f, want 0.5/0.5", got.RiskScore, got.Confidence)
	}
	if len(got.PredictedKPIs) != 0 {
		t.Errorf("default KPIs = %v, want empty", got.PredictedKPIs)
	}

	// A base without a table entry falls through even for irrigation.
	got = engine.ModelOutcome(recommendation.Irrigation, recommendation.Later, nil)
	if got.RiskScore != 0.5 || got.Confidence != 0.5 {
		t.Errorf("irrigation LATER risk/confidence = %f/%f, want 0.5/0.5", got.RiskScore, got.Confidence)
	}
}
