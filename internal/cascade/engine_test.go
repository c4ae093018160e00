package cascade

import (
	"strings"
	"testing"
	"time"

	"fieldsense/pkg/clock"
	"fieldsense/pkg/domain/irrigation"
	"fieldsense/pkg/domain/metric"
	"fieldsense/pkg/events"
)

var testNow = time.Date(2026, 4, 12, 6, 0, 0, 0, time.UTC)

func newTestEngine() *Engine {
	return NewEngine(clock.NewFixed(testNow), nil)
}

func m(t metric.Type, value, confidence float64) *metric.NormalizedMetric {
	return &metric.NormalizedMetric{
		Type:       t,
		Value:      value,
		Unit:       "%",
		Timestamp:  testNow,
		Confidence: confidence,
	}
}

// fullInput returns a complete, high-confidence input that reaches the
// moisture rules. Moisture 20% sits between the default irrigation
// threshold (17.4%) and hold threshold (21%).
func fullInput() *irrigation.DecisionInput {
	return &irrigation.DecisionInput{
		FieldID:            "field-1",
		SoilMoisture:       m(metric.SoilMoisture, 20, 0.9),
		SoilTemperature:    m(metric.SoilTemperature, 15, 0.9),
		Precipitation:      m(metric.Precipitation24h, 2, 0.9),
		Evapotranspiration: m(metric.Evapotranspiration, 3, 0.9),
	}
}

func TestAssessResolution_AllPresent(t *testing.T) {
	engine := newTestEngine()

	a := engine.AssessResolution(fullInput())
	if len(a.DataQualityIssues) != 0 {
		t.Fatalf("issues = %v, want none", a.DataQualityIssues)
	}

	want := 0.9*0.5 + 0.9*0.2 + 0.9*0.3
	if diff := a.OverallConfidence - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("OverallConfidence = %f, want %f", a.OverallConfidence, want)
	}
	if !a.IsSafeForActuation {
		t.Error("should be safe for actuation")
	}
}

func TestAssessResolution_MissingMetrics(t *testing.T) {
	engine := newTestEngine()

	a := engine.AssessResolution(&irrigation.DecisionInput{FieldID: "field-1"})

	wantIssues := []string{
		"No soil moisture data available",
		"No soil temperature data available",
		"No precipitation data available",
	}
	if len(a.DataQualityIssues) != len(wantIssues) {
		t.Fatalf("issues = %v, want %v", a.DataQualityIssues, wantIssues)
	}
	for i, w := range wantIssues {
		if a.DataQualityIssues[i] != w {
			t.Errorf("issue[%d] = %q, want %q", i, a.DataQualityIssues[i], w)
		}
	}
	if a.OverallConfidence != 0 {
		t.Errorf("OverallConfidence = %f, want 0", a.OverallConfidence)
	}
	if a.IsSafeForActuation {
		t.Error("missing data must not be safe for actuation")
	}
}

func TestAssessResolution_LowConfidenceIssues(t *testing.T) {
	engine := newTestEngine()

	in := fullInput()
	in.SoilMoisture = m(metric.SoilMoisture, 20, 0.3)

	a := engine.AssessResolution(in)
	if len(a.DataQualityIssues) != 1 || a.DataQualityIssues[0] != "Low soil moisture confidence" {
		t.Errorf("issues = %v", a.DataQualityIssues)
	}
	if a.IsSafeForActuation {
		t.Error("low confidence must not be safe for actuation")
	}
}

func TestAssessResolution_ZeroConfidenceDefaultsTo07(t *testing.T) {
	engine := newTestEngine()

	in := fullInput()
	in.SoilMoisture.Confidence = 0

	a := engine.AssessResolution(in)
	if a.SoilMoistureConfidence != 0.7 {
		t.Errorf("SoilMoistureConfidence = %f, want default 0.7", a.SoilMoistureConfidence)
	}
	if len(a.DataQualityIssues) != 0 {
		t.Errorf("issues = %v, want none", a.DataQualityIssues)
	}
}

func TestDecide_InsufficientData(t *testing.T) {
	engine := newTestEngine()

	got := engine.Decide(&irrigation.DecisionInput{FieldID: "field-1"})
	if got.Recommendation != irrigation.Hold {
		t.Errorf("Recommendation = %s, want HOLD", got.Recommendation)
	}
	if got.Confidence != 0.3 {
		t.Errorf("Confidence = %f, want 0.3", got.Confidence)
	}
	if !strings.Contains(got.Reasoning, "Insufficient data quality") {
		t.Errorf("Reasoning = %q", got.Reasoning)
	}
	if !got.RuleTriggered("insufficientData") {
		t.Error("insufficientData rule should be recorded as triggered")
	}
	if len(got.RuleEvaluations) != 1 {
		t.Errorf("RuleEvaluations = %v, want only the first rule", got.RuleEvaluations)
	}
}

func TestDecide_RecentPrecipitationDelays(t *testing.T) {
	engine := newTestEngine()

	in := fullInput()
	in.Precipitation = m(metric.Precipitation24h, 15, 0.9)

	got := engine.Decide(in)
	if got.Recommendation != irrigation.Delay {
		t.Errorf("Recommendation = %s, want DELAY", got.Recommendation)
	}
	if got.Confidence != 0.85 {
		t.Errorf("Confidence = %f, want 0.85", got.Confidence)
	}
	if !strings.Contains(got.Reasoning, "Recent precipitation of 15mm") {
		t.Errorf("Reasoning = %q", got.Reasoning)
	}
	if got.RecommendedDurationMinutes != 0 || got.RecommendedFlowRatePercent != 0 {
		t.Error("delay should carry no duration or flow rate")
	}
}

func TestDecide_CriticallyLowMoisture(t *testing.T) {
	engine := newTestEngine()

	in := fullInput()
	in.SoilMoisture = m(metric.SoilMoisture, 11, 0.9)

	got := engine.Decide(in)
	if got.Recommendation != irrigation.Irrigate {
		t.Errorf("Recommendation = %s, want IRRIGATE", got.Recommendation)
	}
	if got.Confidence != 0.95 {
		t.Errorf("Confidence = %f, want 0.95", got.Confidence)
	}
	if got.RecommendedDurationMinutes != 120 {
		t.Errorf("duration = %d, want 120", got.RecommendedDurationMinutes)
	}
	if got.RecommendedFlowRatePercent != 100 {
		t.Errorf("flow rate = %d, want 100", got.RecommendedFlowRatePercent)
	}
	if !strings.Contains(got.Reasoning, "wilting point") {
		t.Errorf("Reasoning = %q", got.Reasoning)
	}
}

func TestDecide_BelowThresholdHighET(t *testing.T) {
	engine := newTestEngine()

	in := fullInput()
	in.SoilMoisture = m(metric.SoilMoisture, 16, 0.9)
	in.Evapotranspiration = m(metric.Evapotranspiration, 6.5, 0.9)

	got := engine.Decide(in)
	if got.Recommendation != irrigation.Irrigate {
		t.Errorf("Recommendation = %s, want IRRIGATE", got.Recommendation)
	}
	if got.Confidence != 0.80 {
		t.Errorf("Confidence = %f, want 0.80", got.Confidence)
	}
	// round(6.5*10) = 65, within [60, 180].
	if got.RecommendedDurationMinutes != 65 {
		t.Errorf("duration = %d, want 65", got.RecommendedDurationMinutes)
	}
	if got.RecommendedFlowRatePercent != 80 {
		t.Errorf("flow rate = %d, want 80", got.RecommendedFlowRatePercent)
	}
	if !got.RuleTriggered("belowThreshold") || !got.RuleTriggered("highETDemand") {
		t.Errorf("RuleEvaluations = %v", got.RuleEvaluations)
	}
}

func TestDecide_DurationClamping(t *testing.T) {
	engine := newTestEngine()

	// ET 25mm would give 250 minutes; clamps to 180.
	in := fullInput()
	in.SoilMoisture = m(metric.SoilMoisture, 16, 0.9)
	in.Evapotranspiration = m(metric.Evapotranspiration, 25, 0.9)
	if got := engine.Decide(in); got.RecommendedDurationMinutes != 180 {
		t.Errorf("duration = %d, want clamp to 180", got.RecommendedDurationMinutes)
	}

	// ET 4.5mm would give 45 minutes; clamps to 60.
	in = fullInput()
	in.SoilMoisture = m(metric.SoilMoisture, 16, 0.9)
	in.Evapotranspiration = m(metric.Evapotranspiration, 4.5, 0.9)
	if got := engine.Decide(in); got.RecommendedDurationMinutes != 60 {
		t.Errorf("duration = %d, want clamp to 60", got.RecommendedDurationMinutes)
	}
}

func TestDecide_BelowThresholdLowETDelays(t *testing.T) {
	engine := newTestEngine()

	in := fullInput()
	in.SoilMoisture = m(metric.SoilMoisture, 16, 0.9)
	in.Evapotranspiration = m(metric.Evapotranspiration, 3, 0.9)

	got := engine.Decide(in)
	if got.Recommendation != irrigation.Delay {
		t.Errorf("Recommendation = %s, want DELAY", got.Recommendation)
	}
	if got.Confidence != 0.70 {
		t.Errorf("Confidence = %f, want 0.70", got.Confidence)
	}
	if got.RuleTriggered("highETDemand") {
		t.Error("highETDemand should be recorded as not triggered")
	}
	// The nested rule still appears in the evaluation record.
	found := false
	for _, e := range got.RuleEvaluations {
		if e.Rule == "highETDemand" {
			found = true
		}
	}
	if !found {
		t.Errorf("highETDemand missing from %v", got.RuleEvaluations)
	}
}

func TestDecide_AboveHoldThreshold(t *testing.T) {
	engine := newTestEngine()

	in := fullInput()
	in.SoilMoisture = m(metric.SoilMoisture, 28, 0.9)

	got := engine.Decide(in)
	if got.Recommendation != irrigation.Hold {
		t.Errorf("Recommendation = %s, want HOLD", got.Recommendation)
	}
	if got.Confidence != 0.85 {
		t.Errorf("Confidence = %f, want 0.85", got.Confidence)
	}
	if !strings.Contains(got.Reasoning, "adequate water") {
		t.Errorf("Reasoning = %q", got.Reasoning)
	}
}

func TestDecide_TemperatureTooLow(t *testing.T) {
	engine := newTestEngine()

	// Moisture 20% falls between the thresholds, so the ladder reaches
	// the temperature rule.
	in := fullInput()
	in.SoilTemperature = m(metric.SoilTemperature, 6, 0.9)

	got := engine.Decide(in)
	if got.Recommendation != irrigation.Hold {
		t.Errorf("Recommendation = %s, want HOLD", got.Recommendation)
	}
	if got.Confidence != 0.75 {
		t.Errorf("Confidence = %f, want 0.75", got.Confidence)
	}
	if !strings.Contains(got.Reasoning, "temperature") {
		t.Errorf("Reasoning should mention temperature: %q", got.Reasoning)
	}
}

func TestDecide_DefaultHold(t *testing.T) {
	engine := newTestEngine()

	got := engine.Decide(fullInput())
	if got.Recommendation != irrigation.Hold {
		t.Errorf("Recommendation = %s, want HOLD", got.Recommendation)
	}
	if got.Confidence != 0.50 {
		t.Errorf("Confidence = %f, want 0.50", got.Confidence)
	}

	wantOrder := []string{
		"insufficientData", "recentPrecipitation", "criticallyLow",
		"belowThreshold", "aboveThreshold", "temperatureTooLow",
	}
	if len(got.RuleEvaluations) != len(wantOrder) {
		t.Fatalf("RuleEvaluations = %v", got.RuleEvaluations)
	}
	for i, w := range wantOrder {
		if got.RuleEvaluations[i].Rule != w {
			t.Errorf("rule[%d] = %s, want %s", i, got.RuleEvaluations[i].Rule, w)
		}
		if got.RuleEvaluations[i].Triggered {
			t.Errorf("rule %s should not have triggered", w)
		}
	}
}

func TestDecide_Deterministic(t *testing.T) {
	engine := newTestEngine()

	first := engine.Decide(fullInput())
	second := engine.Decide(fullInput())
	if first.Recommendation != second.Recommendation ||
		first.Confidence != second.Confidence ||
		first.Reasoning != second.Reasoning {
		t.Error("same input must produce the same decision")
	}
}

func TestDecide_CustomSoilProfile(t *testing.T) {
	engine := newTestEngine()

	// Sandy soil: fc 20, wp 8, irrigation threshold 11.6, hold 14.
	in := fullInput()
	in.Soil = &irrigation.SoilProfile{FieldCapacityPercent: 20, WiltingPointPercent: 8}
	in.SoilMoisture = m(metric.SoilMoisture, 16, 0.9)

	got := engine.Decide(in)
	if got.Recommendation != irrigation.Hold {
		t.Errorf("16%% on sandy soil should HOLD, got %s", got.Recommendation)
	}
	if !got.RuleTriggered("aboveThreshold") {
		t.Errorf("RuleEvaluations = %v", got.RuleEvaluations)
	}
}

func TestValidateControlAction_NonOperationalEquipment(t *testing.T) {
	engine := newTestEngine()

	result := engine.Decide(fullInput())
	v := engine.ValidateControlAction(&result, "maintenance", nil)
	if v.IsValid {
		t.Fatal("maintenance equipment must fail validation")
	}

	found := false
	for _, e := range v.Errors {
		if e == "Equipment status is maintenance, not operational" {
			found = true
		}
	}
	if !found {
		t.Errorf("Errors = %v", v.Errors)
	}
}

func TestValidateControlAction_ResolutionGate(t *testing.T) {
	engine := newTestEngine()

	result := engine.Decide(&irrigation.DecisionInput{FieldID: "field-1"})
	v := engine.ValidateControlAction(&result, "operational", nil)
	if v.IsValid {
		t.Fatal("unsafe resolution must fail validation")
	}

	found := false
	for _, e := range v.Errors {
		if e == "Data resolution insufficient for safe actuation" {
			found = true
		}
	}
	if !found {
		t.Errorf("Errors = %v", v.Errors)
	}
}

func TestValidateControlAction_LowConfidenceWarns(t *testing.T) {
	engine := newTestEngine()

	// Default HOLD carries confidence 0.50: valid, but warned.
	result := engine.Decide(fullInput())
	v := engine.ValidateControlAction(&result, "operational", nil)
	if !v.IsValid {
		t.Fatalf("Errors = %v, want valid", v.Errors)
	}
	if len(v.Warnings) != 1 || !strings.Contains(v.Warnings[0], "Low confidence recommendation") {
		t.Errorf("Warnings = %v", v.Warnings)
	}
}

func TestValidateControlAction_RecentActionWarning(t *testing.T) {
	engine := newTestEngine()

	in := fullInput()
	in.SoilMoisture = m(metric.SoilMoisture, 11, 0.9)
	result := engine.Decide(in)

	recent := []irrigation.RecentAction{
		{Status: irrigation.ActionCompleted, Timestamp: testNow.Add(-2 * time.Minute)},
	}
	v := engine.ValidateControlAction(&result, "operational", recent)
	if !v.IsValid {
		t.Fatalf("Errors = %v, want valid", v.Errors)
	}
	if len(v.Warnings) != 1 || v.Warnings[0] != "Recent irrigation action detected; verify before repeating" {
		t.Errorf("Warnings = %v", v.Warnings)
	}

	// Outside the five minute window, no warning.
	old := []irrigation.RecentAction{
		{Status: irrigation.ActionCompleted, Timestamp: testNow.Add(-10 * time.Minute)},
	}
	if v := engine.ValidateControlAction(&result, "operational", old); len(v.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", v.Warnings)
	}

	// A recent FAILED action does not warn.
	failed := []irrigation.RecentAction{
		{Status: irrigation.ActionFailed, Timestamp: testNow.Add(-1 * time.Minute)},
	}
	if v := engine.ValidateControlAction(&result, "operational", failed); len(v.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", v.Warnings)
	}
}

func TestDecide_EmitsEvents(t *testing.T) {
	emitter := events.NewMemoryEmitter()
	engine := NewEngine(clock.NewFixed(testNow), emitter)

	engine.Decide(fullInput())
	if n := emitter.CountByType(events.CascadeDecisionMade); n != 1 {
		t.Errorf("decision events = %d, want 1", n)
	}

	engine.Decide(&irrigation.DecisionInput{FieldID: "field-1"})
	if n := emitter.CountByType(events.CascadeInsufficientData); n != 1 {
		t.Errorf("insufficient-data events = %d, want 1", n)
	}
}
