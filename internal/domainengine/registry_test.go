package domainengine

import (
	"errors"
	"testing"

	"fieldsense/internal/hardening"
	"fieldsense/internal/safetygate"
	"fieldsense/internal/scenario"
	"fieldsense/pkg/clock"
	"fieldsense/pkg/domain/metric"
	"fieldsense/pkg/domain/recommendation"
	fserrors "fieldsense/pkg/errors"
	"fieldsense/pkg/events"
)

func testServices(emitter events.Emitter) Services {
	return Services{
		Assembler: NewAssembler(clock.NewFixed(testNow), emitter),
		Hardening: hardening.NewEngine(emitter),
		Safety:    safetygate.NewEngine(emitter),
		Scenario:  scenario.NewEngine(emitter),
	}
}

func sampleMetrics() metric.Set {
	set := metric.Set{}
	add := func(t metric.Type, value float64) {
		set[t] = metric.NormalizedMetric{
			Type: t, Value: value, Timestamp: testNow, Confidence: 0.9,
		}
	}
	add(metric.SoilMoisture, 22)
	add(metric.SoilTemp, 12)
	add(metric.Precipitation24h, 1)
	add(metric.Evapotranspiration, 3)
	add(metric.NitrogenLevel, 50)
	add(metric.MaturityIndex, 40)
	return set
}

func TestRegistry_AllDomainsRegistered(t *testing.T) {
	r := NewRegistry(testServices(nil), nil)

	domains := r.AvailableDomains()
	if len(domains) != len(recommendation.AllDomains()) {
		t.Fatalf("domains = %v", domains)
	}
	for i, d := range recommendation.AllDomains() {
		if domains[i] != d {
			t.Errorf("domains[%d] = %s, want %s", i, domains[i], d)
		}
	}
}

func TestRegistry_GenerateUnknownDomain(t *testing.T) {
	r := NewRegistry(testServices(nil), nil)

	_, err := r.Generate(recommendation.Domain("VITICULTURE"), Input{FieldID: "field-1"})
	if !errors.Is(err, fserrors.ErrUnknownDomain) {
		t.Errorf("err = %v, want ErrUnknownDomain", err)
	}
}

func TestRegistry_GenerateSingleDomain(t *testing.T) {
	r := NewRegistry(testServices(nil), nil)

	rec, err := r.Generate(recommendation.Harvest, Input{
		FieldID: "field-1",
		Metrics: sampleMetrics(),
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if rec.Domain != recommendation.Harvest {
		t.Errorf("Domain = %s, want HARVEST", rec.Domain)
	}
	if rec.FieldID != "field-1" {
		t.Errorf("FieldID = %s", rec.FieldID)
	}
	if err := rec.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestRegistry_GenerateAllCoversEveryDomain(t *testing.T) {
	emitter := events.NewMemoryEmitter()
	r := NewRegistry(testServices(emitter), emitter)

	results := r.GenerateAll(Input{FieldID: "field-1", Metrics: sampleMetrics()})
	if len(results) != len(recommendation.AllDomains()) {
		t.Fatalf("results = %d domains, want %d", len(results), len(recommendation.AllDomains()))
	}
	for _, d := range recommendation.AllDomains() {
		rec, ok := results[d]
		if !ok {
			t.Errorf("missing domain %s", d)
			continue
		}
		if rec.Domain != d {
			t.Errorf("%s: Domain = %s", d, rec.Domain)
		}
		if err := rec.Validate(); err != nil {
			t.Errorf("%s: Validate: %v", d, err)
		}
	}

	if n := emitter.CountByType(events.DomainBatchCompleted); n != 1 {
		t.Errorf("batch events = %d, want 1", n)
	}
}

// failingEngine simulates a domain engine whose backing data source is
// down.
type failingEngine struct{}

func (failingEngine) Domain() recommendation.Domain {
	return recommendation.Logistics
}

func (failingEngine) Generate(Input) (*recommendation.Recommendation, error) {
	return nil, errors.New("upstream telemetry unavailable")
}

func TestRegistry_GenerateAllIsolatesFailures(t *testing.T) {
	emitter := events.NewMemoryEmitter()
	r := NewRegistry(testServices(emitter), emitter)
	r.Register(failingEngine{})

	results := r.GenerateAll(Input{FieldID: "field-1", Metrics: sampleMetrics()})

	if _, ok := results[recommendation.Logistics]; ok {
		t.Error("failed domain must be omitted from results")
	}
	if len(results) != len(recommendation.AllDomains())-1 {
		t.Errorf("results = %d domains, want %d", len(results), len(recommendation.AllDomains())-1)
	}
	if n := emitter.CountByType(events.DomainEngineUnavailable); n != 1 {
		t.Errorf("unavailability events = %d, want 1", n)
	}
	if n := emitter.CountByType(events.DomainBatchCompleted); n != 1 {
		t.Errorf("batch events = %d, want 1", n)
	}
}
