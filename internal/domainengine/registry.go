package domainengine

import (
	"fmt"
	"sync"

	"fieldsense/pkg/domain/recommendation"
	fserrors "fieldsense/pkg/errors"
	"fieldsense/pkg/events"
)

// Registry holds the engine for each operational domain.
type Registry struct {
	engines map[recommendation.Domain]Engine
	emitter events.Emitter
}

// NewRegistry creates a registry with all eleven domain engines
// registered against the shared services.
func NewRegistry(svc Services, emitter events.Emitter) *Registry {
	if emitter == nil {
		emitter = events.NoopEmitter{}
	}
	r := &Registry{
		engines: make(map[recommendation.Domain]Engine),
		emitter: emitter,
	}
	r.Register(NewPlanningEngine(svc))
	r.Register(NewFieldPrepEngine(svc))
	r.Register(NewPlantingEngine(svc))
	r.Register(NewIrrigationEngine(svc))
	r.Register(NewNutrientEngine(svc))
	r.Register(NewPestWeedEngine(svc))
	r.Register(NewHarvestEngine(svc))
	r.Register(NewProcessingEngine(svc))
	r.Register(NewPackagingEngine(svc))
	r.Register(NewWarehousingEngine(svc))
	r.Register(NewLogisticsEngine(svc))
	return r
}

// Register adds or replaces the engine for its domain.
func (r *Registry) Register(e Engine) {
	r.engines[e.Domain()] = e
}

// Engine returns the engine for a domain, if registered.
func (r *Registry) Engine(domain recommendation.Domain) (Engine, bool) {
	e, ok := r.engines[domain]
	return e, ok
}

// AvailableDomains lists registered domains in pipeline order.
func (r *Registry) AvailableDomains() []recommendation.Domain {
	var out []recommendation.Domain
	for _, d := range recommendation.AllDomains() {
		if _, ok := r.engines[d]; ok {
			out = append(out, d)
		}
	}
	return out
}

// Generate runs one domain's engine over the snapshot.
func (r *Registry) Generate(domain recommendation.Domain, input Input) (*recommendation.Recommendation, error) {
	e, ok := r.engines[domain]
	if !ok {
		return nil, fmt.Errorf("%w: %s", fserrors.ErrUnknownDomain, domain)
	}
	return e.Generate(input)
}

// GenerateAll runs every registered engine concurrently over the shared
// snapshot. A failing engine is isolated: its domain is omitted from the
// result, an unavailability event is emitted, and the rest of the batch
// completes.
func (r *Registry) GenerateAll(input Input) map[recommendation.Domain]*recommendation.Recommendation {
	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[recommendation.Domain]*recommendation.Recommendation, len(r.engines))
	)

	for domain, engine := range r.engines {
		wg.Add(1)
		go func(domain recommendation.Domain, engine Engine) {
			defer wg.Done()
			rec, err := engine.Generate(input)
			if err != nil {
				r.emitter.Emit(events.Event{
					Type:    events.DomainEngineUnavailable,
					FieldID: input.FieldID,
					Domain:  string(domain),
					Metadata: map[string]string{
						"error": err.Error(),
					},
				})
				return
			}
			mu.Lock()
			results[domain] = rec
			mu.Unlock()
		}(domain, engine)
	}
	wg.Wait()

	r.emitter.Emit(events.Event{
		Type:    events.DomainBatchCompleted,
		FieldID: input.FieldID,
		Metadata: map[string]string{
			"domains": fmt.Sprintf("%d", len(results)),
		},
	})

	return results
}
