package domainengine

import (
	"time"

	"github.com/google/uuid"

	"fieldsense/pkg/clock"
	"fieldsense/pkg/domain/recommendation"
	"fieldsense/pkg/events"
)

// defaultValidHours is the advisory validity window applied when an
// engine does not specify one.
const defaultValidHours = 4

// defaultConfidence is applied when an engine does not compute one.
const defaultConfidence = 0.8

// Params is what an engine hands the assembler after its ladder decides.
type Params struct {
	Base             recommendation.Base
	ContextFlags     []recommendation.ContextFlag
	SeverityOverlays []recommendation.SeverityOverlay
	Explainability   recommendation.Explainability
	KPIs             map[string]float64
	PredictedNext    *recommendation.Base

	// ValidHours overrides the default 4h validity window; 0 keeps the
	// default.
	ValidHours int

	// Confidence in [0,1]; 0 falls back to the 0.8 default.
	Confidence float64

	RawInputs map[string]any
}

// Assembler turns engine ladder outcomes into finished recommendations.
// It owns everything the ladders must not touch: identity, time,
// urgency/color derivation and event emission.
type Assembler struct {
	clock   clock.Clock
	emitter events.Emitter
}

// NewAssembler creates an assembler. A nil clock falls back to real
// time; a nil emitter disables events.
func NewAssembler(clk clock.Clock, emitter events.Emitter) *Assembler {
	if clk == nil {
		clk = clock.NewReal()
	}
	if emitter == nil {
		emitter = events.NoopEmitter{}
	}
	return &Assembler{clock: clk, emitter: emitter}
}

// Assemble builds the finished recommendation for a ladder outcome.
// An EMERGENCY overlay forces CRITICAL/RED and human confirmation.
func (a *Assembler) Assemble(fieldID string, domain recommendation.Domain, p Params) *recommendation.Recommendation {
	issuedAt := a.clock.Now()
	validHours := p.ValidHours
	if validHours == 0 {
		validHours = defaultValidHours
	}
	confidence := p.Confidence
	if confidence == 0 {
		confidence = defaultConfidence
	}

	emergency := recommendation.HasEmergency(p.SeverityOverlays)

	rawInputs := p.RawInputs
	if rawInputs == nil {
		rawInputs = map[string]any{}
	}
	contextFlags := p.ContextFlags
	if contextFlags == nil {
		contextFlags = []recommendation.ContextFlag{}
	}
	overlays := p.SeverityOverlays
	if overlays == nil {
		overlays = []recommendation.SeverityOverlay{}
	}

	rec := &recommendation.Recommendation{
		ID:         uuid.NewString(),
		Domain:     domain,
		FieldID:    fieldID,
		IssuedAt:   issuedAt,
		ValidUntil: issuedAt.Add(time.Duration(validHours) * time.Hour),

		Base:             p.Base,
		UrgencyLevel:     recommendation.UrgencyFor(p.Base, overlays),
		DisplayColor:     recommendation.ColorFor(p.Base, overlays),
		ContextFlags:     contextFlags,
		SeverityOverlays: overlays,

		RequiresHumanConfirmation: emergency,

		Explainability: p.Explainability,
		KPIs:           p.KPIs,

		PredictedNext: p.PredictedNext,
		Confidence:    confidence,

		AuditLogID: uuid.NewString(),
		RawInputs:  rawInputs,
	}

	a.emitter.Emit(events.Event{
		Type:      events.RecommendationIssued,
		Timestamp: issuedAt,
		FieldID:   fieldID,
		Domain:    string(domain),
		SubjectID: rec.ID,
		Metadata: map[string]string{
			"base":    string(p.Base),
			"urgency": string(rec.UrgencyLevel),
		},
	})
	if emergency {
		a.emitter.Emit(events.Event{
			Type:      events.RecommendationEmergency,
			Timestamp: issuedAt,
			FieldID:   fieldID,
			Domain:    string(domain),
			SubjectID: rec.ID,
		})
	}

	return rec
}
