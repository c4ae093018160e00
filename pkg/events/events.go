// Package events defines event types for decision and control observability.
// Events are the audit trail consumers attach to: every gate pass, block,
// issued recommendation and executed command is captured here.
package events

import (
	"sync"
	"time"
)

// EventType identifies the kind of event.
type EventType string

// Metric hardening events.
const (
	HardeningCompleted       EventType = "hardening.completed"
	HardeningAnomalyDetected EventType = "hardening.anomaly.detected"
	HardeningBoundsViolation EventType = "hardening.bounds.violation"
)

// Safety gating events.
const (
	SafetyResolutionPassed  EventType = "safety.resolution.passed"
	SafetyResolutionBlocked EventType = "safety.resolution.blocked"
	SafetyInterlockTripped  EventType = "safety.interlock.tripped"
)

// Domain engine events.
const (
	RecommendationIssued      EventType = "recommendation.issued"
	RecommendationConfirmed   EventType = "recommendation.confirmed"
	RecommendationEmergency   EventType = "recommendation.emergency"
	DomainEngineUnavailable   EventType = "domainengine.unavailable"
	DomainBatchCompleted      EventType = "domainengine.batch.completed"
	ScenarioAnalysisCompleted EventType = "scenario.analysis.completed"
)

// Irrigation decision cascade events.
const (
	CascadeDecisionMade        EventType = "cascade.decision.made"
	CascadeInsufficientData    EventType = "cascade.insufficient_data"
	CascadeActionValidated     EventType = "cascade.action.validated"
	CascadeActionValidationHit EventType = "cascade.action.validation_hit"
)

// Control execution events.
const (
	ControlValidationPassed  EventType = "control.validation.passed"
	ControlValidationBlocked EventType = "control.validation.blocked"
	ControlValidationAdvised EventType = "control.validation.advised"
	ControlConnectionFailed  EventType = "control.connection.failed"
	ControlCommandExecuted   EventType = "control.command.executed"
	ControlCommandSimulated  EventType = "control.command.simulated"
	ControlCommandTimedOut   EventType = "control.command.timed_out"
	ControlKillSwitchEngaged EventType = "control.killswitch.engaged"
)

// Event represents a system event for audit and observability.
type Event struct {
	// Type identifies the kind of event.
	Type EventType

	// Timestamp is when the event occurred.
	Timestamp time.Time

	// FieldID identifies the field the event relates to, if any.
	FieldID string

	// Domain identifies the operational domain, if any.
	Domain string

	// SubjectID identifies the primary subject (recommendation id,
	// command id, metric type, equipment id).
	SubjectID string

	// Metadata contains additional event-specific data.
	Metadata map[string]string
}

// Emitter provides the interface for emitting events.
type Emitter interface {
	// Emit emits an event.
	Emit(event Event)
}

// NoopEmitter is an emitter that does nothing.
type NoopEmitter struct{}

// Emit does nothing.
func (n NoopEmitter) Emit(event Event) {}

// MemoryEmitter records events in order. Safe for concurrent use; the
// batch recommendation path emits from multiple goroutines.
type MemoryEmitter struct {
	mu     sync.Mutex
	events []Event
}

// NewMemoryEmitter creates an empty in-memory emitter.
func NewMemoryEmitter() *MemoryEmitter {
	return &MemoryEmitter{}
}

// Emit appends the event.
func (m *MemoryEmitter) Emit(event Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

// Events returns a copy of the recorded events.
func (m *MemoryEmitter) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}

// CountByType returns how many recorded events have the given type.
func (m *MemoryEmitter) CountByType(t EventType) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

// Verify interface compliance.
var (
	_ Emitter = NoopEmitter{}
	_ Emitter = (*MemoryEmitter)(nil)
)
