package control

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"fieldsense/pkg/clock"
	"fieldsense/pkg/domain/control"
	fserrors "fieldsense/pkg/errors"
	"fieldsense/pkg/events"
)

// DefaultCommandTimeout bounds a single command execution.
const DefaultCommandTimeout = 30 * time.Second

// AdapterFactory builds the adapter for a unit of equipment.
type AdapterFactory func(control.Equipment) (Adapter, error)

// Config configures an Executor. Zero values take defaults.
type Config struct {
	Clock          clock.Clock
	Emitter        events.Emitter
	CommandTimeout time.Duration
	AdapterFactory AdapterFactory
}

// Executor runs validated control requests. Ordinary commands are
// serialized per equipment ID so two commands never race on one unit;
// the kill switch deliberately bypasses that serialization.
type Executor struct {
	clock      clock.Clock
	emitter    events.Emitter
	timeout    time.Duration
	adapterFor AdapterFactory

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewExecutor creates an executor.
func NewExecutor(cfg Config) *Executor {
	if cfg.Clock == nil {
		cfg.Clock = clock.NewReal()
	}
	if cfg.Emitter == nil {
		cfg.Emitter = events.NoopEmitter{}
	}
	if cfg.CommandTimeout == 0 {
		cfg.CommandTimeout = DefaultCommandTimeout
	}
	if cfg.AdapterFactory == nil {
		cfg.AdapterFactory = NewAdapter
	}
	return &Executor{
		clock:      cfg.Clock,
		emitter:    cfg.Emitter,
		timeout:    cfg.CommandTimeout,
		adapterFor: cfg.AdapterFactory,
		locks:      make(map[string]*sync.Mutex),
	}
}

// lockFor returns the per-equipment serialization lock.
func (e *Executor) lockFor(equipmentID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.locks[equipmentID]
	if !ok {
		l = &sync.Mutex{}
		e.locks[equipmentID] = l
	}
	return l
}

// Execute runs one control request through validation, connection check
// and the protocol adapter.
//
// In ACTUAL mode any validation violation aborts before an adapter is
// even constructed; preview modes report violations as advisory events
// and continue. Connection failure is likewise fatal only in ACTUAL.
func (e *Executor) Execute(ctx context.Context, req control.Request) (*control.Response, error) {
	violations := Violations(req)

	if len(violations) > 0 {
		if req.Mode == control.Actual {
			e.emitter.Emit(events.Event{
				Type:      events.ControlValidationBlocked,
				Timestamp: e.clock.Now(),
				SubjectID: req.Equipment.ID,
				Metadata: map[string]string{
					"violations": strings.Join(violations, ", "),
				},
			})
			return nil, fmt.Errorf("%w: %s", fserrors.ErrValidationFailed, strings.Join(violations, ", "))
		}
		e.emitter.Emit(events.Event{
			Type:      events.ControlValidationAdvised,
			Timestamp: e.clock.Now(),
			SubjectID: req.Equipment.ID,
			Metadata: map[string]string{
				"violations": strings.Join(violations, ", "),
			},
		})
	} else {
		e.emitter.Emit(events.Event{
			Type:      events.ControlValidationPassed,
			Timestamp: e.clock.Now(),
			SubjectID: req.Equipment.ID,
		})
	}

	adapter, err := e.adapterFor(req.Equipment)
	if err != nil {
		return nil, err
	}

	if err := adapter.ValidateConnection(ctx); err != nil {
		e.emitter.Emit(events.Event{
			Type:      events.ControlConnectionFailed,
			Timestamp: e.clock.Now(),
			SubjectID: req.Equipment.ID,
			Metadata:  map[string]string{"error": err.Error()},
		})
		if req.Mode == control.Actual {
			return nil, fmt.Errorf("%w: cannot connect to equipment: %s", fserrors.ErrConnectionFailed, req.Equipment.Name)
		}
	}

	lock := e.lockFor(req.Equipment.ID)
	lock.Lock()
	defer lock.Unlock()

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	resp, err := adapter.ExecuteCommand(ctx, req.Command, req.TargetValue, req.DurationMinutes)
	if err != nil {
		if errors.Is(err, fserrors.ErrExecutionTimeout) {
			e.emitter.Emit(events.Event{
				Type:      events.ControlCommandTimedOut,
				Timestamp: e.clock.Now(),
				SubjectID: req.Equipment.ID,
			})
		}
		return nil, err
	}

	eventType := events.ControlCommandExecuted
	if req.Mode.IsPreview() {
		eventType = events.ControlCommandSimulated
	}
	e.emitter.Emit(events.Event{
		Type:      eventType,
		Timestamp: e.clock.Now(),
		SubjectID: resp.CommandID,
		Metadata: map[string]string{
			"equipment": req.Equipment.ID,
			"command":   string(req.Command),
			"protocol":  string(resp.Protocol),
			"mode":      string(req.Mode),
		},
	})

	return resp, nil
}

// EmergencyKillSwitch stops equipment immediately. It bypasses the
// validation chain and the per-equipment serialization: an emergency
// stop must never queue behind an in-flight command.
func (e *Executor) EmergencyKillSwitch(ctx context.Context, equipment control.Equipment) (*control.Response, error) {
	adapter, err := e.adapterFor(equipment)
	if err != nil {
		return nil, err
	}

	zero := 0
	resp, err := adapter.ExecuteCommand(ctx, control.Stop, nil, &zero)
	if err != nil {
		return nil, err
	}
	resp.Message = fmt.Sprintf("EMERGENCY STOP executed: %s", resp.Message)

	e.emitter.Emit(events.Event{
		Type:      events.ControlKillSwitchEngaged,
		Timestamp: e.clock.Now(),
		SubjectID: equipment.ID,
		Metadata: map[string]string{
			"protocol":  string(equipment.Protocol),
			"commandId": resp.CommandID,
		},
	})

	return resp, nil
}
