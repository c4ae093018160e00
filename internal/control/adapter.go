// Package control implements protocol-agnostic execution of irrigation
// equipment commands.
//
// Adapters translate commands into protocol transactions. The bundled
// adapters simulate their transports with bounded latency; the adapter
// interface is where a real Modbus or MQTT client would plug in.
//
// INVARIANTS:
//   - Adapter selection is a pure mapping from the equipment's declared
//     protocol. An unknown protocol fails construction, never at
//     execution time.
//   - Context expiry during a command surfaces as ErrExecutionTimeout,
//     distinct from ErrConnectionFailed.
package control

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fieldsense/pkg/clock"
	"fieldsense/pkg/domain/control"
	fserrors "fieldsense/pkg/errors"
)

// Adapter executes commands against one unit of equipment.
type Adapter interface {
	// ExecuteCommand runs one command. target and duration are optional
	// command parameters.
	ExecuteCommand(ctx context.Context, cmd control.Command, target *float64, duration *int) (*control.Response, error)

	// ValidateConnection probes the transport without side effects.
	ValidateConnection(ctx context.Context) error

	// Protocol identifies the transport.
	Protocol() control.Protocol
}

// Default simulated transaction latencies.
const (
	modbusLatency = 500 * time.Millisecond
	mqttLatency   = 300 * time.Millisecond
	gpioLatency   = 200 * time.Millisecond
	httpLatency   = 400 * time.Millisecond
)

// NewAdapter selects the adapter for the equipment's declared protocol.
func NewAdapter(equipment control.Equipment) (Adapter, error) {
	return newAdapter(equipment, clock.NewReal())
}

func newAdapter(equipment control.Equipment, clk clock.Clock) (Adapter, error) {
	switch equipment.Protocol {
	case control.ModbusTCP:
		return &ModbusAdapter{Equipment: equipment, Clock: clk, Latency: modbusLatency}, nil
	case control.MQTT:
		return &MQTTAdapter{Equipment: equipment, Clock: clk, Latency: mqttLatency}, nil
	case control.GPIORelay:
		return &GPIOAdapter{Equipment: equipment, Clock: clk, Latency: gpioLatency}, nil
	case control.HTTP:
		return &HTTPAdapter{Equipment: equipment, Clock: clk, Latency: httpLatency}, nil
	case control.Manual:
		return &ManualAdapter{Equipment: equipment, Clock: clk}, nil
	default:
		return nil, fmt.Errorf("%w: %s", fserrors.ErrUnknownProtocol, equipment.Protocol)
	}
}

// newCommandID mints a command identifier.
func newCommandID() string {
	return fmt.Sprintf("cmd-%s", uuid.NewString())
}

// simulateLatency waits out the transport's transaction time, honoring
// cancellation.
func simulateLatency(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", fserrors.ErrExecutionTimeout, ctx.Err())
	case <-timer.C:
		return nil
	}
}
