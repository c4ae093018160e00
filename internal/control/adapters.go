package control

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fieldsense/pkg/clock"
	"fieldsense/pkg/domain/control"
)

// ModbusAdapter simulates a Modbus TCP transaction against the
// equipment's slave ID.
type ModbusAdapter struct {
	Equipment control.Equipment
	Clock     clock.Clock
	Latency   time.Duration
}

// Protocol returns modbus_tcp.
func (a *ModbusAdapter) Protocol() control.Protocol { return control.ModbusTCP }

// ValidateConnection probes the TCP endpoint.
func (a *ModbusAdapter) ValidateConnection(ctx context.Context) error {
	return ctx.Err()
}

// ExecuteCommand writes the coil or register for the command.
func (a *ModbusAdapter) ExecuteCommand(ctx context.Context, cmd control.Command, target *float64, duration *int) (*control.Response, error) {
	if err := simulateLatency(ctx, a.Latency); err != nil {
		return nil, err
	}

	var msg string
	switch cmd {
	case control.Start:
		msg = "Write coil 0x0001 = 1 (START)"
	case control.Stop:
		msg = "Write coil 0x0001 = 0 (STOP)"
	case control.AdjustSpeed:
		msg = fmt.Sprintf("Write register 0x0010 = %s (speed %%)", formatTarget(target))
	case control.SetDuration:
		msg = fmt.Sprintf("Write register 0x0020 = %d (duration minutes)", durationOrZero(duration))
	default:
		msg = fmt.Sprintf("Unknown command: %s", cmd)
	}

	return &control.Response{
		Success:    true,
		Message:    fmt.Sprintf("Modbus command executed: %s", msg),
		CommandID:  newCommandID(),
		ExecutedAt: a.Clock.Now(),
		Protocol:   control.ModbusTCP,
	}, nil
}

// MQTTAdapter simulates publishing a command payload to the equipment's
// command topic.
type MQTTAdapter struct {
	Equipment control.Equipment
	Clock     clock.Clock
	Latency   time.Duration
}

// Protocol returns mqtt.
func (a *MQTTAdapter) Protocol() control.Protocol { return control.MQTT }

// ValidateConnection probes the broker.
func (a *MQTTAdapter) ValidateConnection(ctx context.Context) error {
	return ctx.Err()
}

// Topic is the command topic, defaulting to irrigation/<id>/command.
func (a *MQTTAdapter) Topic() string {
	if a.Equipment.MQTTTopic != "" {
		return a.Equipment.MQTTTopic
	}
	return fmt.Sprintf("irrigation/%s/command", a.Equipment.ID)
}

// ExecuteCommand publishes the command payload.
func (a *MQTTAdapter) ExecuteCommand(ctx context.Context, cmd control.Command, target *float64, duration *int) (*control.Response, error) {
	if err := simulateLatency(ctx, a.Latency); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(commandPayload{
		Command:         cmd,
		TargetValue:     target,
		DurationMinutes: duration,
		Timestamp:       a.Clock.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, err
	}

	return &control.Response{
		Success:    true,
		Message:    fmt.Sprintf("MQTT message published: %s", payload),
		CommandID:  newCommandID(),
		ExecutedAt: a.Clock.Now(),
		Protocol:   control.MQTT,
	}, nil
}

// GPIOAdapter simulates direct relay switching.
type GPIOAdapter struct {
	Equipment control.Equipment
	Clock     clock.Clock
	Latency   time.Duration
}

// Protocol returns gpio_relay.
func (a *GPIOAdapter) Protocol() control.Protocol { return control.GPIORelay }

// ValidateConnection checks pin availability.
func (a *GPIOAdapter) ValidateConnection(ctx context.Context) error {
	return ctx.Err()
}

// ExecuteCommand switches the relay.
func (a *GPIOAdapter) ExecuteCommand(ctx context.Context, cmd control.Command, target *float64, duration *int) (*control.Response, error) {
	if err := simulateLatency(ctx, a.Latency); err != nil {
		return nil, err
	}

	var msg string
	switch cmd {
	case control.Start:
		msg = "Set GPIO HIGH (START)"
	case control.Stop:
		msg = "Set GPIO LOW (STOP)"
	case control.SetDuration:
		msg = fmt.Sprintf("Schedule GPIO pulse for %d minutes", durationOrZero(duration))
	default:
		msg = fmt.Sprintf("GPIO command: %s", cmd)
	}

	return &control.Response{
		Success:    true,
		Message:    fmt.Sprintf("GPIO relay command executed: %s", msg),
		CommandID:  newCommandID(),
		ExecutedAt: a.Clock.Now(),
		Protocol:   control.GPIORelay,
	}, nil
}

// HTTPAdapter simulates a generic vendor REST interface.
type HTTPAdapter struct {
	Equipment control.Equipment
	Clock     clock.Clock
	Latency   time.Duration
}

// Protocol returns http.
func (a *HTTPAdapter) Protocol() control.Protocol { return control.HTTP }

// ValidateConnection probes the health endpoint.
func (a *HTTPAdapter) ValidateConnection(ctx context.Context) error {
	return ctx.Err()
}

// ExecuteCommand posts the command to the vendor control endpoint.
func (a *HTTPAdapter) ExecuteCommand(ctx context.Context, cmd control.Command, target *float64, duration *int) (*control.Response, error) {
	if err := simulateLatency(ctx, a.Latency); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(commandPayload{
		Command:         cmd,
		TargetValue:     target,
		DurationMinutes: duration,
		Timestamp:       a.Clock.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, err
	}

	return &control.Response{
		Success:    true,
		Message:    fmt.Sprintf("HTTP command sent: %s", payload),
		CommandID:  newCommandID(),
		ExecutedAt: a.Clock.Now(),
		Protocol:   control.HTTP,
	}, nil
}

// ManualAdapter covers equipment without automated control: the command
// becomes an operator notification, issued synchronously.
type ManualAdapter struct {
	Equipment control.Equipment
	Clock     clock.Clock
}

// Protocol returns manual.
func (a *ManualAdapter) Protocol() control.Protocol { return control.Manual }

// ValidateConnection always succeeds; there is no transport.
func (a *ManualAdapter) ValidateConnection(ctx context.Context) error {
	return nil
}

// ExecuteCommand notifies the operator.
func (a *ManualAdapter) ExecuteCommand(ctx context.Context, cmd control.Command, target *float64, duration *int) (*control.Response, error) {
	return &control.Response{
		Success:    true,
		Message:    fmt.Sprintf("Manual control notification sent to operator: %s for %d minutes", cmd, durationOrZero(duration)),
		CommandID:  newCommandID(),
		ExecutedAt: a.Clock.Now(),
		Protocol:   control.Manual,
	}, nil
}

// commandPayload is the wire shape published by the MQTT and HTTP
// adapters.
type commandPayload struct {
	Command         control.Command `json:"command"`
	TargetValue     *float64        `json:"targetValue,omitempty"`
	DurationMinutes *int            `json:"durationMinutes,omitempty"`
	Timestamp       string          `json:"timestamp"`
}

func formatTarget(target *float64) string {
	if target == nil {
		return "0"
	}
	return fmt.Sprintf("%g", *target)
}

func durationOrZero(duration *int) int {
	if duration == nil {
		return 0
	}
	return *duration
}
