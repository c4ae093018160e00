// Package control provides domain types for the protocol-agnostic control
// execution layer.
//
// INVARIANTS:
//   - A failed validation rule or BLOCK interlock makes ACTUAL-mode
//     execution fail closed; it never silently downgrades to simulation.
//   - Adapter selection is a pure mapping from the equipment's declared
//     protocol; an unrecognized protocol is a construction error.
package control

import (
	"fmt"
	"time"
)

// Protocol identifies an equipment control protocol.
type Protocol string

const (
	ModbusTCP Protocol = "modbus_tcp"
	MQTT      Protocol = "mqtt"
	GPIORelay Protocol = "gpio_relay"
	HTTP      Protocol = "http"
	Manual    Protocol = "manual"
)

// AllProtocols returns every supported protocol in deterministic order.
func AllProtocols() []Protocol {
	return []Protocol{ModbusTCP, MQTT, GPIORelay, HTTP, Manual}
}

// Validate checks if the protocol is supported.
func (p Protocol) Validate() error {
	switch p {
	case ModbusTCP, MQTT, GPIORelay, HTTP, Manual:
		return nil
	default:
		return fmt.Errorf("unsupported control protocol: %s", p)
	}
}

// Command is an actuation command.
type Command string

const (
	Start        Command = "START"
	Stop         Command = "STOP"
	AdjustSpeed  Command = "ADJUST_SPEED"
	AdjustSector Command = "ADJUST_SECTOR"
	SetDuration  Command = "SET_DURATION"
)

// Validate checks if the command is valid.
func (c Command) Validate() error {
	switch c {
	case Start, Stop, AdjustSpeed, AdjustSector, SetDuration:
		return nil
	default:
		return fmt.Errorf("invalid control command: %s", c)
	}
}

// ExecutionMode gates whether a command reaches equipment.
type ExecutionMode string

const (
	// DryRun previews a command without touching equipment.
	DryRun ExecutionMode = "DRY_RUN"

	// Simulation executes against the simulated transport only.
	Simulation ExecutionMode = "SIMULATION"

	// Actual executes against real equipment. All safety gates bind.
	Actual ExecutionMode = "ACTUAL"
)

// Validate checks if the mode is valid.
func (m ExecutionMode) Validate() error {
	switch m {
	case DryRun, Simulation, Actual:
		return nil
	default:
		return fmt.Errorf("invalid execution mode: %s", m)
	}
}

// IsPreview reports whether the mode never reaches real equipment.
// Preview modes report validation failures instead of blocking on them.
func (m ExecutionMode) IsPreview() bool {
	return m == DryRun || m == Simulation
}

// EquipmentStatus is the registry's operational state for a unit.
type EquipmentStatus string

const (
	StatusOperational EquipmentStatus = "operational"
	StatusMaintenance EquipmentStatus = "maintenance"
	StatusOffline     EquipmentStatus = "offline"
)

// Equipment is the identity and addressing of one controllable unit.
// Supplied by the equipment registry; read-only to the core.
type Equipment struct {
	ID       string
	Name     string
	Protocol Protocol
	Status   EquipmentStatus

	// IPAddress and Port address network transports (modbus_tcp, http).
	IPAddress string
	Port      int

	// ModbusSlaveID addresses the modbus unit; 0 defaults to 1.
	ModbusSlaveID int

	// MQTTTopic overrides the default command topic.
	MQTTTopic string
}

// Request is one control execution request.
type Request struct {
	Equipment Equipment
	Command   Command

	// TargetValue carries a command parameter (flow-rate percent for
	// ADJUST_SPEED); nil when the command takes none.
	TargetValue *float64

	// DurationMinutes bounds the action; nil when open-ended.
	DurationMinutes *int

	Mode ExecutionMode
}

// Response is the result of one control execution.
type Response struct {
	Success    bool
	Message    string
	CommandID  string
	ExecutedAt time.Time
	Protocol   Protocol
}

// RuleResult is one validation rule's verdict.
type RuleResult struct {
	Valid  bool
	Reason string
}

// ValidationRule is one link in the control validation chain. Rules are
// evaluated in full so all violations are reported together.
type ValidationRule struct {
	Name        string
	Description string
	Validate    func(Request) RuleResult
}
