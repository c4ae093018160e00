// Package safety provides domain types for resolution-aware decision
// gating and multi-protocol interlocks.
//
// INVARIANTS:
//   - Interlocks are generated fresh per check call; they are findings,
//     not persistent state.
//   - A BLOCK interlock must prevent any ACTUAL-mode execution downstream.
package safety

import "fmt"

// SourceType classifies where a reading's resolution metadata comes from.
type SourceType string

const (
	SourceSensor    SourceType = "SENSOR"
	SourceSatellite SourceType = "SATELLITE"
	SourceModel     SourceType = "MODEL"
	SourceManual    SourceType = "MANUAL"
)

// ResolutionMetadata describes the spatial/temporal fidelity of the data
// backing a decision.
type ResolutionMetadata struct {
	// SpatialResolutionM is the spatial resolution in meters.
	SpatialResolutionM float64

	// TemporalResolutionMin is the sampling interval in minutes.
	TemporalResolutionMin float64

	// Confidence is the source's confidence in [0,1].
	Confidence float64

	// Source classifies the data origin.
	Source SourceType
}

// Severity ranks an interlock finding.
type Severity string

const (
	// SeverityBlock prevents ACTUAL-mode actuation.
	SeverityBlock Severity = "BLOCK"

	// SeverityWarn is advisory only.
	SeverityWarn Severity = "WARN"
)

// Validate checks if the severity is valid.
func (s Severity) Validate() error {
	switch s {
	case SeverityBlock, SeverityWarn:
		return nil
	default:
		return fmt.Errorf("invalid interlock severity: %s", s)
	}
}

// Condition codes for interlock findings.
const (
	ConditionMultiProtocolConflict = "MULTI_PROTOCOL_CONFLICT"
	ConditionEquipmentMaintenance  = "EQUIPMENT_MAINTENANCE"
)

// Interlock is a safety finding for a domain and equipment state.
type Interlock struct {
	// ID uniquely identifies this finding instance.
	ID string

	// Domain is the operational domain being gated.
	Domain string

	// Condition is the fixed condition code that tripped.
	Condition string

	// IsTripped is true when the condition currently holds.
	IsTripped bool

	// Severity is BLOCK or WARN.
	Severity Severity

	// Message is the human-readable explanation.
	Message string
}

// Assessment is the result of a resolution safety gate.
type Assessment struct {
	// IsSafe is true when the domain's resolution requirements are met.
	IsSafe bool

	// Reason explains a failed gate; empty when safe.
	Reason string
}

// AnyBlocking reports whether any tripped interlock carries BLOCK severity.
func AnyBlocking(interlocks []Interlock) bool {
	for _, il := range interlocks {
		if il.IsTripped && il.Severity == SeverityBlock {
			return true
		}
	}
	return false
}
