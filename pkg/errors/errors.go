// Package errors defines common error types used across FieldSense.
//
// The split follows the core failure taxonomy: configuration faults are
// returned errors (they indicate a programming or wiring mistake, fail
// fast); data-quality and safety faults are structured values on the
// decision records themselves and never surface as errors.
package errors

import "errors"

// Configuration errors, fatal at construction time.
var (
	// ErrUnknownProtocol is returned when equipment declares a control
	// protocol no adapter exists for.
	ErrUnknownProtocol = errors.New("unknown control protocol")

	// ErrUnknownDomain is returned when a recommendation is requested for
	// a domain with no registered engine.
	ErrUnknownDomain = errors.New("unknown operational domain")
)

// Execution errors, returned by the control execution layer.
var (
	// ErrValidationFailed is returned when an ACTUAL-mode request fails
	// one or more control validation rules. The aggregate rule violations
	// are wrapped alongside it.
	ErrValidationFailed = errors.New("control validation failed")

	// ErrConnectionFailed is returned when an adapter cannot reach its
	// equipment. Fatal in ACTUAL mode, advisory otherwise.
	ErrConnectionFailed = errors.New("equipment connection failed")

	// ErrExecutionTimeout is returned when a command exceeds the caller's
	// deadline. Distinct from ErrConnectionFailed so callers can tell a
	// slow link from a dead one.
	ErrExecutionTimeout = errors.New("command execution timed out")
)

// Recommendation errors.
var (
	// ErrConfirmationNotRequired is returned when Confirm is called on a
	// recommendation that carries no EMERGENCY overlay.
	ErrConfirmationNotRequired = errors.New("recommendation does not require human confirmation")

	// ErrEngineUnavailable marks a per-domain soft failure inside a batch
	// run. Batch callers omit the domain rather than aborting.
	ErrEngineUnavailable = errors.New("domain engine unavailable")
)
