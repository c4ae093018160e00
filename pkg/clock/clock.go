// Package clock provides a deterministic clock abstraction for FieldSense.
//
// GUARDRAIL: Core decision packages MUST NOT call time.Now() directly.
// Recommendation validity windows, command timestamps and the "recent
// irrigation action" check all depend on the current time; injecting a
// Clock keeps every decision replayable from its inputs.
//
// Usage:
//
//	// In production code
//	asm := domainengine.NewAssembler(clock.NewReal(), emitter)
//
//	// In tests
//	fixed := clock.NewFixed(time.Date(2026, 4, 12, 6, 0, 0, 0, time.UTC))
//	asm := domainengine.NewAssembler(fixed, emitter)
package clock

import "time"

// Clock provides the current time.
// All core logic should depend on this interface, not time.Now().
type Clock interface {
	Now() time.Time
}

// RealClock returns the actual system time.
// Use only at application entry points (cmd/*).
type RealClock struct{}

// Now returns the current system time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// FixedClock always returns a fixed time.
// Use for deterministic testing.
type FixedClock struct {
	T time.Time
}

// Now returns the fixed time.
func (c FixedClock) Now() time.Time {
	return c.T
}

// FuncClock wraps a function as a Clock.
// Useful for incremental time or custom test scenarios.
type FuncClock func() time.Time

// Now calls the wrapped function.
func (f FuncClock) Now() time.Time {
	return f()
}

// NewReal returns a Clock that uses the real system time.
func NewReal() Clock {
	return RealClock{}
}

// NewFixed returns a Clock that always returns the given time.
func NewFixed(t time.Time) Clock {
	return FixedClock{T: t}
}

// NewFunc returns a Clock backed by a custom function.
func NewFunc(f func() time.Time) Clock {
	return FuncClock(f)
}

// Verify interface compliance at compile time.
var (
	_ Clock = RealClock{}
	_ Clock = FixedClock{}
	_ Clock = FuncClock(nil)
)
