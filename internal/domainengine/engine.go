// Package domainengine hosts the eleven operational decision engines and
// the registry that runs them.
//
// Engines are pure rule ladders over a read-only metric snapshot: rules
// applied in order, first match wins. Each engine declares the metrics
// it reads and the fallback applied when a reading is absent; absence is
// an expected condition, not an error.
package domainengine

import (
	"fieldsense/pkg/domain/control"
	"fieldsense/pkg/domain/irrigation"
	"fieldsense/pkg/domain/metric"
	"fieldsense/pkg/domain/recommendation"
	"fieldsense/pkg/domain/safety"
	"fieldsense/pkg/domain/scenario"
)

// Input is the shared snapshot every engine evaluates.
type Input struct {
	// FieldID identifies the field.
	FieldID string

	// Metrics is the current reading snapshot. Read-only.
	Metrics metric.Set

	// Soil carries the field's soil reference values; nil falls back to
	// irrigation.DefaultSoilProfile.
	Soil *irrigation.SoilProfile

	// ActiveEquipment is the currently active equipment set, used for
	// interlock checks. Empty defaults to a single operational Modbus
	// unit.
	ActiveEquipment []control.Equipment

	// RawInputs is carried through to the recommendation for audit.
	RawInputs map[string]any
}

// Engine produces a recommendation for one operational domain.
type Engine interface {
	// Domain returns the domain this engine decides for.
	Domain() recommendation.Domain

	// Generate evaluates the snapshot and produces a recommendation.
	Generate(input Input) (*recommendation.Recommendation, error)
}

// HardeningEngine is the slice of the hardening engine the domain
// engines consume.
type HardeningEngine interface {
	Harden(set metric.Set) map[metric.Type]metric.HardenedMetric
}

// SafetyEngine is the slice of the safety gate the domain engines
// consume.
type SafetyEngine interface {
	AssessResolutionSafety(domain recommendation.Domain, meta safety.ResolutionMetadata) safety.Assessment
	CheckInterlocks(domain recommendation.Domain, activeEquipment []control.Equipment) []safety.Interlock
}

// ScenarioEngine is the slice of the scenario engine the domain engines
// consume.
type ScenarioEngine interface {
	WhatIf(domain recommendation.Domain, metrics metric.Set) []scenario.Outcome
}

// Services bundles the shared machinery the domain engines build on.
type Services struct {
	Assembler *Assembler
	Hardening HardeningEngine
	Safety    SafetyEngine
	Scenario  ScenarioEngine
}

// hardenedValue reads a hardened metric's value with a fallback for an
// absent key, mirroring metric.Set.Value for hardened maps.
func hardenedValue(hardened map[metric.Type]metric.HardenedMetric, t metric.Type, fallback float64) float64 {
	h, ok := hardened[t]
	if !ok {
		return fallback
	}
	return h.Value
}

// hardenedInputs lists the hardened metric types in deterministic order.
func hardenedInputs(hardened map[metric.Type]metric.HardenedMetric) []string {
	var out []string
	for _, t := range metric.AllTypes() {
		if _, ok := hardened[t]; ok {
			out = append(out, string(t))
		}
	}
	return out
}
