// Package metric provides domain types for normalized and hardened
// environmental metrics.
//
// Metrics arrive from the ingestion boundary already normalized; the core
// reads them and never writes back. Keys are a closed enumeration rather
// than free strings so that a typo in an engine is a compile-time symbol,
// not a silently-defaulted reading.
//
// INVARIANTS:
//   - Confidence and IntegrityScore are always in [0,1].
//   - A NormalizedMetric is immutable once produced.
//   - HardenedMetric values are created fresh per evaluation, never reused.
package metric

import (
	"fmt"
	"time"
)

// Type identifies a metric reading.
type Type string

// Environmental sensor metrics.
const (
	SoilMoisture          Type = "soil_moisture"
	SoilTemperature       Type = "soil_temperature"
	SoilTemp              Type = "soil_temp"
	AirTemperature        Type = "air_temperature"
	RelativeHumidity      Type = "relative_humidity"
	Precipitation24h      Type = "precipitation_24h"
	PrecipitationForecast Type = "precipitation_forecast"
	Evapotranspiration    Type = "evapotranspiration"
	WindSpeed             Type = "wind_speed"
	AWC                   Type = "awc"
	CompactionLevel       Type = "compaction_level"
	NitrogenLevel         Type = "nitrogen_level"
	PestPressure          Type = "pest_pressure"
	DiseaseRiskIndex      Type = "disease_risk_index"
	MaturityIndex         Type = "maturity_index"
)

// Operational readiness metrics. Values are 0/1 flags or capacity figures
// reported by the farm management layer.
const (
	EquipmentAvailable Type = "equipment_available"
	EquipmentStatus    Type = "equipment_status"
	SeedReady          Type = "seed_ready"
	LaborAvailable     Type = "labor_available"
	MarketDataReady    Type = "market_data_ready"
	BudgetApproved     Type = "budget_approved"
	StorageReady       Type = "storage_ready"
	IncomingVolume     Type = "incoming_volume"
	ProcessingCapacity Type = "processing_capacity"
	ProcessedStock     Type = "processed_stock"
	PackagingMaterials Type = "packaging_materials"
	StorageTemp        Type = "storage_temp"
	StorageHumidity    Type = "storage_humidity"
	CapacityUsed       Type = "capacity_used"
	OrderBacklog       Type = "order_backlog"
	TransportAvailable Type = "transport_available"
	FuelCost           Type = "fuel_cost"
)

// AllTypes returns every known metric type in deterministic order.
func AllTypes() []Type {
	return []Type{
		SoilMoisture, SoilTemperature, SoilTemp, AirTemperature,
		RelativeHumidity, Precipitation24h, PrecipitationForecast,
		Evapotranspiration, WindSpeed, AWC, CompactionLevel,
		NitrogenLevel, PestPressure, DiseaseRiskIndex, MaturityIndex,
		EquipmentAvailable, EquipmentStatus, SeedReady, LaborAvailable,
		MarketDataReady, BudgetApproved, StorageReady, IncomingVolume,
		ProcessingCapacity, ProcessedStock, PackagingMaterials,
		StorageTemp, StorageHumidity, CapacityUsed, OrderBacklog,
		TransportAvailable, FuelCost,
	}
}

// Validate checks if the metric type is known.
func (t Type) Validate() error {
	for _, k := range AllTypes() {
		if t == k {
			return nil
		}
	}
	return fmt.Errorf("unknown metric type: %s", t)
}

// Bounds is a hard physical range for a metric type.
type Bounds struct {
	Min float64
	Max float64
}

// PhysicalBounds returns the hard physical range for a metric type, and
// whether one is defined. Metrics without a defined range are not
// bounds-checked.
func PhysicalBounds(t Type) (Bounds, bool) {
	switch t {
	case SoilMoisture:
		return Bounds{Min: 0, Max: 100}, true
	case RelativeHumidity:
		return Bounds{Min: 0, Max: 100}, true
	case SoilTemperature:
		return Bounds{Min: -20, Max: 50}, true
	case AirTemperature:
		return Bounds{Min: -40, Max: 60}, true
	case Precipitation24h:
		return Bounds{Min: 0, Max: 500}, true
	default:
		return Bounds{}, false
	}
}

// NormalizedMetric is a single reading as produced by ingestion.
// Read-only to the core.
type NormalizedMetric struct {
	// Type identifies the reading.
	Type Type

	// Value is the reading in Unit.
	Value float64

	// Unit is the measurement unit ("%", "mm", "°C", ...).
	Unit string

	// Timestamp is when the reading was taken.
	Timestamp time.Time

	// Confidence is the ingestion layer's confidence in [0,1].
	Confidence float64
}

// Validate checks the reading's structural invariants.
func (m *NormalizedMetric) Validate() error {
	if err := m.Type.Validate(); err != nil {
		return err
	}
	if m.Confidence < 0 || m.Confidence > 1 {
		return fmt.Errorf("confidence out of range [0,1]: %f", m.Confidence)
	}
	return nil
}

// Set is the snapshot of current readings an engine evaluates.
type Set map[Type]NormalizedMetric

// Value returns the reading for t, or fallback when the key is absent.
// Absent keys are an expected condition; each engine documents its
// fallback per metric.
func (s Set) Value(t Type, fallback float64) float64 {
	m, ok := s[t]
	if !ok {
		return fallback
	}
	return m.Value
}

// Flag reads a 0/1 readiness metric as a boolean, with fallback for an
// absent key.
func (s Set) Flag(t Type, fallback bool) bool {
	m, ok := s[t]
	if !ok {
		return fallback
	}
	return m.Value == 1
}

// Has reports whether a reading for t is present.
func (s Set) Has(t Type) bool {
	_, ok := s[t]
	return ok
}

// Types returns the present metric types in deterministic (AllTypes) order.
func (s Set) Types() []Type {
	var out []Type
	for _, t := range AllTypes() {
		if _, ok := s[t]; ok {
			out = append(out, t)
		}
	}
	return out
}

// HardenedMetric is a NormalizedMetric after cross-metric integrity
// validation.
type HardenedMetric struct {
	NormalizedMetric

	// IntegrityScore starts at 1.0 and is multiplicatively degraded by
	// each failed cross-check. Always in [0,1].
	IntegrityScore float64

	// IsAnomalous is true whenever any individual check failed.
	IsAnomalous bool

	// HardeningNotes records each failed check, in check order.
	HardeningNotes []string

	// OriginalValue preserves the ingested value.
	OriginalValue float64
}
