// Package config loads the field snapshot file the CLI operates on.
//
// A snapshot is the full input surface of the decision core: field
// identity, soil reference values, current metric readings and the
// equipment registry. The core itself never reads files; everything
// flows in through this boundary.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"fieldsense/pkg/domain/control"
	"fieldsense/pkg/domain/irrigation"
	"fieldsense/pkg/domain/metric"
)

// Snapshot is the on-disk input format.
type Snapshot struct {
	Field     FieldConfig       `yaml:"field"`
	Metrics   []MetricConfig    `yaml:"metrics"`
	Equipment []EquipmentConfig `yaml:"equipment"`
	Executor  ExecutorConfig    `yaml:"executor"`

	// RecentPrecipitationMM is accumulated rainfall over the last 24h.
	RecentPrecipitationMM float64 `yaml:"recent_precipitation_mm"`
}

// FieldConfig identifies the field and its soil reference values.
type FieldConfig struct {
	ID   string      `yaml:"id"`
	Soil *SoilConfig `yaml:"soil"`
}

// SoilConfig carries the soil water constants.
type SoilConfig struct {
	FieldCapacityPercent float64 `yaml:"field_capacity_percent"`
	WiltingPointPercent  float64 `yaml:"wilting_point_percent"`
}

// MetricConfig is one reading in the snapshot.
type MetricConfig struct {
	Type       string    `yaml:"type"`
	Value      float64   `yaml:"value"`
	Unit       string    `yaml:"unit"`
	Timestamp  time.Time `yaml:"timestamp"`
	Confidence float64   `yaml:"confidence"`
}

// EquipmentConfig is one unit in the equipment registry.
type EquipmentConfig struct {
	ID            string `yaml:"id"`
	Name          string `yaml:"name"`
	Protocol      string `yaml:"protocol"`
	Status        string `yaml:"status"`
	IPAddress     string `yaml:"ip_address"`
	Port          int    `yaml:"port"`
	ModbusSlaveID int    `yaml:"modbus_slave_id"`
	MQTTTopic     string `yaml:"mqtt_topic"`
}

// ExecutorConfig tunes the control executor.
type ExecutorConfig struct {
	CommandTimeoutSeconds int `yaml:"command_timeout_seconds"`
}

// Load reads and validates a snapshot file.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates snapshot bytes.
func Parse(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the snapshot's structural invariants.
func (s *Snapshot) Validate() error {
	if s.Field.ID == "" {
		return fmt.Errorf("snapshot: missing field id")
	}
	for i, m := range s.Metrics {
		if err := metric.Type(m.Type).Validate(); err != nil {
			return fmt.Errorf("snapshot: metric %d: %w", i, err)
		}
		if m.Confidence < 0 || m.Confidence > 1 {
			return fmt.Errorf("snapshot: metric %s: confidence out of range [0,1]: %f", m.Type, m.Confidence)
		}
	}
	for i, eq := range s.Equipment {
		if eq.ID == "" {
			return fmt.Errorf("snapshot: equipment %d: missing id", i)
		}
		if err := control.Protocol(eq.Protocol).Validate(); err != nil {
			return fmt.Errorf("snapshot: equipment %s: %w", eq.ID, err)
		}
	}
	return nil
}

// MetricSet converts the snapshot readings into the core's metric set.
func (s *Snapshot) MetricSet() metric.Set {
	set := metric.Set{}
	for _, m := range s.Metrics {
		set[metric.Type(m.Type)] = metric.NormalizedMetric{
			Type:       metric.Type(m.Type),
			Value:      m.Value,
			Unit:       m.Unit,
			Timestamp:  m.Timestamp,
			Confidence: m.Confidence,
		}
	}
	return set
}

// SoilProfile converts the soil constants; nil when the snapshot has
// none, letting the core fall back to its default profile.
func (s *Snapshot) SoilProfile() *irrigation.SoilProfile {
	if s.Field.Soil == nil {
		return nil
	}
	return &irrigation.SoilProfile{
		FieldCapacityPercent: s.Field.Soil.FieldCapacityPercent,
		WiltingPointPercent:  s.Field.Soil.WiltingPointPercent,
	}
}

// EquipmentByID looks up a registry unit.
func (s *Snapshot) EquipmentByID(id string) (control.Equipment, bool) {
	for _, eq := range s.Equipment {
		if eq.ID == id {
			return eq.toDomain(), true
		}
	}
	return control.Equipment{}, false
}

// EquipmentList converts the full registry.
func (s *Snapshot) EquipmentList() []control.Equipment {
	out := make([]control.Equipment, 0, len(s.Equipment))
	for _, eq := range s.Equipment {
		out = append(out, eq.toDomain())
	}
	return out
}

func (eq EquipmentConfig) toDomain() control.Equipment {
	return control.Equipment{
		ID:            eq.ID,
		Name:          eq.Name,
		Protocol:      control.Protocol(eq.Protocol),
		Status:        control.EquipmentStatus(eq.Status),
		IPAddress:     eq.IPAddress,
		Port:          eq.Port,
		ModbusSlaveID: eq.ModbusSlaveID,
		MQTTTopic:     eq.MQTTTopic,
	}
}

// DecisionInput builds the irrigation cascade input from the snapshot.
func (s *Snapshot) DecisionInput() *irrigation.DecisionInput {
	set := s.MetricSet()
	pick := func(t metric.Type) *metric.NormalizedMetric {
		if m, ok := set[t]; ok {
			return &m
		}
		return nil
	}
	return &irrigation.DecisionInput{
		FieldID:               s.Field.ID,
		Soil:                  s.SoilProfile(),
		SoilMoisture:          pick(metric.SoilMoisture),
		SoilTemperature:       pick(metric.SoilTemperature),
		Precipitation:         pick(metric.Precipitation24h),
		Evapotranspiration:    pick(metric.Evapotranspiration),
		RecentPrecipitationMM: s.RecentPrecipitationMM,
	}
}

// CommandTimeout returns the configured executor timeout, or zero when
// unset so the executor applies its default.
func (s *Snapshot) CommandTimeout() time.Duration {
	return time.Duration(s.Executor.CommandTimeoutSeconds) * time.Second
}
