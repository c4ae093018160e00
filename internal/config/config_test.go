package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fieldsense/pkg/domain/control"
	"fieldsense/pkg/domain/metric"
)

const sampleSnapshot = `
field:
  id: field-12
  soil:
    field_capacity_percent: 28
    wilting_point_percent: 10
recent_precipitation_mm: 2.5
metrics:
  - type: soil_moisture
    value: 16
    unit: "%"
    timestamp: 2026-04-12T06:00:00Z
    confidence: 0.9
  - type: soil_temperature
    value: 14
    unit: "°C"
    timestamp: 2026-04-12T06:00:00Z
    confidence: 0.85
equipment:
  - id: pump-1
    name: North Pump
    protocol: modbus_tcp
    status: operational
    ip_address: 10.0.0.20
    port: 502
    modbus_slave_id: 2
  - id: valve-7
    name: East Valve
    protocol: mqtt
    status: maintenance
    mqtt_topic: farm/east/valve
executor:
  command_timeout_seconds: 45
`

func TestParse_FullSnapshot(t *testing.T) {
	s, err := Parse([]byte(sampleSnapshot))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if s.Field.ID != "field-12" {
		t.Errorf("Field.ID = %q", s.Field.ID)
	}
	if s.RecentPrecipitationMM != 2.5 {
		t.Errorf("RecentPrecipitationMM = %g", s.RecentPrecipitationMM)
	}

	set := s.MetricSet()
	if got := set.Value(metric.SoilMoisture, -1); got != 16 {
		t.Errorf("soil moisture = %g", got)
	}
	if m := set[metric.SoilTemperature]; m.Confidence != 0.85 || m.Unit != "°C" {
		t.Errorf("soil temperature = %+v", m)
	}
	wantTime := time.Date(2026, 4, 12, 6, 0, 0, 0, time.UTC)
	if !set[metric.SoilMoisture].Timestamp.Equal(wantTime) {
		t.Errorf("timestamp = %v", set[metric.SoilMoisture].Timestamp)
	}

	profile := s.SoilProfile()
	if profile == nil {
		t.Fatal("SoilProfile = nil")
	}
	if profile.FieldCapacityPercent != 28 || profile.WiltingPointPercent != 10 {
		t.Errorf("profile = %+v", profile)
	}

	if s.CommandTimeout() != 45*time.Second {
		t.Errorf("CommandTimeout = %v", s.CommandTimeout())
	}
}

func TestParse_EquipmentRegistry(t *testing.T) {
	s, err := Parse([]byte(sampleSnapshot))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	pump, ok := s.EquipmentByID("pump-1")
	if !ok {
		t.Fatal("pump-1 not found")
	}
	if pump.Protocol != control.ModbusTCP || pump.Port != 502 || pump.ModbusSlaveID != 2 {
		t.Errorf("pump = %+v", pump)
	}

	valve, ok := s.EquipmentByID("valve-7")
	if !ok {
		t.Fatal("valve-7 not found")
	}
	if valve.Status != control.StatusMaintenance || valve.MQTTTopic != "farm/east/valve" {
		t.Errorf("valve = %+v", valve)
	}

	if _, ok := s.EquipmentByID("missing"); ok {
		t.Error("unknown id should not resolve")
	}

	if n := len(s.EquipmentList()); n != 2 {
		t.Errorf("EquipmentList length = %d", n)
	}
}

func TestParse_DecisionInput(t *testing.T) {
	s, err := Parse([]byte(sampleSnapshot))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	in := s.DecisionInput()
	if in.FieldID != "field-12" {
		t.Errorf("FieldID = %q", in.FieldID)
	}
	if in.SoilMoisture == nil || in.SoilMoisture.Value != 16 {
		t.Errorf("SoilMoisture = %+v", in.SoilMoisture)
	}
	if in.Precipitation != nil {
		t.Error("Precipitation should be nil when the reading is absent")
	}
	if in.RecentPrecipitationMM != 2.5 {
		t.Errorf("RecentPrecipitationMM = %g", in.RecentPrecipitationMM)
	}
	if in.Profile().WiltingPointPercent != 10 {
		t.Errorf("Profile = %+v", in.Profile())
	}
}

func TestParse_RejectsBadSnapshots(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "missing field id",
			yaml: "metrics: []",
			want: "missing field id",
		},
		{
			name: "unknown metric type",
			yaml: "field:\n  id: f1\nmetrics:\n  - type: soil_ph\n    value: 6.5",
			want: "unknown metric type",
		},
		{
			name: "confidence out of range",
			yaml: "field:\n  id: f1\nmetrics:\n  - type: soil_moisture\n    value: 20\n    confidence: 1.4",
			want: "confidence out of range",
		},
		{
			name: "equipment without id",
			yaml: "field:\n  id: f1\nequipment:\n  - protocol: mqtt",
			want: "missing id",
		},
		{
			name: "unsupported protocol",
			yaml: "field:\n  id: f1\nequipment:\n  - id: eq-1\n    protocol: zigbee",
			want: "unsupported control protocol",
		},
		{
			name: "not yaml",
			yaml: "{field: [",
			want: "parse snapshot",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("err = %v, want substring %q", err, tc.want)
			}
		})
	}
}

func TestLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	if err := os.WriteFile(path, []byte(sampleSnapshot), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Field.ID != "field-12" {
		t.Errorf("Field.ID = %q", s.Field.ID)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("missing file should fail")
	}
}

func TestSoilProfile_NilWhenAbsent(t *testing.T) {
	s, err := Parse([]byte("field:\n  id: f1"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if s.SoilProfile() != nil {
		t.Error("SoilProfile should be nil without soil config")
	}
	if got := s.DecisionInput().Profile().WiltingPointPercent; got != 12 {
		t.Errorf("default wilting point = %g", got)
	}
}
