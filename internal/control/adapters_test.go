package control

import (
	"context"
	"strings"
	"testing"

	"fieldsense/pkg/clock"
	"fieldsense/pkg/domain/control"
)

func TestNewAdapter_Mapping(t *testing.T) {
	for _, protocol := range control.AllProtocols() {
		adapter, err := NewAdapter(control.Equipment{ID: "eq-1", Protocol: protocol})
		if err != nil {
			t.Fatalf("%s: NewAdapter: %v", protocol, err)
		}
		if adapter.Protocol() != protocol {
			t.Errorf("%s: Protocol() = %s", protocol, adapter.Protocol())
		}
	}

	if _, err := NewAdapter(control.Equipment{Protocol: "lorawan"}); err == nil {
		t.Error("unknown protocol should fail construction")
	}
}

func TestModbusAdapter_AdjustSpeedMessage(t *testing.T) {
	adapter := &ModbusAdapter{
		Equipment: control.Equipment{ID: "pump-1", Protocol: control.ModbusTCP},
		Clock:     clock.NewFixed(testNow),
	}

	resp, err := adapter.ExecuteCommand(context.Background(), control.AdjustSpeed, floatPtr(75), nil)
	if err != nil {
		t.Fatalf("ExecuteCommand: %v", err)
	}
	if resp.Message != "Modbus command executed: Write register 0x0010 = 75 (speed %)" {
		t.Errorf("Message = %q", resp.Message)
	}
	if !resp.ExecutedAt.Equal(testNow) {
		t.Errorf("ExecutedAt = %v, want clock time", resp.ExecutedAt)
	}
}

func TestMQTTAdapter_TopicDefault(t *testing.T) {
	adapter := &MQTTAdapter{
		Equipment: control.Equipment{ID: "valve-7", Protocol: control.MQTT},
		Clock:     clock.NewFixed(testNow),
	}
	if got := adapter.Topic(); got != "irrigation/valve-7/command" {
		t.Errorf("Topic = %q", got)
	}

	adapter.Equipment.MQTTTopic = "farm/north/valve"
	if got := adapter.Topic(); got != "farm/north/valve" {
		t.Errorf("Topic = %q, want override", got)
	}
}

func TestMQTTAdapter_PayloadContents(t *testing.T) {
	adapter := &MQTTAdapter{
		Equipment: control.Equipment{ID: "valve-7", Protocol: control.MQTT},
		Clock:     clock.NewFixed(testNow),
	}

	resp, err := adapter.ExecuteCommand(context.Background(), control.SetDuration, nil, intPtr(45))
	if err != nil {
		t.Fatalf("ExecuteCommand: %v", err)
	}
	for _, want := range []string{
		"MQTT message published: ",
		`"command":"SET_DURATION"`,
		`"durationMinutes":45`,
		`"timestamp":"2026-04-12T06:00:00Z"`,
	} {
		if !strings.Contains(resp.Message, want) {
			t.Errorf("Message missing %q: %q", want, resp.Message)
		}
	}
}

func TestHTTPAdapter_PayloadContents(t *testing.T) {
	adapter := &HTTPAdapter{
		Equipment: control.Equipment{ID: "ctrl-2", Protocol: control.HTTP, IPAddress: "10.0.0.30", Port: 8080},
		Clock:     clock.NewFixed(testNow),
	}

	resp, err := adapter.ExecuteCommand(context.Background(), control.AdjustSpeed, floatPtr(60), nil)
	if err != nil {
		t.Fatalf("ExecuteCommand: %v", err)
	}
	if !strings.HasPrefix(resp.Message, "HTTP command sent: ") {
		t.Errorf("Message = %q", resp.Message)
	}
	if !strings.Contains(resp.Message, `"targetValue":60`) {
		t.Errorf("Message missing target value: %q", resp.Message)
	}
}
