// Package safetygate implements resolution-aware decision gating and
// multi-protocol interlocks.
//
// Resolution requirements are per-domain and fixed: irrigation needs
// fresh, trustworthy data before actuation; planting needs spatial
// precision for row placement. Domains without a requirement pass.
package safetygate

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"fieldsense/pkg/domain/control"
	"fieldsense/pkg/domain/recommendation"
	"fieldsense/pkg/domain/safety"
	"fieldsense/pkg/events"
)

// Engine evaluates resolution gates and equipment interlocks.
type Engine struct {
	emitter events.Emitter
}

// NewEngine creates a safety gate engine. A nil emitter disables events.
func NewEngine(emitter events.Emitter) *Engine {
	if emitter == nil {
		emitter = events.NoopEmitter{}
	}
	return &Engine{emitter: emitter}
}

// AssessResolutionSafety checks whether the data resolution behind a
// decision meets the domain's requirement.
//
// IRRIGATION requires temporal resolution <= 60 minutes and confidence
// >= 0.7. PLANTING requires spatial resolution <= 5 meters. All other
// domains have no resolution requirement.
func (e *Engine) AssessResolutionSafety(domain recommendation.Domain, meta safety.ResolutionMetadata) safety.Assessment {
	var assessment safety.Assessment

	switch domain {
	case recommendation.Irrigation:
		switch {
		case meta.TemporalResolutionMin > 60:
			assessment = safety.Assessment{
				IsSafe: false,
				Reason: fmt.Sprintf(
					"Temporal resolution too coarse for irrigation control: %.0f min (max 60 min)",
					meta.TemporalResolutionMin),
			}
		case meta.Confidence < 0.7:
			assessment = safety.Assessment{
				IsSafe: false,
				Reason: fmt.Sprintf(
					"Data confidence too low for irrigation control: %.2f (min 0.70)",
					meta.Confidence),
			}
		default:
			assessment = safety.Assessment{IsSafe: true}
		}

	case recommendation.Planting:
		if meta.SpatialResolutionM > 5 {
			assessment = safety.Assessment{
				IsSafe: false,
				Reason: fmt.Sprintf(
					"Spatial resolution too coarse for planting guidance: %.1f m (max 5 m)",
					meta.SpatialResolutionM),
			}
		} else {
			assessment = safety.Assessment{IsSafe: true}
		}

	default:
		assessment = safety.Assessment{IsSafe: true}
	}

	typ := events.SafetyResolutionPassed
	if !assessment.IsSafe {
		typ = events.SafetyResolutionBlocked
	}
	e.emitter.Emit(events.Event{
		Type:     typ,
		Domain:   string(domain),
		Metadata: map[string]string{"reason": assessment.Reason},
	})

	return assessment
}

// CheckInterlocks inspects the active equipment set for hazardous
// combinations. Findings are generated fresh on every call.
//
// Two conditions are checked: simultaneous Modbus and MQTT control of
// active equipment (a race between transports), and any active unit in
// maintenance status.
func (e *Engine) CheckInterlocks(domain recommendation.Domain, activeEquipment []control.Equipment) []safety.Interlock {
	var interlocks []safety.Interlock

	modbusActive := false
	mqttActive := false
	for _, eq := range activeEquipment {
		switch {
		case protocolClass(eq.Protocol, "modbus"):
			modbusActive = true
		case protocolClass(eq.Protocol, "mqtt"):
			mqttActive = true
		}
	}
	if modbusActive && mqttActive {
		interlocks = append(interlocks, safety.Interlock{
			ID:        uuid.NewString(),
			Domain:    string(domain),
			Condition: safety.ConditionMultiProtocolConflict,
			IsTripped: true,
			Severity:  safety.SeverityBlock,
			Message:   "Simultaneous Modbus and MQTT control detected. Blocking actuation to prevent race conditions.",
		})
	}

	for _, eq := range activeEquipment {
		if eq.Status == control.StatusMaintenance {
			interlocks = append(interlocks, safety.Interlock{
				ID:        uuid.NewString(),
				Domain:    string(domain),
				Condition: safety.ConditionEquipmentMaintenance,
				IsTripped: true,
				Severity:  safety.SeverityBlock,
				Message:   "Equipment is in maintenance mode. Actuation blocked.",
			})
		}
	}

	for _, il := range interlocks {
		e.emitter.Emit(events.Event{
			Type:      events.SafetyInterlockTripped,
			Domain:    string(domain),
			SubjectID: il.ID,
			Metadata: map[string]string{
				"condition": il.Condition,
				"severity":  string(il.Severity),
			},
		})
	}

	return interlocks
}

// protocolClass matches a protocol against a transport family name,
// case-insensitively, so "modbus_tcp" and "MODBUS" both count as modbus.
func protocolClass(p control.Protocol, family string) bool {
	return strings.Contains(strings.ToLower(string(p)), family)
}
