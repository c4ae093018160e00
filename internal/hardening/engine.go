// Package hardening implements cross-metric integrity validation.
//
// Hardening never fails: it is a pure, total function over whatever
// readings are present. Each check needs two readings; when either is
// absent the check is skipped. Checks do not short-circuit each other,
// and the bounds check can only lower a score, never restore it.
//
// Check order:
//  1. Soil moisture vs. 24h precipitation (×0.5 on failure)
//  2. Soil vs. air temperature delta (×0.6 on failure)
//  3. Evapotranspiration vs. relative humidity (×0.7 on failure)
//  4. Physical bounds (forces IntegrityScore to 0.1)
package hardening

import (
	"fmt"
	"math"

	"fieldsense/pkg/domain/metric"
	"fieldsense/pkg/events"
)

// Engine validates a metric snapshot against itself and physical bounds.
// Pure computation; the emitter is the only side channel.
type Engine struct {
	emitter events.Emitter
}

// NewEngine creates a hardening engine. A nil emitter disables events.
func NewEngine(emitter events.Emitter) *Engine {
	if emitter == nil {
		emitter = events.NoopEmitter{}
	}
	return &Engine{emitter: emitter}
}

// Harden produces a fresh HardenedMetric per reading. Integrity starts at
// 1.0 and is degraded by each failed check; IsAnomalous is set whenever
// any check fails.
func (e *Engine) Harden(set metric.Set) map[metric.Type]metric.HardenedMetric {
	hardened := make(map[metric.Type]metric.HardenedMetric, len(set))
	for t, m := range set {
		hardened[t] = metric.HardenedMetric{
			NormalizedMetric: m,
			IntegrityScore:   1.0,
			OriginalValue:    m.Value,
		}
	}

	e.checkMoistureVsPrecip(hardened)
	e.checkSoilVsAirTemp(hardened)
	e.checkETVsHumidity(hardened)
	e.checkPhysicalBounds(hardened)

	return hardened
}

// AverageIntegrity is the mean integrity score across hardened readings,
// 1.0 for an empty set.
func AverageIntegrity(hardened map[metric.Type]metric.HardenedMetric) float64 {
	if len(hardened) == 0 {
		return 1.0
	}
	sum := 0.0
	for _, h := range hardened {
		sum += h.IntegrityScore
	}
	return sum / float64(len(hardened))
}

// checkMoistureVsPrecip flags soil moisture that stays low despite heavy
// recent rainfall, which indicates sensor failure or bypass.
func (e *Engine) checkMoistureVsPrecip(hardened map[metric.Type]metric.HardenedMetric) {
	moisture, okM := hardened[metric.SoilMoisture]
	precip, okP := hardened[metric.Precipitation24h]
	if !okM || !okP {
		return
	}

	if precip.Value > 10 && moisture.Value < 15 {
		e.degrade(hardened, metric.SoilMoisture, 0.5, fmt.Sprintf(
			"Anomaly: Low soil moisture (%g%%) despite high 24h precipitation (%gmm). Possible sensor failure or bypass.",
			moisture.Value, precip.Value))
	}
}

// checkSoilVsAirTemp flags an extreme delta between soil and air
// temperature. Soil lags air but stays within a reasonable band.
func (e *Engine) checkSoilVsAirTemp(hardened map[metric.Type]metric.HardenedMetric) {
	soil, okS := hardened[metric.SoilTemperature]
	air, okA := hardened[metric.AirTemperature]
	if !okS || !okA {
		return
	}

	delta := math.Abs(soil.Value - air.Value)
	if delta > 25 {
		e.degrade(hardened, metric.SoilTemperature, 0.6, fmt.Sprintf(
			"Anomaly: Extreme delta (%.1f°C) between soil and air temperature. Check sensor placement.",
			delta))
	}
}

// checkETVsHumidity flags high evapotranspiration reported during very
// high humidity, which is physically unlikely.
func (e *Engine) checkETVsHumidity(hardened map[metric.Type]metric.HardenedMetric) {
	et, okE := hardened[metric.Evapotranspiration]
	hum, okH := hardened[metric.RelativeHumidity]
	if !okE || !okH {
		return
	}

	if et.Value > 8 && hum.Value > 90 {
		e.degrade(hardened, metric.Evapotranspiration, 0.7, fmt.Sprintf(
			"Anomaly: High ET (%gmm) reported during high humidity (%g%%). Potential calculation error.",
			et.Value, hum.Value))
	}
}

// checkPhysicalBounds forces integrity to 0.1 for any reading outside its
// hard physical range, regardless of prior score.
func (e *Engine) checkPhysicalBounds(hardened map[metric.Type]metric.HardenedMetric) {
	for t, h := range hardened {
		bounds, ok := metric.PhysicalBounds(t)
		if !ok {
			continue
		}
		if h.Value < bounds.Min || h.Value > bounds.Max {
			h.IsAnomalous = true
			h.IntegrityScore = 0.1
			h.HardeningNotes = append(h.HardeningNotes, fmt.Sprintf(
				"Critical: Value %g is outside physical bounds [%g, %g].",
				h.Value, bounds.Min, bounds.Max))
			hardened[t] = h

			e.emitter.Emit(events.Event{
				Type:      events.HardeningBoundsViolation,
				Timestamp: h.Timestamp,
				SubjectID: string(t),
				Metadata:  map[string]string{"note": h.HardeningNotes[len(h.HardeningNotes)-1]},
			})
		}
	}
}

// degrade applies a multiplicative integrity penalty and records the note.
func (e *Engine) degrade(hardened map[metric.Type]metric.HardenedMetric, t metric.Type, factor float64, note string) {
	h := hardened[t]
	h.IsAnomalous = true
	h.IntegrityScore *= factor
	h.HardeningNotes = append(h.HardeningNotes, note)
	hardened[t] = h

	e.emitter.Emit(events.Event{
		Type:      events.HardeningAnomalyDetected,
		Timestamp: h.Timestamp,
		SubjectID: string(t),
		Metadata:  map[string]string{"note": note},
	})
}
