// Package sky turns a site's baseline darkness, cloud cover and moon phase into
// an effective observability score.
package sky

import (
	"fmt"
	"math"
)

// Model selects how effective sky quality is estimated.
type Model string

const (
	// ModelLimitingMagnitude estimates the faintest naked-eye star magnitude from a
	// coarse darkness level (higher = darker).
	ModelLimitingMagnitude Model = "limiting_magnitude"
	// ModelSkyBrightness estimates an SQM-like reading in mag/arcsec² from a
	// measured baseline sky brightness.
	ModelSkyBrightness Model = "sky_brightness"
)

const (
	minLimitingMagnitude = 1.0
	minSkyBrightness     = 16.0
)

// ParseModel validates a configured model name.
func ParseModel(s string) (Model, error) {
	switch m := Model(s); m {
	case ModelLimitingMagnitude, ModelSkyBrightness:
		return m, nil
	default:
		return "", fmt.Errorf("unknown sky model %q", s)
	}
}

// Estimate returns the effective sky quality for the given model.
// cloudPct is 0-100 and moonPhase is 0-1 with 0.5 meaning full moon.
func (m Model) Estimate(baseline float64, cloudPct int, moonPhase float64) float64 {
	switch m {
	case ModelSkyBrightness:
		moonPenalty := moonIllumination(moonPhase) * 4
		cloudPenalty := float64(cloudPct) / 100 * 2
		return math.Max(minSkyBrightness, baseline-moonPenalty-cloudPenalty)
	default:
		base := 2 + baseline/2
		cloudPenalty := float64(cloudPct) / 100 * 4
		moonPenalty := moonIllumination(moonPhase) * 2
		return math.Max(minLimitingMagnitude, base-cloudPenalty-moonPenalty)
	}
}

// UpperBound is the best score a site can reach: no cloud and a new moon.
// Sites whose bound is below a threshold can be skipped without fetching weather.
func (m Model) UpperBound(baseline float64) float64 {
	return m.Estimate(baseline, 0, 0)
}

// Unit is the display unit of the model's score.
func (m Model) Unit() string {
	if m == ModelSkyBrightness {
		return "mag/arcsec²"
	}
	return "mag"
}

// DefaultThreshold is the quality threshold offered before the user picks one.
func (m Model) DefaultThreshold() float64 {
	if m == ModelSkyBrightness {
		return 21.0
	}
	return 4.0
}

// DefaultClearThreshold is the clear-sky index threshold offered by default.
const DefaultClearThreshold = 70

// moonIllumination is a triangular proxy for lunar brightness: 1 at full moon,
// 0 at new moon.
func moonIllumination(phase float64) float64 {
	return 1 - math.Abs(phase-0.5)*2
}

// ClearSkyIndex maps cloud cover to a 0-100 confidence score.
func ClearSkyIndex(cloudPct int) int {
	switch {
	case cloudPct <= 10:
		return 100
	case cloudPct <= 40:
		return 70
	case cloudPct <= 70:
		return 40
	default:
		return 10
	}
}
