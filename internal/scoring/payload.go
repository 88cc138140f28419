// Package scoring adapts the three model scorers (default, fraud, payoff)
// behind one interface: an in-process stub, an HTTP service, or a runner
// subprocess.
package scoring

import (
	"time"

	"originate/internal/decision/models"
)

// DefaultThresholds are the operating points used by the stub scorer.
var DefaultThresholds = map[models.Model]float64{
	models.ModelDefault: 0.35,
	models.ModelFraud:   0.60,
	models.ModelPayoff:  0.40,
}

// RawBand renders the model's native binary decision.
func RawBand(m models.Model, high bool) string {
	level := "LOW"
	if high {
		level = "HIGH"
	}
	switch m {
	case models.ModelFraud:
		return level + "_FRAUD"
	case models.ModelPayoff:
		return level + "_PAYOFF"
	default:
		return level + "_RISK"
	}
}

// NewPayload builds a scorer payload with its normalized band.
func NewPayload(m models.Model, rc models.RequestContext, score, threshold float64, tag string, generatedAt time.Time, latency time.Duration) models.SignalPayload {
	return models.SignalPayload{
		SchemaVersion:  m.SchemaVersion(),
		GeneratedAt:    generatedAt.UTC(),
		RequestContext: rc,
		LatencyMS:      latency.Milliseconds(),
		ModelTag:       tag,
		Score:          score,
		Threshold:      threshold,
		RawBand:        RawBand(m, score >= threshold),
		NormalizedBand: models.NormalizeBand(score, threshold),
	}
}
