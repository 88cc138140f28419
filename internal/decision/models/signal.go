package models

import "time"

// SignalPayload is the output of one model scorer (default, fraud or payoff).
type SignalPayload struct {
	SchemaVersion string    `json:"meta_schema_version"`
	GeneratedAt   time.Time `json:"meta_generated_at"`
	RequestContext
	LatencyMS      int64   `json:"meta_latency_ms"`
	ModelTag       string  `json:"meta_model_tag,omitempty"`
	Score          float64 `json:"score"`
	Threshold      float64 `json:"threshold"`
	RawBand        string  `json:"raw_band"`
	NormalizedBand Band    `json:"normalized_band"`
}

// Band returns the normalized band, falling back to the raw band vocabulary
// and finally to recomputing it from score and threshold.
func (p *SignalPayload) Band() Band {
	if p == nil {
		return ""
	}
	if p.NormalizedBand.Valid() {
		return p.NormalizedBand
	}
	if b := ParseBand(string(p.NormalizedBand)); b != "" {
		return b
	}
	if b := ParseBand(p.RawBand); b != "" {
		return b
	}
	if p.Threshold > 0 {
		return NormalizeBand(p.Score, p.Threshold)
	}
	return ""
}

// ScoreRequest asks a scorer for one model signal.
type ScoreRequest struct {
	Model Model
	RequestContext
	Seed int64
}
