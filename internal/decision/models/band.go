package models

import "strings"

// Band is the normalized three-level risk classification.
type Band string

const (
	BandLow    Band = "LOW"
	BandReview Band = "REVIEW"
	BandHigh   Band = "HIGH"
)

// NormalizeBand classifies score against threshold: at or above threshold is
// HIGH, at or above half the threshold is REVIEW, anything lower is LOW.
func NormalizeBand(score, threshold float64) Band {
	switch {
	case score >= threshold:
		return BandHigh
	case score >= 0.5*threshold:
		return BandReview
	default:
		return BandLow
	}
}

// ParseBand accepts the scorer vocabularies ("HIGH_RISK", "REVIEW_FRAUD",
// "low") and returns the normalized band, or "" when the token is unknown.
func ParseBand(raw string) Band {
	v := strings.ToUpper(strings.TrimSpace(raw))
	switch {
	case v == "":
		return ""
	case strings.HasPrefix(v, "HIGH"):
		return BandHigh
	case strings.HasPrefix(v, "REVIEW"), strings.HasPrefix(v, "MEDIUM"):
		return BandReview
	case strings.HasPrefix(v, "LOW"):
		return BandLow
	default:
		return ""
	}
}

// Valid reports whether b is one of the three bands.
func (b Band) Valid() bool {
	return b == BandLow || b == BandReview || b == BandHigh
}
