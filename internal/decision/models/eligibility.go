package models

import "time"

// EligibilityStatus is the tri-state outcome of the eligibility gate.
type EligibilityStatus string

const (
	EligibilityApproved       EligibilityStatus = "APPROVED"
	EligibilityRejected       EligibilityStatus = "REJECTED"
	EligibilityReviewRequired EligibilityStatus = "REVIEW_REQUIRED"
)

// SensorMode reports where dynamic sensor values came from.
type SensorMode string

const (
	SensorModeStub         SensorMode = "STUB"
	SensorModeLive         SensorMode = "LIVE"
	SensorModeLiveFallback SensorMode = "LIVE_FALLBACK"
)

// EligibilityResult is the eligibility_agent_status_v0_1 payload.
type EligibilityResult struct {
	SchemaVersion string    `json:"meta_schema_version"`
	GeneratedAt   time.Time `json:"meta_generated_at"`
	RequestContext
	LatencyMS  int64             `json:"meta_latency_ms"`
	Status     EligibilityStatus `json:"eligibility_status"`
	Reasons    []string          `json:"eligibility_reasons"`
	SensorMode SensorMode        `json:"sensor_mode_used"`
}
