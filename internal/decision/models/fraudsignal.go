package models

import "time"

// FraudAction is the routing action derived from dynamic fraud telemetry.
type FraudAction string

const (
	FraudActionAllow  FraudAction = "ALLOW"
	FraudActionStepUp FraudAction = "STEP_UP"
	FraudActionReview FraudAction = "REVIEW"
	FraudActionBlock  FraudAction = "BLOCK"
)

// FraudSignalResult is the fraud_signal_v0_1 payload.
type FraudSignalResult struct {
	SchemaVersion string    `json:"meta_schema_version"`
	GeneratedAt   time.Time `json:"meta_generated_at"`
	RequestContext
	LatencyMS int64 `json:"meta_latency_ms"`

	DeviceScore      float64 `json:"device_behavior_score"`
	TransactionScore float64 `json:"transaction_anomaly_score"`
	DeviceHighThr    float64 `json:"thr_device_high"`
	TxHighThr        float64 `json:"thr_tx_high"`

	DeviceSuspicious     bool `json:"flag_device_suspicious"`
	TransactionAnomalous bool `json:"flag_transaction_anomalous"`
	FraudSignalHigh      bool `json:"flag_fraud_signal_high"`

	Action      FraudAction `json:"action"`
	ReasonCodes []string    `json:"reason_codes"`
	SensorMode  SensorMode  `json:"sensor_mode_used"`
}
