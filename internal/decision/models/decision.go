package models

import "time"

// Outcome is the final credit decision.
type Outcome string

const (
	OutcomeApprove Outcome = "APPROVE"
	OutcomeReview  Outcome = "REVIEW"
	OutcomeReject  Outcome = "REJECT"
)

// FinalDecision is the final_decision_v0_1 payload.
type FinalDecision struct {
	SchemaVersion string    `json:"meta_schema_version"`
	GeneratedAt   time.Time `json:"meta_generated_at"`
	RequestContext
	LatencyMS int64 `json:"meta_latency_ms"`

	PolicyID       string `json:"policy_id"`
	PolicyVersion  string `json:"policy_version"`
	ValidationMode string `json:"validation_mode"`

	Outcome          Outcome  `json:"final_outcome"`
	ReasonCode       string   `json:"final_reason_code"`
	DominantSignals  []string `json:"dominant_signals"`
	RequiredDocs     []string `json:"required_docs"`
	Warnings         []string `json:"warnings"`
	OverridesApplied []string `json:"overrides_applied"`

	ASummary map[string]string `json:"a_summary"`
	// BSummary is null when the rules engine was unavailable.
	BSummary map[string]string `json:"b_summary"`
}

// Signals groups every payload folded into a pack.
type Signals struct {
	Intake        *Application       `json:"workflow_intake,omitempty"`
	Eligibility   *EligibilityResult `json:"eligibility,omitempty"`
	Default       *SignalPayload     `json:"t2_default,omitempty"`
	Fraud         *SignalPayload     `json:"t3_fraud,omitempty"`
	Payoff        *SignalPayload     `json:"t4_payoff,omitempty"`
	FraudDynamic  *FraudSignalResult `json:"fraud_signal,omitempty"`
	RulesEngine   *RulesEngineFlags  `json:"brms_flags,omitempty"`
	FinalDecision *FinalDecision     `json:"final_decision,omitempty"`
}

// Signal returns the scorer payload for m.
func (s Signals) Signal(m Model) *SignalPayload {
	switch m {
	case ModelDefault:
		return s.Default
	case ModelFraud:
		return s.Fraud
	case ModelPayoff:
		return s.Payoff
	default:
		return nil
	}
}

// SetSignal stores the scorer payload for m.
func (s *Signals) SetSignal(m Model, p *SignalPayload) {
	switch m {
	case ModelDefault:
		s.Default = p
	case ModelFraud:
		s.Fraud = p
	case ModelPayoff:
		s.Payoff = p
	}
}

// DecisionPack is the decision_pack_v0_1 record of one pipeline run.
type DecisionPack struct {
	SchemaVersion string    `json:"meta_schema_version"`
	GeneratedAt   time.Time `json:"meta_generated_at"`
	RequestContext
	LatencyMS      int64          `json:"meta_latency_ms"`
	PolicySnapshot PolicySnapshot `json:"meta_brms_policy_snapshot"`
	Decisions      Signals        `json:"decisions"`
}
