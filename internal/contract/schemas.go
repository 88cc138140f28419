package contract

import "originate/internal/decision/models"

func meta(schema string) []Requirement {
	return []Requirement{
		Exactly("meta_schema_version", schema),
		Require("meta_generated_at", KindNonEmptyString),
		Require("meta_request_id", KindNonEmptyString),
		Require("meta_client_id", KindNonEmptyString),
		Require("meta_latency_ms", KindNumber),
	}
}

// Signal returns the requirements for a model scorer payload.
func Signal(m models.Model) []Requirement {
	return append(meta(m.SchemaVersion()),
		Require("score", KindNumber),
		Require("threshold", KindNumber),
		Require("raw_band", KindString),
		OneOf("normalized_band", string(models.BandLow), string(models.BandReview), string(models.BandHigh)),
	)
}

// Intake is the application_intake_v0_1 contract.
var Intake = append(meta(models.SchemaIntake),
	Require("meta_application_id", KindNonEmptyString),
	Require("meta_channel", KindNonEmptyString),
	Require("meta_as_of_ts", KindNonEmptyString),
	Require("applicant", KindObject),
	Require("applicant.age", KindNumber),
	Require("applicant.income_monthly", KindNumber),
	Require("applicant.employment_status", KindString),
	Require("loan", KindObject),
	Require("loan.loan_amount", KindNumber),
	Require("loan.loan_term_months", KindNumber),
	Require("dynamic_sensors_for_eligibility", KindObject),
	Require("dynamic_sensors_for_eligibility.dyn_bureau_employment_verified", KindBool),
	Require("dynamic_sensors_for_eligibility.dyn_market_stress_score_7d", KindNumber),
)

// Eligibility is the eligibility_agent_status_v0_1 contract.
var Eligibility = append(meta(models.SchemaEligibility),
	OneOf("eligibility_status",
		string(models.EligibilityApproved),
		string(models.EligibilityRejected),
		string(models.EligibilityReviewRequired),
	),
	Require("eligibility_reasons", KindList),
)

// FraudSignal is the fraud_signal_v0_1 contract.
var FraudSignal = append(meta(models.SchemaFraudSignal),
	Require("device_behavior_score", KindNumber),
	Require("transaction_anomaly_score", KindNumber),
	Require("flag_device_suspicious", KindBool),
	Require("flag_transaction_anomalous", KindBool),
	Require("flag_fraud_signal_high", KindBool),
	OneOf("action",
		string(models.FraudActionAllow),
		string(models.FraudActionStepUp),
		string(models.FraudActionReview),
		string(models.FraudActionBlock),
	),
	Require("reason_codes", KindList),
	OneOf("sensor_mode_used",
		string(models.SensorModeStub),
		string(models.SensorModeLive),
		string(models.SensorModeLiveFallback),
	),
)

// RulesEngineFlags is the brms_flags_v0_1 contract after normalization.
var RulesEngineFlags = []Requirement{
	Exactly("meta_schema_version", models.SchemaRulesEngineFlags),
	Require("gates", KindObject),
}

// FinalDecision is the final_decision_v0_1 contract.
var FinalDecision = append(meta(models.SchemaFinalDecision),
	Require("policy_id", KindNonEmptyString),
	Require("policy_version", KindNonEmptyString),
	Require("validation_mode", KindNonEmptyString),
	OneOf("final_outcome", string(models.OutcomeApprove), string(models.OutcomeReview), string(models.OutcomeReject)),
	Require("final_reason_code", KindNonEmptyString),
	Require("dominant_signals", KindList),
	Require("required_docs", KindList),
	Require("warnings", KindList),
	Require("overrides_applied", KindList),
	Require("a_summary", KindObject),
	Require("b_summary", KindPresent),
)

// DecisionPack is the decision_pack_v0_1 contract.
var DecisionPack = append(meta(models.SchemaDecisionPack),
	Require("meta_brms_policy_snapshot", KindObject),
	Require("decisions", KindObject),
)

// Report is the reporter_output_v0_1 contract.
var Report = append(meta(models.SchemaReport),
	Require("decision_ref", KindObject),
	Require("executive_summary", KindNonEmptyString),
	Require("risk_highlights", KindList),
	Require("governance_highlights", KindList),
	Require("warnings", KindList),
	Require("trace_refs", KindObject),
)
