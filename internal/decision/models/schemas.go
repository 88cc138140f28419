package models

// Schema versions are compared exactly at every boundary.
const (
	SchemaDefaultRisk      = "risk_decision_t2_v0_1"
	SchemaFraudRisk        = "risk_decision_t3_v0_1"
	SchemaPayoffRisk       = "risk_decision_t4_v0_1"
	SchemaIntake           = "application_intake_v0_1"
	SchemaEligibility      = "eligibility_agent_status_v0_1"
	SchemaFraudSignal      = "fraud_signal_v0_1"
	SchemaRulesEngineFlags = "brms_flags_v0_1"
	SchemaPolicySnapshot   = "brms_policy_snapshot_v0_1"
	SchemaFinalDecision    = "final_decision_v0_1"
	SchemaDecisionPack     = "decision_pack_v0_1"
	SchemaReport           = "reporter_output_v0_1"
)

// Model identifies one of the external model scorers.
type Model string

const (
	ModelDefault Model = "t2_default"
	ModelFraud   Model = "t3_fraud"
	ModelPayoff  Model = "t4_payoff"
)

// Models lists the scorers in pack order.
var Models = []Model{ModelDefault, ModelFraud, ModelPayoff}

// SchemaVersion returns the payload schema the scorer must emit.
func (m Model) SchemaVersion() string {
	switch m {
	case ModelDefault:
		return SchemaDefaultRisk
	case ModelFraud:
		return SchemaFraudRisk
	case ModelPayoff:
		return SchemaPayoffRisk
	default:
		return ""
	}
}

func (m Model) String() string { return string(m) }
