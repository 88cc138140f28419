package decision

// Final reason codes.
const (
	ReasonGeneric                   = "REVIEW_GENERIC"
	ReasonEligibilityFail           = "ELIGIBILITY_FAIL"
	ReasonRulesGateFail             = "RULES_GATE_FAIL"
	ReasonFraudVeto                 = "FRAUD_VETO"
	ReasonFraudReview               = "FRAUD_REVIEW"
	ReasonFraudSignalStepUp         = "FRAUD_SIGNAL_STEP_UP"
	ReasonFraudSignalReview         = "FRAUD_SIGNAL_REVIEW"
	ReasonFraudSignalBlock          = "FRAUD_SIGNAL_BLOCK"
	ReasonFraudSignalUncorroborated = "FRAUD_SIGNAL_BLOCK_UNCORROBORATED"
	ReasonDefaultHighRisk           = "DEFAULT_HIGH_RISK"
	ReasonDefaultReviewRisk         = "DEFAULT_REVIEW_RISK"
	ReasonRulesEngineUnavailable    = "RULES_ENGINE_UNAVAILABLE"
	ReasonAllClear                  = "ALL_CLEAR"
	ReasonApproveBlockedStrict      = "APPROVE_BLOCKED_BY_STRICT_RULE"

	// defaultRiskPrefix marks a reason claimed by the default-risk stage.
	defaultRiskPrefix = "DEFAULT_"
)

// Warning codes.
const (
	WarnRulesEngineFailOpen       = "RULES_ENGINE_FAIL_OPEN"
	WarnRulesEngineContextMissing = "RULES_ENGINE_CONTEXT_MISSING"
	WarnFraudSignalFallback       = "FRAUD_SIGNAL_SENSOR_FALLBACK"
	WarnPayoffHighRisk            = "PAYOFF_HIGH_RISK"
	WarnPayoffReviewRisk          = "PAYOFF_REVIEW_RISK"
)

// Override codes record a rule that softened a stronger signal.
const (
	OverrideFraudSignalBlockDowngraded = "FRAUD_SIGNAL_BLOCK_DOWNGRADED"
)

// Required document codes.
const (
	DocIdentityStepUp = "IDENTITY_STEP_UP"
	DocIncomeProof    = "INCOME_PROOF"
)

// Validation modes set by the engine itself.
const (
	ValidationModeNoRulesEngine = "no_rules_engine"
	ValidationModeEarlyCut      = "eligibility_agent_early_cut"
)

// MaxDominantSignals caps dominant_signals, earliest first.
const MaxDominantSignals = 5
