package decision

import (
	"strings"

	"originate/internal/decision/models"
)

// input is the read-only view of a pack the stages evaluate.
type input struct {
	eligibility *models.EligibilityResult
	flags       *models.RulesEngineFlags
	signal      *models.FraudSignalResult
	defaultBand models.Band
	fraudBand   models.Band
	payoffBand  models.Band
}

func newInput(pack models.DecisionPack, flags *models.RulesEngineFlags) input {
	d := pack.Decisions
	return input{
		eligibility: d.Eligibility,
		flags:       flags,
		signal:      d.FraudDynamic,
		defaultBand: d.Default.Band(),
		fraudBand:   d.Fraud.Band(),
		payoffBand:  d.Payoff.Band(),
	}
}

func (in input) gateFailed() bool {
	return in.flags != nil && len(in.flags.Gates.Blocked()) > 0
}

// stage is one level of the priority pyramid.
type stage func(state, input) state

// pyramid is evaluated top to bottom. Order is part of the decision version.
var pyramid = []stage{
	eligibilityVeto,
	rulesEngineVeto,
	fraudModel,
	fraudSignalRouting,
	defaultRisk,
	payoffAdvisory,
	strictApprove,
}

var eligibilityVetoStatuses = map[string]struct{}{
	"INELIGIBLE": {},
	"REJECT":     {},
	"REJECTED":   {},
	"BLOCK":      {},
}

func eligibilityVeto(s state, in input) state {
	if in.eligibility == nil {
		return s
	}
	status := strings.ToUpper(strings.TrimSpace(string(in.eligibility.Status)))
	if _, veto := eligibilityVetoStatuses[status]; !veto {
		return s
	}
	return s.escalate(models.OutcomeReject, ReasonEligibilityFail).
		withDominant("eligibility:" + strings.ToLower(status))
}

func rulesEngineVeto(s state, in input) state {
	if in.flags == nil {
		return s.withWarning(WarnRulesEngineFailOpen)
	}
	if in.flags.HasFlag(models.FlagContextMissing) {
		s = s.withWarning(WarnRulesEngineContextMissing)
	}
	if s.rejected() {
		return s
	}
	blocked := in.flags.Gates.Blocked()
	if len(blocked) == 0 {
		return s
	}
	s = s.escalate(models.OutcomeReject, ReasonRulesGateFail)
	for _, gate := range blocked {
		s = s.withDominant("rules_engine:" + gate + "_block")
	}
	return s
}

func fraudModel(s state, in input) state {
	if s.rejected() {
		return s
	}
	switch in.fraudBand {
	case models.BandHigh:
		return s.escalate(models.OutcomeReject, ReasonFraudVeto).withDominant("fraud:high")
	case models.BandReview:
		return s.escalate(models.OutcomeReview, ReasonFraudReview).withDominant("fraud:review")
	}
	return s
}

// fraudSignalRouting honors a telemetry BLOCK only when the fraud model is
// HIGH or a rules-engine gate failed; otherwise it is downgraded to REVIEW.
func fraudSignalRouting(s state, in input) state {
	sig := in.signal
	if sig == nil {
		return s
	}
	if sig.SensorMode == models.SensorModeLiveFallback {
		s = s.withWarning(WarnFraudSignalFallback)
	}
	if s.rejected() {
		return s
	}
	switch sig.Action {
	case models.FraudActionStepUp:
		return s.escalate(models.OutcomeReview, ReasonFraudSignalStepUp).
			withDominant("fraud_signal:step_up").
			withRequiredDoc(DocIdentityStepUp)
	case models.FraudActionReview:
		return s.escalate(models.OutcomeReview, ReasonFraudSignalReview).
			withDominant("fraud_signal:review")
	case models.FraudActionBlock:
		if in.fraudBand == models.BandHigh || in.gateFailed() {
			return s.escalate(models.OutcomeReject, ReasonFraudSignalBlock).
				withDominant("fraud_signal:block")
		}
		return s.escalate(models.OutcomeReview, ReasonFraudSignalUncorroborated).
			withDominant("fraud_signal:block_uncorroborated").
			withOverride(OverrideFraudSignalBlockDowngraded)
	}
	return s
}

func defaultRisk(s state, in input) state {
	if s.rejected() {
		return s
	}
	switch in.defaultBand {
	case models.BandHigh:
		return s.escalate(models.OutcomeReview, ReasonDefaultHighRisk).
			withDominant("default:high").
			withRequiredDoc(DocIncomeProof)
	case models.BandReview:
		return s.escalate(models.OutcomeReview, ReasonDefaultReviewRisk).
			withDominant("default:review").
			withRequiredDoc(DocIncomeProof)
	}
	return s
}

// payoffAdvisory never touches the outcome or the reason.
func payoffAdvisory(s state, in input) state {
	var tag string
	switch in.payoffBand {
	case models.BandHigh:
		s = s.withWarning(WarnPayoffHighRisk)
		tag = "payoff:high"
	case models.BandReview:
		s = s.withWarning(WarnPayoffReviewRisk)
		tag = "payoff:review"
	default:
		return s
	}
	if len(s.dominant) == 0 && !s.defaultClaimed() && !s.rejected() {
		s = s.withDominant(tag)
	}
	return s
}

func strictApprove(s state, in input) state {
	if !s.genericReview() || s.defaultClaimed() {
		return s
	}
	switch {
	case in.flags == nil:
		return s.escalate(models.OutcomeReview, ReasonRulesEngineUnavailable).
			withDominant("rules_engine:unavailable").
			withWarning(WarnRulesEngineFailOpen)
	case in.flags.Gates.AllPass():
		s.outcome = models.OutcomeApprove
		s.reason = ReasonAllClear
		return s.withDominant("rules_engine:all_pass")
	default:
		return s.escalate(models.OutcomeReview, ReasonApproveBlockedStrict).
			withDominant("rules_engine:not_all_pass")
	}
}
