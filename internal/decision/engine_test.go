package decision

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"originate/internal/decision/models"
)

// =============================================================================
// Policy Engine Test Suite
// =============================================================================
// The priority pyramid has ordering and stickiness rules that are cheaper to
// pin down here than through full pipeline runs.

type EngineSuite struct {
	suite.Suite
	engine *Engine
	now    time.Time
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.engine = NewEngine(WithClock(func() time.Time { return s.now }))
}

func signal(band models.Band) *models.SignalPayload {
	return &models.SignalPayload{NormalizedBand: band}
}

func packWith(def, fraud, payoff models.Band) models.DecisionPack {
	return models.DecisionPack{
		SchemaVersion:  models.SchemaDecisionPack,
		RequestContext: models.RequestContext{RequestID: "req-1", ClientID: "client-1"},
		PolicySnapshot: models.PolicySnapshot{PolicyID: "P1", PolicyVersion: "1.0"},
		Decisions: models.Signals{
			Eligibility: &models.EligibilityResult{Status: models.EligibilityApproved, Reasons: []string{}},
			Default:     signal(def),
			Fraud:       signal(fraud),
			Payoff:      signal(payoff),
		},
	}
}

func flagsWith(g1, g2, g3 models.Gate) *models.RulesEngineFlags {
	return &models.RulesEngineFlags{
		ValidationMode: "TEST",
		Gates:          models.Gates{Gate1: g1, Gate2: g2, Gate3: g3},
	}
}

func allPass() *models.RulesEngineFlags {
	return flagsWith(models.GatePass, models.GatePass, models.GatePass)
}

func low() models.DecisionPack {
	return packWith(models.BandLow, models.BandLow, models.BandLow)
}

// =============================================================================
// Scenario Tests
// =============================================================================

func (s *EngineSuite) TestScenarios() {
	s.Run("all low with all gates passing approves", func() {
		got := s.engine.Decide(low(), allPass())
		s.Equal(models.OutcomeApprove, got.Outcome)
		s.Equal(ReasonAllClear, got.ReasonCode)
		s.Equal([]string{"rules_engine:all_pass"}, got.DominantSignals)
		s.Empty(got.Warnings)
		s.Equal("TEST", got.ValidationMode)
	})

	s.Run("fraud high vetoes despite passing gates", func() {
		got := s.engine.Decide(packWith(models.BandLow, models.BandHigh, models.BandLow), allPass())
		s.Equal(models.OutcomeReject, got.Outcome)
		s.Equal(ReasonFraudVeto, got.ReasonCode)
		s.Equal([]string{"fraud:high"}, got.DominantSignals)
	})

	s.Run("unreachable rules engine fails open to review", func() {
		got := s.engine.Decide(low(), nil)
		s.Equal(models.OutcomeReview, got.Outcome)
		s.Equal(ReasonRulesEngineUnavailable, got.ReasonCode)
		s.Equal([]string{WarnRulesEngineFailOpen}, got.Warnings)
		s.Equal([]string{"rules_engine:unavailable"}, got.DominantSignals)
		s.Nil(got.BSummary)
		s.Equal(ValidationModeNoRulesEngine, got.ValidationMode)
	})

	s.Run("blocked gate rejects with one dominant signal per gate", func() {
		got := s.engine.Decide(low(), flagsWith(models.GateBlock, models.GatePass, models.GateBlock))
		s.Equal(models.OutcomeReject, got.Outcome)
		s.Equal(ReasonRulesGateFail, got.ReasonCode)
		s.Equal([]string{"rules_engine:gate_1_block", "rules_engine:gate_3_block"}, got.DominantSignals)
	})

	s.Run("ineligible applicant rejects first", func() {
		pack := low()
		pack.Decisions.Eligibility.Status = "INELIGIBLE"
		got := s.engine.Decide(pack, flagsWith(models.GateBlock, models.GatePass, models.GatePass))
		s.Equal(models.OutcomeReject, got.Outcome)
		s.Equal(ReasonEligibilityFail, got.ReasonCode)
		s.Equal([]string{"eligibility:ineligible"}, got.DominantSignals)
	})

	s.Run("default high claims the review reason", func() {
		got := s.engine.Decide(packWith(models.BandHigh, models.BandLow, models.BandHigh), allPass())
		s.Equal(models.OutcomeReview, got.Outcome)
		s.Equal(ReasonDefaultHighRisk, got.ReasonCode)
		s.Equal([]string{"default:high"}, got.DominantSignals)
		s.Equal([]string{DocIncomeProof}, got.RequiredDocs)
		s.Contains(got.Warnings, WarnPayoffHighRisk)
	})

	s.Run("unknown gate blocks strict approve", func() {
		got := s.engine.Decide(low(), flagsWith(models.GatePass, models.GateUnknown, models.GatePass))
		s.Equal(models.OutcomeReview, got.Outcome)
		s.Equal(ReasonApproveBlockedStrict, got.ReasonCode)
		s.Equal([]string{"rules_engine:not_all_pass"}, got.DominantSignals)
	})

	s.Run("missing context flag adds warning", func() {
		flags := flagsWith(models.GateUnknown, models.GateUnknown, models.GateUnknown)
		flags.Flags = []string{models.FlagContextMissing}
		got := s.engine.Decide(low(), flags)
		s.Contains(got.Warnings, WarnRulesEngineContextMissing)
		s.Equal(models.OutcomeReview, got.Outcome)
	})
}

// =============================================================================
// Fraud Signal Routing Tests
// =============================================================================

func (s *EngineSuite) TestFraudSignalRouting() {
	withAction := func(pack models.DecisionPack, action models.FraudAction) models.DecisionPack {
		pack.Decisions.FraudDynamic = &models.FraudSignalResult{Action: action, SensorMode: models.SensorModeStub}
		return pack
	}

	s.Run("uncorroborated block is downgraded to review", func() {
		got := s.engine.Decide(withAction(low(), models.FraudActionBlock), allPass())
		s.Equal(models.OutcomeReview, got.Outcome)
		s.Equal(ReasonFraudSignalUncorroborated, got.ReasonCode)
		s.Equal([]string{"fraud_signal:block_uncorroborated"}, got.DominantSignals)
		s.Equal([]string{OverrideFraudSignalBlockDowngraded}, got.OverridesApplied)
	})

	s.Run("block corroborated by fraud model rejects", func() {
		got := s.engine.Decide(withAction(packWith(models.BandLow, models.BandHigh, models.BandLow), models.FraudActionBlock), allPass())
		s.Equal(models.OutcomeReject, got.Outcome)
		s.Equal(ReasonFraudVeto, got.ReasonCode)
	})

	s.Run("block stage rejects when corroborated", func() {
		in := input{
			signal:    &models.FraudSignalResult{Action: models.FraudActionBlock},
			fraudBand: models.BandHigh,
		}
		got := fraudSignalRouting(initialState(), in)
		s.Equal(models.OutcomeReject, got.outcome)
		s.Equal(ReasonFraudSignalBlock, got.reason)
	})

	s.Run("step up requests identity documents", func() {
		got := s.engine.Decide(withAction(low(), models.FraudActionStepUp), allPass())
		s.Equal(models.OutcomeReview, got.Outcome)
		s.Equal(ReasonFraudSignalStepUp, got.ReasonCode)
		s.Equal([]string{DocIdentityStepUp}, got.RequiredDocs)
		s.Equal("STEP_UP", got.ASummary["fraud_signal"])
	})

	s.Run("fallback sensor mode is surfaced", func() {
		pack := withAction(low(), models.FraudActionAllow)
		pack.Decisions.FraudDynamic.SensorMode = models.SensorModeLiveFallback
		got := s.engine.Decide(pack, allPass())
		s.Equal(models.OutcomeApprove, got.Outcome)
		s.Contains(got.Warnings, WarnFraudSignalFallback)
	})
}

// =============================================================================
// Property Tests
// =============================================================================

func (s *EngineSuite) TestProperties() {
	bands := []models.Band{models.BandLow, models.BandReview, models.BandHigh}
	gates := []models.Gate{models.GatePass, models.GateBlock, models.GateUnknown}
	actions := []models.FraudAction{"", models.FraudActionAllow, models.FraudActionStepUp, models.FraudActionReview, models.FraudActionBlock}

	s.Run("outcome invariants hold across the input space", func() {
		for _, def := range bands {
			for _, fraud := range bands {
				for _, payoff := range bands {
					for _, g := range gates {
						for _, action := range actions {
							pack := packWith(def, fraud, payoff)
							if action != "" {
								pack.Decisions.FraudDynamic = &models.FraudSignalResult{Action: action}
							}
							flags := flagsWith(models.GatePass, g, models.GatePass)
							got := s.engine.Decide(pack, flags)

							s.LessOrEqual(len(got.DominantSignals), MaxDominantSignals)
							if got.Outcome == models.OutcomeApprove {
								s.True(flags.Gates.AllPass())
							}
							if fraud == models.BandHigh || g == models.GateBlock {
								s.Equal(models.OutcomeReject, got.Outcome)
							}
							if action == models.FraudActionBlock && fraud != models.BandHigh && g != models.GateBlock {
								s.NotEqual(models.OutcomeReject, got.Outcome)
							}
						}
					}
				}
			}
		}
	})

	s.Run("payoff band never changes outcome or reason", func() {
		for _, def := range bands {
			for _, fraud := range bands {
				base := s.engine.Decide(packWith(def, fraud, models.BandLow), allPass())
				for _, payoff := range bands {
					got := s.engine.Decide(packWith(def, fraud, payoff), allPass())
					s.Equal(base.Outcome, got.Outcome)
					s.Equal(base.ReasonCode, got.ReasonCode)
				}
			}
		}
	})

	s.Run("reject is never downgraded by later stages", func() {
		st := initialState().escalate(models.OutcomeReject, ReasonFraudVeto)
		in := input{
			flags:       allPass(),
			signal:      &models.FraudSignalResult{Action: models.FraudActionStepUp},
			defaultBand: models.BandHigh,
			payoffBand:  models.BandHigh,
		}
		for _, apply := range pyramid {
			st = apply(st, in)
		}
		s.Equal(models.OutcomeReject, st.outcome)
		s.Equal(ReasonFraudVeto, st.reason)
		s.Empty(st.dominant)
	})

	s.Run("same input gives same decision", func() {
		pack := packWith(models.BandReview, models.BandReview, models.BandHigh)
		first := s.engine.Decide(pack, allPass())
		second := s.engine.Decide(pack, allPass())
		s.Equal(first, second)
	})

	s.Run("dominant signals are capped", func() {
		st := initialState()
		for range MaxDominantSignals + 3 {
			st = st.withDominant("x")
		}
		got := s.engine.finalize(low(), st, newInput(low(), allPass()))
		s.Len(got.DominantSignals, MaxDominantSignals)
	})
}

// =============================================================================
// Finalization Tests
// =============================================================================

func (s *EngineSuite) TestFinalize() {
	s.Run("carries policy and request metadata", func() {
		got := s.engine.Decide(low(), allPass())
		s.Equal(models.SchemaFinalDecision, got.SchemaVersion)
		s.Equal("req-1", got.RequestID)
		s.Equal("client-1", got.ClientID)
		s.Equal("P1", got.PolicyID)
		s.Equal("1.0", got.PolicyVersion)
		s.Equal(s.now, got.GeneratedAt)
	})

	s.Run("summaries mirror inputs", func() {
		got := s.engine.Decide(packWith(models.BandLow, models.BandReview, models.BandHigh), flagsWith(models.GatePass, models.GateUnknown, ""))
		s.Equal(map[string]string{
			"t2_default":  "LOW",
			"t3_fraud":    "REVIEW",
			"t4_payoff":   "HIGH",
			"eligibility": "APPROVED",
		}, got.ASummary)
		s.Equal(map[string]string{"gate_1": "PASS", "gate_2": "UNKNOWN"}, got.BSummary)
	})

	s.Run("empty lists are not nil", func() {
		got := s.engine.Decide(low(), allPass())
		s.NotNil(got.RequiredDocs)
		s.NotNil(got.Warnings)
		s.NotNil(got.OverridesApplied)
	})

	s.Run("does not mutate the pack", func() {
		pack := low()
		before := *pack.Decisions.Default
		s.engine.Decide(pack, allPass())
		s.Equal(before, *pack.Decisions.Default)
		s.Nil(pack.Decisions.FinalDecision)
	})
}

// =============================================================================
// Early Cut Tests
// =============================================================================

func (s *EngineSuite) TestEarlyCut() {
	s.Run("rejected eligibility cuts with first reason", func() {
		result := models.EligibilityResult{
			Status:  models.EligibilityRejected,
			Reasons: []string{"EA_AGE_UNDER_MIN"},
		}
		s.True(ShouldCut(&result))
		got := s.engine.EarlyCut(low(), result)
		s.Equal(models.OutcomeReject, got.Outcome)
		s.Equal("EA_AGE_UNDER_MIN", got.ReasonCode)
		s.Equal([]string{"eligibility_agent:ea_age_under_min"}, got.DominantSignals)
		s.Equal([]string{"EA_AGE_UNDER_MIN"}, got.Warnings)
		s.Equal(ValidationModeEarlyCut, got.ValidationMode)
		s.Equal(map[string]string{"eligibility_agent": "REJECTED"}, got.ASummary)
		s.Nil(got.BSummary)
	})

	s.Run("review without reasons uses fallback", func() {
		result := models.EligibilityResult{Status: models.EligibilityReviewRequired}
		got := s.engine.EarlyCut(low(), result)
		s.Equal(models.OutcomeReview, got.Outcome)
		s.Equal(ReasonEligibilityReview, got.ReasonCode)
		s.Equal([]string{"eligibility_agent:ea_review_required"}, got.DominantSignals)
	})

	s.Run("foreign reason maps to generic signal", func() {
		result := models.EligibilityResult{Status: models.EligibilityRejected, Reasons: []string{"KYC_MANUAL"}}
		got := s.engine.EarlyCut(low(), result)
		s.Equal([]string{"eligibility_agent:decision"}, got.DominantSignals)
	})

	s.Run("approved eligibility does not cut", func() {
		s.False(ShouldCut(&models.EligibilityResult{Status: models.EligibilityApproved}))
		s.False(ShouldCut(nil))
	})
}

// =============================================================================
// Replay Tests
// =============================================================================

func (s *EngineSuite) TestReplay() {
	s.Run("matching pack replays cleanly", func() {
		pack := low()
		pack.Decisions.RulesEngine = allPass()
		final := s.engine.Decide(pack, pack.Decisions.RulesEngine)
		pack.Decisions.FinalDecision = &final

		got, err := s.engine.Replay(pack)
		s.Require().NoError(err)
		s.True(got.Match)
		s.Empty(got.Diffs)
	})

	s.Run("tampered decision is reported", func() {
		pack := low()
		pack.Decisions.RulesEngine = allPass()
		final := s.engine.Decide(pack, pack.Decisions.RulesEngine)
		final.Outcome = models.OutcomeReject
		pack.Decisions.FinalDecision = &final

		got, err := s.engine.Replay(pack)
		s.Require().NoError(err)
		s.False(got.Match)
		s.Len(got.Diffs, 1)
		s.Contains(got.Diffs[0], "final_outcome")
	})

	s.Run("early cut packs replay through eligibility", func() {
		pack := low()
		pack.Decisions.Eligibility = &models.EligibilityResult{Status: models.EligibilityRejected, Reasons: []string{"EA_INCOME_BELOW_MIN"}}
		final := s.engine.EarlyCut(pack, *pack.Decisions.Eligibility)
		pack.Decisions.FinalDecision = &final

		got, err := s.engine.Replay(pack)
		s.Require().NoError(err)
		s.True(got.Match)
	})

	s.Run("pack without decision is rejected", func() {
		_, err := s.engine.Replay(low())
		s.Error(err)
	})
}
