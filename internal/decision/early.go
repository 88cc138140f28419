package decision

import (
	"strings"

	"originate/internal/decision/models"
)

// Early-cut fallback reasons when eligibility reports no reason.
const (
	ReasonEligibilityRejected = "EA_REJECTED"
	ReasonEligibilityReview   = "EA_REVIEW_REQUIRED"
)

// ShouldCut reports whether eligibility short-circuits the pipeline.
func ShouldCut(result *models.EligibilityResult) bool {
	if result == nil {
		return false
	}
	return result.Status == models.EligibilityRejected || result.Status == models.EligibilityReviewRequired
}

// EarlyCut builds the terminal decision emitted when eligibility rejects or
// requires review. It is derived from eligibility alone.
func (e *Engine) EarlyCut(pack models.DecisionPack, result models.EligibilityResult) models.FinalDecision {
	outcome := models.OutcomeReview
	reason := ReasonEligibilityReview
	if result.Status == models.EligibilityRejected {
		outcome = models.OutcomeReject
		reason = ReasonEligibilityRejected
	}
	if len(result.Reasons) > 0 {
		reason = result.Reasons[0]
	}

	return models.FinalDecision{
		SchemaVersion:    models.SchemaFinalDecision,
		GeneratedAt:      e.now().UTC(),
		RequestContext:   pack.RequestContext,
		LatencyMS:        pack.LatencyMS,
		PolicyID:         pack.PolicySnapshot.PolicyID,
		PolicyVersion:    pack.PolicySnapshot.PolicyVersion,
		ValidationMode:   ValidationModeEarlyCut,
		Outcome:          outcome,
		ReasonCode:       reason,
		DominantSignals:  []string{eligibilitySignal(reason)},
		RequiredDocs:     []string{},
		Warnings:         append([]string{}, result.Reasons...),
		OverridesApplied: []string{},
		ASummary:         map[string]string{"eligibility_agent": string(result.Status)},
		BSummary:         nil,
	}
}

func eligibilitySignal(reason string) string {
	if strings.HasPrefix(reason, "EA_") {
		return "eligibility_agent:" + strings.ToLower(reason)
	}
	return "eligibility_agent:decision"
}
