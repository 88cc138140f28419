package decision

import (
	"fmt"
	"slices"

	"originate/internal/decision/models"
	dErrors "originate/pkg/domain-errors"
	"originate/pkg/platform/strings"
)

// ReplayResult compares a stored decision with a fresh evaluation of the
// same pack.
type ReplayResult struct {
	Original models.FinalDecision `json:"original"`
	Replayed models.FinalDecision `json:"replayed"`
	Match    bool                 `json:"match"`
	Diffs    []string             `json:"diffs"`
}

// Replay re-runs the engine on a stored pack. Only outcome, reason and
// dominant signals are compared; timestamps always differ.
func (e *Engine) Replay(pack models.DecisionPack) (ReplayResult, error) {
	original := pack.Decisions.FinalDecision
	if original == nil {
		return ReplayResult{}, dErrors.New(dErrors.CodeValidation, "decision pack has no final_decision to replay")
	}

	var replayed models.FinalDecision
	if original.ValidationMode == ValidationModeEarlyCut {
		if pack.Decisions.Eligibility == nil {
			return ReplayResult{}, dErrors.New(dErrors.CodeValidation, "early-cut pack has no eligibility result")
		}
		replayed = e.EarlyCut(pack, *pack.Decisions.Eligibility)
	} else {
		replayed = e.Decide(pack, pack.Decisions.RulesEngine)
	}

	var diffs []string
	if original.Outcome != replayed.Outcome {
		diffs = append(diffs, fmt.Sprintf("final_outcome: %s != %s", original.Outcome, replayed.Outcome))
	}
	if original.ReasonCode != replayed.ReasonCode {
		diffs = append(diffs, fmt.Sprintf("final_reason_code: %s != %s", original.ReasonCode, replayed.ReasonCode))
	}
	if !slices.Equal(original.DominantSignals, replayed.DominantSignals) {
		diffs = append(diffs, fmt.Sprintf("dominant_signals: %v != %v", original.DominantSignals, replayed.DominantSignals))
	}

	return ReplayResult{
		Original: *original,
		Replayed: replayed,
		Match:    len(diffs) == 0,
		Diffs:    strings.NonNil(diffs),
	}, nil
}
