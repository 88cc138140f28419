package decision

import (
	"strings"

	"originate/internal/decision/models"
)

// state is the accumulator threaded through the priority stages. Stages
// receive it by value and return the next value; nothing is shared.
type state struct {
	outcome      models.Outcome
	reason       string
	dominant     []string
	warnings     []string
	requiredDocs []string
	overrides    []string
}

func initialState() state {
	return state{
		outcome: models.OutcomeReview,
		reason:  ReasonGeneric,
	}
}

func (s state) rejected() bool {
	return s.outcome == models.OutcomeReject
}

// genericReview reports whether no stage has claimed the run yet.
func (s state) genericReview() bool {
	return s.outcome == models.OutcomeReview && s.reason == ReasonGeneric
}

// defaultClaimed reports whether the default-risk stage owns the reason.
func (s state) defaultClaimed() bool {
	return strings.HasPrefix(s.reason, defaultRiskPrefix)
}

// escalate applies an outcome under the escalate-only rule. REJECT is
// terminal. A REVIEW only replaces the reason while it is still generic.
func (s state) escalate(outcome models.Outcome, reason string) state {
	if s.rejected() {
		return s
	}
	switch outcome {
	case models.OutcomeReject:
		s.outcome = models.OutcomeReject
		s.reason = reason
	case models.OutcomeReview:
		s.outcome = models.OutcomeReview
		if s.reason == ReasonGeneric {
			s.reason = reason
		}
	}
	return s
}

func (s state) withDominant(signal string) state {
	s.dominant = appendCopy(s.dominant, signal)
	return s
}

func (s state) withWarning(code string) state {
	s.warnings = appendCopy(s.warnings, code)
	return s
}

func (s state) withRequiredDoc(doc string) state {
	s.requiredDocs = appendCopy(s.requiredDocs, doc)
	return s
}

func (s state) withOverride(code string) state {
	s.overrides = appendCopy(s.overrides, code)
	return s
}

// appendCopy never writes into the caller's backing array so earlier state
// values stay valid.
func appendCopy(list []string, v string) []string {
	out := make([]string, len(list), len(list)+1)
	copy(out, list)
	return append(out, v)
}
