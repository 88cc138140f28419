package decision

import (
	"time"

	"originate/internal/decision/models"
	"originate/pkg/platform/strings"
)

// Engine is the policy decision engine. It holds no mutable state and is
// safe for concurrent use.
type Engine struct {
	now func() time.Time
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithClock overrides the clock used for meta_generated_at.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates an Engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Decide merges the signals of pack and the rules-engine flags into a final
// decision. flags may be nil when the engine was unavailable. Decide never
// mutates pack and is deterministic apart from meta_generated_at.
func (e *Engine) Decide(pack models.DecisionPack, flags *models.RulesEngineFlags) models.FinalDecision {
	in := newInput(pack, flags)
	s := initialState()
	for _, apply := range pyramid {
		s = apply(s, in)
	}
	return e.finalize(pack, s, in)
}

func (e *Engine) finalize(pack models.DecisionPack, s state, in input) models.FinalDecision {
	validationMode := ValidationModeNoRulesEngine
	var bSummary map[string]string
	if in.flags != nil {
		bSummary = in.flags.Gates.Summary()
		if in.flags.ValidationMode != "" {
			validationMode = in.flags.ValidationMode
		}
	}

	return models.FinalDecision{
		SchemaVersion:    models.SchemaFinalDecision,
		GeneratedAt:      e.now().UTC(),
		RequestContext:   pack.RequestContext,
		LatencyMS:        pack.LatencyMS,
		PolicyID:         pack.PolicySnapshot.PolicyID,
		PolicyVersion:    pack.PolicySnapshot.PolicyVersion,
		ValidationMode:   validationMode,
		Outcome:          s.outcome,
		ReasonCode:       s.reason,
		DominantSignals:  strings.Head(s.dominant, MaxDominantSignals),
		RequiredDocs:     strings.DedupeAndTrim(s.requiredDocs),
		Warnings:         strings.DedupeAndTrim(s.warnings),
		OverridesApplied: strings.DedupeAndTrim(s.overrides),
		ASummary:         summarize(in),
		BSummary:         bSummary,
	}
}

func summarize(in input) map[string]string {
	out := map[string]string{}
	if in.defaultBand != "" {
		out[string(models.ModelDefault)] = string(in.defaultBand)
	}
	if in.fraudBand != "" {
		out[string(models.ModelFraud)] = string(in.fraudBand)
	}
	if in.payoffBand != "" {
		out[string(models.ModelPayoff)] = string(in.payoffBand)
	}
	if in.signal != nil {
		out["fraud_signal"] = string(in.signal.Action)
	}
	if in.eligibility != nil {
		out["eligibility"] = string(in.eligibility.Status)
	}
	return out
}
