package bridge

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"originate/internal/decision/models"
	"originate/internal/rulesengine"
)

const unknown = "unknown"

type dmnEvaluation struct {
	Result struct {
		EvaluationResult struct {
			Context json.RawMessage `json:"dmn-context"`
		} `json:"dmn-evaluation-result"`
	} `json:"result"`
}

// ToFlags converts a DMN evaluation into brms_flags_v0_1. A missing or null
// DMN context yields UNKNOWN gates with BRMS_CONTEXT_MISSING rather than an
// error.
func ToFlags(raw []byte, rc models.RequestContext, now time.Time) (*models.RulesEngineFlags, error) {
	var eval dmnEvaluation
	if err := json.Unmarshal(raw, &eval); err != nil {
		return nil, fmt.Errorf("decode DMN evaluation: %w", err)
	}

	flags := &models.RulesEngineFlags{
		SchemaVersion:  models.SchemaRulesEngineFlags,
		GeneratedAt:    now.UTC(),
		RequestContext: rc,
		PolicyID:       unknown,
		PolicyVersion:  unknown,
		ValidationMode: unknown,
		Flags:          []string{},
		Reasons:        []string{},
	}

	var ctx map[string]any
	dec := json.NewDecoder(bytes.NewReader(eval.Result.EvaluationResult.Context))
	dec.UseNumber()
	if len(eval.Result.EvaluationResult.Context) == 0 || dec.Decode(&ctx) != nil || len(ctx) == 0 {
		flags.Gates = models.Gates{Gate1: models.GateUnknown, Gate2: models.GateUnknown, Gate3: models.GateUnknown}
		flags.Flags = []string{models.FlagContextMissing}
		flags.Reasons = []string{"DMN context missing or null; gates reported UNKNOWN"}
		return flags, nil
	}

	flags.Gates, _ = rulesengine.GatesFrom(ctx)
	if policy, ok := ctx["Context"].(map[string]any); ok {
		flags.PolicyID = stringOr(policy["policy_id"], unknown)
		flags.PolicyVersion = stringOr(policy["policy_version"], unknown)
		flags.ValidationMode = stringOr(policy["validation_mode"], unknown)
	}
	return flags, nil
}

func stringOr(v any, fallback string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}
