package contract

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"originate/internal/decision/models"
)

func TestValidateAccumulatesEveryViolation(t *testing.T) {
	payload := map[string]any{
		"C": "not-a-number",
		"D": 1.0,
	}
	reqs := []Requirement{
		Require("A", KindString),
		Require("B", KindObject),
		Require("C", KindNumber),
		Require("D", KindNumber),
	}

	err := Validate(payload, reqs, "t2")
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "t2", ve.Label)
	assert.Equal(t, []string{"A", "B"}, ve.Missing)
	assert.Equal(t, []string{"C"}, ve.Malformed)
	assert.Contains(t, err.Error(), "[t2]")
	assert.Contains(t, err.Error(), "C: expected number, got string")
}

func TestValidateKinds(t *testing.T) {
	tests := []struct {
		name  string
		value any
		kind  Kind
		ok    bool
	}{
		{"string accepts empty", "", KindString, true},
		{"non-empty rejects blank", "   ", KindNonEmptyString, false},
		{"non-empty accepts text", "x", KindNonEmptyString, true},
		{"number accepts float", 0.5, KindNumber, true},
		{"number accepts json.Number", json.Number("3"), KindNumber, true},
		{"number rejects bool", true, KindNumber, false},
		{"number rejects numeric string", "3", KindNumber, false},
		{"object accepts map", map[string]any{}, KindObject, true},
		{"object rejects list", []any{}, KindObject, false},
		{"bool accepts false", false, KindBool, true},
		{"list accepts empty list", []any{}, KindList, true},
		{"present accepts null", nil, KindPresent, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(map[string]any{"f": tt.value}, []Requirement{Require("f", tt.kind)}, "kinds")
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidateRejectsNonObjectPayload(t *testing.T) {
	for _, payload := range []any{nil, "text", []any{1.0}, 3.0} {
		t.Run(fmt.Sprintf("%T", payload), func(t *testing.T) {
			err := Validate(payload, []Requirement{Require("a", KindString)}, "pack")
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, []string{"$"}, ve.Malformed)
		})
	}
}

func TestValidateNestedPaths(t *testing.T) {
	payload := map[string]any{
		"applicant": map[string]any{"age": 30.0},
		"loan":      "oops",
	}
	err := Validate(payload, []Requirement{
		Require("applicant.age", KindNumber),
		Require("applicant.income_monthly", KindNumber),
		Require("loan.loan_amount", KindNumber),
	}, "intake")

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"applicant.income_monthly", "loan.loan_amount"}, ve.Missing)
	assert.Empty(t, ve.Malformed)
}

func TestExactSchemaVersion(t *testing.T) {
	reqs := []Requirement{Exactly("meta_schema_version", "risk_decision_t2_v0_1")}

	assert.NoError(t, Validate(map[string]any{"meta_schema_version": "risk_decision_t2_v0_1"}, reqs, "t2"))

	for _, v := range []string{"risk_decision_t2_v0_2", "risk_decision_t2_v0_1_beta", "risk_decision_t2"} {
		err := Validate(map[string]any{"meta_schema_version": v}, reqs, "t2")
		var ve *ValidationError
		require.ErrorAs(t, err, &ve, v)
		assert.Equal(t, []string{"meta_schema_version"}, ve.Malformed)
	}
}

func TestDecodeSignal(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	payload := models.SignalPayload{
		SchemaVersion:  models.SchemaFraudRisk,
		GeneratedAt:    now,
		RequestContext: models.RequestContext{RequestID: "req-1", ClientID: "c-1"},
		LatencyMS:      3,
		Score:          0.7,
		Threshold:      0.6,
		RawBand:        "HIGH_FRAUD",
		NormalizedBand: models.BandHigh,
	}
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	got, err := Decode[models.SignalPayload](raw, Signal(models.ModelFraud), "t3")
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	_, err = Decode[models.SignalPayload](raw, Signal(models.ModelDefault), "t2")
	assert.True(t, IsViolation(err), "fraud payload does not satisfy the default schema")

	_, err = Decode[models.SignalPayload]([]byte("{"), Signal(models.ModelFraud), "t3")
	assert.True(t, IsViolation(err))
}

func TestValidateValueFinalDecision(t *testing.T) {
	fd := models.FinalDecision{
		SchemaVersion:    models.SchemaFinalDecision,
		GeneratedAt:      time.Now().UTC(),
		RequestContext:   models.RequestContext{RequestID: "req-1", ClientID: "c-1"},
		PolicyID:         "P1",
		PolicyVersion:    "1.0",
		ValidationMode:   "no_rules_engine",
		Outcome:          models.OutcomeReview,
		ReasonCode:       "RULES_ENGINE_UNAVAILABLE",
		DominantSignals:  []string{},
		RequiredDocs:     []string{},
		Warnings:         []string{"RULES_ENGINE_FAIL_OPEN"},
		OverridesApplied: []string{},
		ASummary:         map[string]string{"t2_default": "LOW"},
	}
	assert.NoError(t, ValidateValue(fd, FinalDecision, "final_decision"))

	fd.DominantSignals = nil
	fd.ReasonCode = ""
	err := ValidateValue(fd, FinalDecision, "final_decision")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.ElementsMatch(t, []string{"dominant_signals", "final_reason_code"}, ve.Malformed)
}

func TestIsViolation(t *testing.T) {
	wrapped := fmt.Errorf("collect t2: %w", &ValidationError{Label: "t2"})
	assert.True(t, IsViolation(wrapped))
	assert.False(t, IsViolation(errors.New("boom")))
}
