package rulesengine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"originate/internal/decision/models"
)

func TestDecodeGate(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want models.Gate
	}{
		{"nil is unknown", nil, models.GateUnknown},
		{"true passes", true, models.GatePass},
		{"false blocks", false, models.GateBlock},
		{"non-zero number passes", float64(1), models.GatePass},
		{"zero blocks", float64(0), models.GateBlock},
		{"json number", json.Number("2"), models.GatePass},
		{"pass vocabulary", " approved ", models.GatePass},
		{"eligible string", "ELIGIBLE", models.GatePass},
		{"literal unknown", "unknown", models.GateUnknown},
		{"anything else blocks", "DECLINED", models.GateBlock},
		{"empty string blocks", "", models.GateBlock},
		{"eligible object", map[string]any{"eligible": true}, models.GatePass},
		{"approved object", map[string]any{"approved": true}, models.GatePass},
		{"offer key object", map[string]any{"assigned_rate": 0.07}, models.GatePass},
		{"null offer key blocks", map[string]any{"tier": nil}, models.GateBlock},
		{"ineligible object blocks", map[string]any{"eligible": false}, models.GateBlock},
		{"list blocks", []any{"PASS"}, models.GateBlock},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecodeGate(tt.in))
		})
	}
}

func TestNormalize(t *testing.T) {
	rc := models.RequestContext{RequestID: "req-1", ClientID: "client-1"}
	snapshot := models.PolicySnapshot{PolicyID: "P1", PolicyVersion: "1.0"}

	t.Run("canonical gates object", func(t *testing.T) {
		flags, err := Normalize([]byte(`{
			"meta_schema_version": "brms_flags_v0_1",
			"meta_generated_at": "2026-02-01T10:00:00.5+00:00",
			"meta_policy_id": "P9",
			"meta_validation_mode": "ONLINE",
			"meta_latency_ms": 12,
			"gates": {"gate_1": "PASS", "gate_2": "BLOCK", "gate_3": "PASS"},
			"flags": ["X"],
			"reasons": ["r1", 3]
		}`), rc, snapshot)
		require.NoError(t, err)
		assert.Equal(t, models.Gates{Gate1: models.GatePass, Gate2: models.GateBlock, Gate3: models.GatePass}, flags.Gates)
		assert.Equal(t, "P9", flags.PolicyID)
		assert.Equal(t, "1.0", flags.PolicyVersion, "missing version comes from the snapshot")
		assert.Equal(t, "ONLINE", flags.ValidationMode)
		assert.Equal(t, int64(12), flags.LatencyMS)
		assert.Equal(t, []string{"X"}, flags.Flags)
		assert.Equal(t, []string{"r1"}, flags.Reasons)
		assert.Equal(t, rc, flags.RequestContext)
		assert.False(t, flags.GeneratedAt.IsZero())
	})

	t.Run("DMN aliases at top level", func(t *testing.T) {
		flags, err := Normalize([]byte(`{"Gate_1_Eligibility": {"eligible": true}, "Gate_2_Offer": {"tier": "A"}, "Gate_3_FinalDecision": "DECLINE"}`), rc, snapshot)
		require.NoError(t, err)
		assert.Equal(t, models.Gates{Gate1: models.GatePass, Gate2: models.GatePass, Gate3: models.GateBlock}, flags.Gates)
		assert.Equal(t, "P1", flags.PolicyID)
	})

	t.Run("gates under an envelope", func(t *testing.T) {
		for _, key := range []string{"brms_flags", "result", "data", "payload"} {
			raw := `{"` + key + `": {"gates": {"gate_1": true, "gate_2": true, "gate_3": true}}}`
			flags, err := Normalize([]byte(raw), rc, snapshot)
			require.NoError(t, err, key)
			assert.True(t, flags.Gates.AllPass(), key)
		}
	})

	t.Run("missing gate within a reported set is unknown", func(t *testing.T) {
		flags, err := Normalize([]byte(`{"gates": {"gate_1": "PASS", "gate_3": null}}`), rc, snapshot)
		require.NoError(t, err)
		assert.Equal(t, models.GateUnknown, flags.Gates.Gate2)
		assert.Equal(t, models.GateUnknown, flags.Gates.Gate3)
		assert.False(t, flags.HasFlag(models.FlagContextMissing))
	})

	t.Run("missing context is unknown and flagged", func(t *testing.T) {
		flags, err := Normalize([]byte(`{"result": {"dmn-context": null}}`), rc, snapshot)
		require.NoError(t, err)
		assert.Equal(t, models.Gates{Gate1: models.GateUnknown, Gate2: models.GateUnknown, Gate3: models.GateUnknown}, flags.Gates)
		assert.True(t, flags.HasFlag(models.FlagContextMissing))
		assert.Equal(t, unknown, flags.ValidationMode)
	})

	t.Run("flag is not duplicated", func(t *testing.T) {
		flags, err := Normalize([]byte(`{"gates": {}, "flags": ["BRMS_CONTEXT_MISSING"]}`), rc, snapshot)
		require.NoError(t, err)
		assert.Equal(t, []string{models.FlagContextMissing}, flags.Flags)
	})

	t.Run("non-object is malformed", func(t *testing.T) {
		_, err := Normalize([]byte(`["PASS"]`), rc, snapshot)
		assert.True(t, IsMalformed(err))
		_, err = Normalize([]byte(`not json`), rc, snapshot)
		assert.True(t, IsMalformed(err))
	})

	t.Run("foreign schema version is malformed", func(t *testing.T) {
		_, err := Normalize([]byte(`{"meta_schema_version": "brms_flags_v0_2", "gates": {}}`), rc, snapshot)
		assert.True(t, IsMalformed(err))
	})
}
