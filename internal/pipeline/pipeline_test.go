package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"originate/internal/decision"
	"originate/internal/decision/models"
	"originate/internal/decision/orchestrator"
	"originate/internal/decision/store"
	"originate/internal/platform/config"
)

func offlineConfig() config.Pipeline {
	cfg := config.DefaultPipeline()
	cfg.PolicyFile = "../../config/brms_policy_canonical.json"
	cfg.EligibilityFile = "../../config/eligibility_canonical.json"
	cfg.NoBRMS = true
	return cfg
}

func TestBuildOffline(t *testing.T) {
	archive := store.NewInMemoryStore()
	svc, err := Build(offlineConfig(), WithDecisionStore(archive))
	require.NoError(t, err)

	pack, err := svc.Originate(context.Background(), orchestrator.Request{RequestID: "req-offline", ClientID: "client-001"})
	require.NoError(t, err)
	require.NotNil(t, pack.Decisions.FinalDecision)
	assert.Equal(t, "P1", pack.PolicySnapshot.PolicyID)
	assert.Contains(t,
		[]string{decision.ValidationModeNoRulesEngine, decision.ValidationModeEarlyCut},
		pack.Decisions.FinalDecision.ValidationMode)

	stored, err := archive.FindByRequestID(context.Background(), "req-offline")
	require.NoError(t, err)
	assert.Equal(t, pack.Decisions.FinalDecision.ReasonCode, stored.Decisions.FinalDecision.ReasonCode)
}

func TestBuildIsDeterministic(t *testing.T) {
	outcome := func() (models.Outcome, string) {
		svc, err := Build(offlineConfig())
		require.NoError(t, err)
		pack, err := svc.Originate(context.Background(), orchestrator.Request{RequestID: "req-det", ClientID: "client-042"})
		require.NoError(t, err)
		return pack.Decisions.FinalDecision.Outcome, pack.Decisions.FinalDecision.ReasonCode
	}
	o1, r1 := outcome()
	o2, r2 := outcome()
	assert.Equal(t, o1, o2)
	assert.Equal(t, r1, r2)
}

func TestBuildWithRulesEngineStub(t *testing.T) {
	cfg := offlineConfig()
	cfg.NoBRMS = false
	cfg.BRMSStub = "../../config/brms_flags_stub.json"

	svc, err := Build(cfg)
	require.NoError(t, err)

	pack, err := svc.Originate(context.Background(), orchestrator.Request{RequestID: "req-stub", ClientID: "client-007"})
	require.NoError(t, err)
	final := pack.Decisions.FinalDecision
	if final.ValidationMode == decision.ValidationModeEarlyCut {
		t.Skip("seeded applicant was cut by eligibility")
	}
	assert.Equal(t, "STUB", final.ValidationMode)
	require.NotNil(t, pack.Decisions.RulesEngine)
	assert.True(t, pack.Decisions.RulesEngine.Gates.AllPass())
}

func TestBuildRejectsBadConfig(t *testing.T) {
	t.Run("unknown scorer mode", func(t *testing.T) {
		cfg := offlineConfig()
		cfg.ScorerMode = "grpc"
		_, err := Build(cfg)
		assert.Error(t, err)
	})

	t.Run("http scorer without base url", func(t *testing.T) {
		cfg := offlineConfig()
		cfg.ScorerMode = ScorerHTTP
		_, err := Build(cfg)
		assert.Error(t, err)
	})

	t.Run("bad double high action", func(t *testing.T) {
		cfg := offlineConfig()
		cfg.DoubleHighAction = "ALLOW"
		_, err := Build(cfg)
		assert.Error(t, err)
	})
}

func TestThresholds(t *testing.T) {
	cfg := config.Pipeline{DeviceHighThr: 0.6, DoubleHighAction: "block"}
	thr, err := Thresholds(cfg)
	require.NoError(t, err)
	assert.Equal(t, 0.6, thr.DeviceHigh)
	assert.Equal(t, 0.80, thr.TxHigh, "zero keeps the default")
	assert.Equal(t, models.FraudActionBlock, thr.DoubleHighAction)
}

func TestNewRulesEngine(t *testing.T) {
	cfg := offlineConfig()
	assert.Nil(t, NewRulesEngine(cfg, nil))

	cfg.NoBRMS = false
	assert.NotNil(t, NewRulesEngine(cfg, nil))
}
