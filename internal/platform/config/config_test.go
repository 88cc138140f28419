package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg := FromEnv()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "STUB", cfg.Pipeline.FraudSignalMode)
	assert.InDelta(t, 0.80, cfg.Pipeline.DeviceHighThr, 1e-9)
	assert.Equal(t, "REVIEW", cfg.Pipeline.DoubleHighAction)
	assert.Empty(t, cfg.Redis.URL)
	assert.Nil(t, cfg.Kafka.Brokers)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("DECISION_ADDR", ":9999")
	t.Setenv("FRAUD_SIGNAL_MODE", "live")
	t.Setenv("FRAUD_TX_HIGH_THR", "0.65")
	t.Setenv("BRMS_TIMEOUT", "250ms")
	t.Setenv("NO_BRMS", "true")
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092,")
	t.Setenv("FRAUD_DEVICE_HIGH_THR", "not-a-number")

	cfg := FromEnv()

	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, "LIVE", cfg.Pipeline.FraudSignalMode)
	assert.InDelta(t, 0.65, cfg.Pipeline.TxHighThr, 1e-9)
	assert.InDelta(t, 0.80, cfg.Pipeline.DeviceHighThr, 1e-9, "invalid values fall back")
	assert.Equal(t, 250*time.Millisecond, cfg.Pipeline.BRMSTimeout)
	assert.True(t, cfg.Pipeline.NoBRMS)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.Brokers)
}

func TestBridgeFromEnv(t *testing.T) {
	t.Setenv("KIE_USER", "svc")
	cfg := BridgeFromEnv()
	assert.Equal(t, ":8090", cfg.Addr)
	assert.Equal(t, "svc", cfg.KIEUser)
	assert.Equal(t, 15*time.Second, cfg.KIETimeout)
}
