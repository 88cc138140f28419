package sensor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"originate/pkg/platform/circuit"
	"originate/pkg/platform/sentinel"
	"originate/pkg/platform/upstream"
)

func TestParseScoreResponse(t *testing.T) {
	t.Run("reads score key", func(t *testing.T) {
		v, err := parseScoreResponse(SourceDeviceBehavior, 200, []byte(`{"score": 0.42}`))
		require.NoError(t, err)
		assert.InDelta(t, 0.42, v, 1e-9)
	})

	t.Run("reads market stress key", func(t *testing.T) {
		v, err := parseScoreResponse(SourceMarketSnapshot, 200, []byte(`{"market_stress_score_7d": 0.9}`))
		require.NoError(t, err)
		assert.InDelta(t, 0.9, v, 1e-9)
	})

	t.Run("server error is an outage", func(t *testing.T) {
		_, err := parseScoreResponse(SourceBureauSpike, 503, nil)
		assert.Equal(t, upstream.CategoryOutage, upstream.CategoryOf(err))
	})

	t.Run("missing score is bad data", func(t *testing.T) {
		_, err := parseScoreResponse(SourceBureauSpike, 200, []byte(`{"other": 1}`))
		assert.Equal(t, upstream.CategoryBadData, upstream.CategoryOf(err))
	})

	t.Run("out of range score is bad data", func(t *testing.T) {
		_, err := parseScoreResponse(SourceBureauSpike, 200, []byte(`{"score": 1.5}`))
		assert.Equal(t, upstream.CategoryBadData, upstream.CategoryOf(err))
	})

	t.Run("malformed JSON is bad data", func(t *testing.T) {
		_, err := parseScoreResponse(SourceBureauSpike, 200, []byte(`{`))
		assert.Equal(t, upstream.CategoryBadData, upstream.CategoryOf(err))
	})
}

func TestClient(t *testing.T) {
	t.Run("transaction anomaly sends lookback window", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/sensor/transaction_anomaly_score", r.URL.Path)
			assert.Equal(t, "30", r.URL.Query().Get("lookback_days"))
			assert.Equal(t, "client-1", r.URL.Query().Get("client_id"))
			_, _ = w.Write([]byte(`{"score": 0.3}`))
		}))
		defer srv.Close()

		v, err := NewClient(srv.URL).TransactionAnomalyScore(context.Background(), Query{ClientID: "client-1"})
		require.NoError(t, err)
		assert.InDelta(t, 0.3, v, 1e-9)
	})

	t.Run("market snapshot retries without as_of on 400", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			assert.Equal(t, "req-1", r.URL.Query().Get("request_id"))
			if r.URL.Query().Has("as_of") {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			_, _ = w.Write([]byte(`{"market_stress_score_7d": 0.12}`))
		}))
		defer srv.Close()

		v, err := NewClient(srv.URL).MarketStress(context.Background(), Query{RequestID: "req-1"}, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.InDelta(t, 0.12, v, 1e-9)
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("market snapshot does not retry other failures", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL).MarketStress(context.Background(), Query{}, time.Now())
		assert.Error(t, err)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("slow sensor times out", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			time.Sleep(200 * time.Millisecond)
			_, _ = w.Write([]byte(`{"score": 0.1}`))
		}))
		defer srv.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		_, err := NewClient(srv.URL).DeviceBehaviorScore(ctx, Query{ClientID: "client-1"})
		assert.Equal(t, upstream.CategoryTimeout, upstream.CategoryOf(err))
	})

	t.Run("open circuit skips the network", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		breaker := circuit.New("sensor", circuit.WithFailureThreshold(2), circuit.WithCooldown(time.Hour))
		client := NewClient(srv.URL, WithBreaker(breaker))
		for range 2 {
			_, err := client.BureauSpikeScore(context.Background(), Query{CustomerID: "cust-1"})
			assert.Error(t, err)
		}
		_, err := client.BureauSpikeScore(context.Background(), Query{CustomerID: "cust-1"})
		assert.Equal(t, upstream.CategoryCircuitOpen, upstream.CategoryOf(err))
		assert.ErrorIs(t, err, sentinel.ErrUnavailable)
		assert.Equal(t, int32(2), calls.Load())
	})
}
