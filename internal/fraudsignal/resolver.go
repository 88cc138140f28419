package fraudsignal

import (
	"context"
	"hash/fnv"
	"log/slog"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"originate/internal/contract"
	"originate/internal/decision/models"
	"originate/internal/decision/ports"
	"originate/internal/sensor"
)

// Sensors is the subset of the sensor service the resolver refreshes from.
type Sensors interface {
	DeviceBehaviorScore(ctx context.Context, q sensor.Query) (float64, error)
	TransactionAnomalyScore(ctx context.Context, q sensor.Query) (float64, error)
}

// Resolver produces fraud_signal_v0_1 payloads. Without sensors it runs in
// STUB mode.
type Resolver struct {
	thresholds Thresholds
	sensors    Sensors
	timeout    time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithThresholds overrides the derivation thresholds.
func WithThresholds(thr Thresholds) Option {
	return func(r *Resolver) {
		r.thresholds = thr
	}
}

// WithLiveSensors refreshes both scores from sensors, each under timeout.
func WithLiveSensors(sensors Sensors, timeout time.Duration) Option {
	return func(r *Resolver) {
		r.sensors = sensors
		if timeout > 0 {
			r.timeout = timeout
		}
	}
}

// WithLogger sets the resolver logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		if now != nil {
			r.now = now
		}
	}
}

// NewResolver creates a resolver with default thresholds.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		thresholds: DefaultThresholds(),
		timeout:    1200 * time.Millisecond,
		logger:     slog.New(slog.DiscardHandler),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the attached payload when it is well-formed, otherwise
// stub scores optionally refreshed from the live sensors.
func (r *Resolver) Resolve(ctx context.Context, req ports.FraudSignalRequest) (*models.FraudSignalResult, error) {
	if len(req.Attached) > 0 {
		attached, err := contract.Decode[models.FraudSignalResult](req.Attached, contract.FraudSignal, "fraud_signal")
		if err == nil {
			return &attached, nil
		}
		r.logger.WarnContext(ctx, "attached fraud signal is malformed, resolving instead",
			"request_id", req.RequestID,
			"error", err,
		)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	started := r.now()
	device, tx := StubScores(req.ClientID, req.Seed)
	mode := models.SensorModeStub
	if r.sensors != nil {
		var fellBack bool
		device, tx, fellBack = r.refresh(ctx, req, device, tx)
		mode = models.SensorModeLive
		if fellBack {
			mode = models.SensorModeLiveFallback
		}
	}

	d := Derive(device, tx, r.thresholds)
	return &models.FraudSignalResult{
		SchemaVersion:        models.SchemaFraudSignal,
		GeneratedAt:          r.now().UTC(),
		RequestContext:       req.RequestContext,
		LatencyMS:            r.now().Sub(started).Milliseconds(),
		DeviceScore:          device,
		TransactionScore:     tx,
		DeviceHighThr:        r.thresholds.DeviceHigh,
		TxHighThr:            r.thresholds.TxHigh,
		DeviceSuspicious:     d.DeviceSuspicious,
		TransactionAnomalous: d.TransactionAnomalous,
		FraudSignalHigh:      d.FraudSignalHigh,
		Action:               d.Action,
		ReasonCodes:          d.ReasonCodes,
		SensorMode:           mode,
	}, nil
}

// refresh replaces each stub score with its live value. A failed call keeps
// only that score at its stub value.
func (r *Resolver) refresh(ctx context.Context, req ports.FraudSignalRequest, device, tx float64) (float64, float64, bool) {
	q := sensor.Query{RequestID: req.RequestID, ClientID: req.ClientID, Seed: &req.Seed}

	var (
		wg                 sync.WaitGroup
		liveDevice, liveTx float64
		deviceErr, txErr   error
	)
	wg.Go(func() {
		cctx, cancel := context.WithTimeout(ctx, r.timeout)
		defer cancel()
		liveDevice, deviceErr = r.sensors.DeviceBehaviorScore(cctx, q)
	})
	wg.Go(func() {
		cctx, cancel := context.WithTimeout(ctx, r.timeout)
		defer cancel()
		liveTx, txErr = r.sensors.TransactionAnomalyScore(cctx, q)
	})
	wg.Wait()

	fellBack := false
	if deviceErr != nil {
		fellBack = true
		r.logger.WarnContext(ctx, "device behavior sensor failed, using stub score",
			"request_id", req.RequestID, "error", deviceErr)
	} else {
		device = liveDevice
	}
	if txErr != nil {
		fellBack = true
		r.logger.WarnContext(ctx, "transaction anomaly sensor failed, using stub score",
			"request_id", req.RequestID, "error", txErr)
	} else {
		tx = liveTx
	}
	return device, tx, fellBack
}

// StubScores returns deterministic baseline scores in [0,1) for a client and
// seed, rounded to four decimals.
func StubScores(clientID string, seed int64) (device, tx float64) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(clientID))
	rng := rand.New(rand.NewPCG(uint64(seed), h.Sum64()))
	return round4(rng.Float64()), round4(rng.Float64())
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}
