package eligibility

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"originate/internal/decision/models"
	"originate/internal/policy"
	"originate/internal/sensor"
)

const defaultEmploymentSpikeThr = 0.7

// Sensors is the subset of the sensor service the gate refreshes from.
type Sensors interface {
	BureauSpikeScore(ctx context.Context, q sensor.Query) (float64, error)
	MarketStress(ctx context.Context, q sensor.Query, asOf time.Time) (float64, error)
}

// Service evaluates eligibility. Without sensors it runs in STUB mode and
// trusts the dynamic values already on the intake record.
type Service struct {
	params   policy.Eligibility
	sensors  Sensors
	spikeThr float64
	timeout  time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLiveSensors refreshes employment verification and market stress from
// sensors before evaluating. Each call gets its own timeout.
func WithLiveSensors(sensors Sensors, timeout time.Duration) Option {
	return func(s *Service) {
		s.sensors = sensors
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// WithEmploymentSpikeThr sets the bureau spike score at or above which the
// applicant's employment is treated as unverified.
func WithEmploymentSpikeThr(thr float64) Option {
	return func(s *Service) {
		if thr > 0 {
			s.spikeThr = thr
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source for generated_at and latency.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates an eligibility gate with the given parameters.
func New(params policy.Eligibility, opts ...Option) *Service {
	s := &Service{
		params:   params,
		spikeThr: defaultEmploymentSpikeThr,
		timeout:  1200 * time.Millisecond,
		logger:   slog.New(slog.DiscardHandler),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Evaluate produces the eligibility result for app.
func (s *Service) Evaluate(ctx context.Context, app models.Application) (*models.EligibilityResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	started := s.now()

	mode := models.SensorModeStub
	if s.sensors != nil {
		var fellBack bool
		app.Sensors, fellBack = s.refresh(ctx, app)
		mode = models.SensorModeLive
		if fellBack {
			mode = models.SensorModeLiveFallback
		}
	}

	status, reasons := Evaluate(app, s.params)
	return &models.EligibilityResult{
		SchemaVersion:  models.SchemaEligibility,
		GeneratedAt:    s.now().UTC(),
		RequestContext: app.RequestContext,
		LatencyMS:      s.now().Sub(started).Milliseconds(),
		Status:         status,
		Reasons:        reasons,
		SensorMode:     mode,
	}, nil
}

// refresh reads both dynamic values concurrently. A failed read keeps the
// intake value and reports the fallback.
func (s *Service) refresh(ctx context.Context, app models.Application) (models.EligibilitySensors, bool) {
	out := app.Sensors
	q := sensor.Query{
		RequestID:  app.RequestID,
		ClientID:   app.ClientID,
		CustomerID: app.Applicant.CustomerID,
	}

	var (
		wg                  sync.WaitGroup
		spikeErr, stressErr error
		spike, stress       float64
	)
	wg.Go(func() {
		cctx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		spike, spikeErr = s.sensors.BureauSpikeScore(cctx, q)
	})
	wg.Go(func() {
		cctx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		stress, stressErr = s.sensors.MarketStress(cctx, q, app.AsOf)
	})
	wg.Wait()

	if spikeErr == nil {
		out.EmploymentVerified = spike < s.spikeThr
	}
	if stressErr == nil {
		out.MarketStress7d = stress
	}
	if err := errors.Join(spikeErr, stressErr); err != nil {
		s.logger.WarnContext(ctx, "eligibility sensor refresh degraded",
			"request_id", app.RequestID,
			"error", err,
		)
		return out, true
	}
	return out, false
}
