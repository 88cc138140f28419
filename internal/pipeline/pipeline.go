// Package pipeline assembles an orchestrator from a config.Pipeline. The CLI
// and the HTTP server share it so both run the same collaborators.
package pipeline

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"originate/internal/decision/adapters"
	"originate/internal/decision/metrics"
	"originate/internal/decision/orchestrator"
	"originate/internal/decision/ports"
	"originate/internal/eligibility"
	"originate/internal/fraudsignal"
	"originate/internal/intake"
	"originate/internal/platform/config"
	"originate/internal/policy"
	"originate/internal/rulesengine"
	"originate/internal/scoring"
	"originate/internal/sensor"
	"originate/pkg/platform/circuit"
)

const (
	ModeStub = "STUB"
	ModeLive = "LIVE"

	ScorerStub    = "stub"
	ScorerHTTP    = "http"
	ScorerCommand = "command"
)

type options struct {
	store   ports.DecisionStore
	audit   ports.AuditPublisher
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// Option attaches optional infrastructure to the built service.
type Option func(*options)

func WithDecisionStore(s ports.DecisionStore) Option {
	return func(o *options) { o.store = s }
}

func WithAuditPublisher(p ports.AuditPublisher) Option {
	return func(o *options) { o.audit = p }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Build wires every collaborator named by cfg.
func Build(cfg config.Pipeline, opts ...Option) (*orchestrator.Service, error) {
	o := options{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}

	params, err := policy.LoadEligibility(cfg.EligibilityFile)
	if err != nil {
		return nil, fmt.Errorf("load eligibility parameters: %w", err)
	}

	scorer, err := NewScorer(cfg)
	if err != nil {
		return nil, err
	}

	thresholds, err := Thresholds(cfg)
	if err != nil {
		return nil, err
	}

	var sensors *sensor.Client
	sensorMode := strings.ToUpper(cfg.SensorMode)
	fraudMode := strings.ToUpper(cfg.FraudSignalMode)
	if sensorMode == ModeLive || fraudMode == ModeLive {
		sensors = sensor.NewClient(cfg.SensorBaseURL,
			sensor.WithTimeout(cfg.SensorTimeout),
			sensor.WithBreaker(circuit.New("sensor")),
			sensor.WithLogger(o.logger),
		)
	}

	eligOpts := []eligibility.Option{
		eligibility.WithEmploymentSpikeThr(cfg.EmploymentSpikeThr),
		eligibility.WithLogger(o.logger),
	}
	if sensorMode == ModeLive {
		eligOpts = append(eligOpts, eligibility.WithLiveSensors(sensors, cfg.SensorTimeout))
	}

	fraudOpts := []fraudsignal.Option{
		fraudsignal.WithThresholds(thresholds),
		fraudsignal.WithLogger(o.logger),
	}
	if fraudMode == ModeLive {
		fraudOpts = append(fraudOpts, fraudsignal.WithLiveSensors(sensors, cfg.SensorTimeout))
	}

	svcOpts := []orchestrator.Option{
		orchestrator.WithFraudSignalResolver(fraudsignal.NewResolver(fraudOpts...)),
		orchestrator.WithDefaults(cfg.Seed, cfg.Channel),
		orchestrator.WithTimeouts(orchestrator.Timeouts{
			Eligibility: cfg.EligibilityTimeout,
			Scorer:      cfg.ScorerTimeout,
			RulesEngine: cfg.BRMSTimeout,
		}),
		orchestrator.WithLogger(o.logger),
		orchestrator.WithMetrics(o.metrics),
	}
	if rules := NewRulesEngine(cfg, o.logger); rules != nil {
		svcOpts = append(svcOpts, orchestrator.WithRulesEngine(rules))
	}
	if o.store != nil {
		svcOpts = append(svcOpts, orchestrator.WithDecisionStore(o.store))
	}
	if o.audit != nil {
		svcOpts = append(svcOpts, orchestrator.WithAuditPublisher(o.audit))
	}

	return orchestrator.New(
		NewIntake(cfg, params),
		eligibility.New(params, eligOpts...),
		scorer,
		policy.NewFileSource(cfg.PolicyFile),
		svcOpts...,
	)
}

// NewIntake returns the file source when cfg names one, else the seeded
// generator.
func NewIntake(cfg config.Pipeline, params policy.Eligibility) ports.IntakeSource {
	if cfg.IntakeFile != "" {
		return intake.NewFile(cfg.IntakeFile)
	}
	return intake.NewGenerator(params.OnlyExistingCustomers)
}

// NewScorer selects the model scorer.
func NewScorer(cfg config.Pipeline) (ports.Scorer, error) {
	switch strings.ToLower(cfg.ScorerMode) {
	case "", ScorerStub:
		return scoring.NewStub(), nil
	case ScorerHTTP:
		if cfg.ScorerBaseURL == "" {
			return nil, fmt.Errorf("scorer mode http requires a base URL")
		}
		return scoring.NewHTTP(cfg.ScorerBaseURL, cfg.ScorerTimeout), nil
	case ScorerCommand:
		cmd, err := scoring.NewCommand(cfg.ScorerCommand)
		if err != nil {
			return nil, err
		}
		return cmd, nil
	default:
		return nil, fmt.Errorf("unknown scorer mode %q", cfg.ScorerMode)
	}
}

// Thresholds builds the fraud signal thresholds from cfg.
func Thresholds(cfg config.Pipeline) (fraudsignal.Thresholds, error) {
	thr := fraudsignal.DefaultThresholds()
	if cfg.DeviceHighThr > 0 {
		thr.DeviceHigh = cfg.DeviceHighThr
	}
	if cfg.TxHighThr > 0 {
		thr.TxHigh = cfg.TxHighThr
	}
	if cfg.DoubleHighAction != "" {
		action, err := fraudsignal.ParseDoubleHighAction(cfg.DoubleHighAction)
		if err != nil {
			return thr, err
		}
		thr.DoubleHighAction = action
	}
	return thr, nil
}

// NewRulesEngine returns nil when the rules engine is disabled. A stub file
// takes precedence over the bridge.
func NewRulesEngine(cfg config.Pipeline, logger *slog.Logger) ports.RulesEngine {
	switch {
	case cfg.NoBRMS:
		return nil
	case cfg.BRMSStub != "":
		return adapters.NewRulesEngineAdapter(rulesengine.NewFileStub(cfg.BRMSStub), "")
	}

	opts := []rulesengine.Option{
		rulesengine.WithBreaker(circuit.New("rules_engine")),
		rulesengine.WithLogger(logger),
	}
	if cfg.BRMSURL != "" {
		opts = append(opts, rulesengine.WithURL(cfg.BRMSURL))
	}
	if cfg.BRMSTimeout > 0 {
		opts = append(opts, rulesengine.WithHTTPClient(&http.Client{Timeout: cfg.BRMSTimeout}))
	}
	if cfg.BRMSDebugPath != "" {
		opts = append(opts, rulesengine.WithDebugSnapshot(cfg.BRMSDebugPath))
	}
	return adapters.NewRulesEngineAdapter(rulesengine.NewClient(opts...), "")
}
