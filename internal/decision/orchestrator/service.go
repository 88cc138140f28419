// Package orchestrator runs one decision pipeline: intake, eligibility,
// concurrent signal collection, the policy engine and final validation.
package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"originate/internal/contract"
	"originate/internal/decision"
	"originate/internal/decision/metrics"
	"originate/internal/decision/models"
	"originate/internal/decision/ports"
	dErrors "originate/pkg/domain-errors"
	"originate/pkg/platform/audit"
	"originate/pkg/platform/sentinel"
)

const tracerName = "originate/internal/decision/orchestrator"

// Request starts one pipeline run.
type Request struct {
	RequestID     string
	ClientID      string
	Seed          *int64
	Channel       string
	ApplicationID string
	AsOf          time.Time
	// FraudSignal is an optional pre-attached fraud_signal payload.
	FraudSignal json.RawMessage
}

// Timeouts bound each collector independently.
type Timeouts struct {
	Eligibility time.Duration
	Scorer      time.Duration
	FraudSignal time.Duration
	RulesEngine time.Duration
}

// DefaultTimeouts returns the per-collector defaults.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Eligibility: 5 * time.Second,
		Scorer:      5 * time.Second,
		FraudSignal: 3 * time.Second,
		RulesEngine: 10 * time.Second,
	}
}

// Service orchestrates decision runs. Required collaborators are passed to
// New; optional ones are attached with options.
type Service struct {
	intake      ports.IntakeSource
	eligibility ports.EligibilityGate
	scorer      ports.Scorer
	policy      ports.PolicySource

	fraud ports.FraudSignalResolver
	rules ports.RulesEngine
	store ports.DecisionStore
	audit ports.AuditPublisher

	engine   *decision.Engine
	metrics  *metrics.Metrics
	logger   *slog.Logger
	tracer   trace.Tracer
	timeouts Timeouts
	seed     int64
	channel  string
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithFraudSignalResolver attaches the optional dynamic fraud collector.
func WithFraudSignalResolver(r ports.FraudSignalResolver) Option {
	return func(s *Service) {
		s.fraud = r
	}
}

// WithRulesEngine attaches the optional rules-engine collector. Without it
// every run is decided as if the engine were unavailable.
func WithRulesEngine(r ports.RulesEngine) Option {
	return func(s *Service) {
		s.rules = r
	}
}

// WithDecisionStore archives emitted packs.
func WithDecisionStore(store ports.DecisionStore) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithAuditPublisher emits an audit event per decision.
func WithAuditPublisher(p ports.AuditPublisher) Option {
	return func(s *Service) {
		s.audit = p
	}
}

// WithEngine overrides the policy engine.
func WithEngine(e *decision.Engine) Option {
	return func(s *Service) {
		if e != nil {
			s.engine = e
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTracer sets the tracer used for pipeline spans.
func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithTimeouts overrides collector timeouts. Zero values keep the default.
func WithTimeouts(t Timeouts) Option {
	return func(s *Service) {
		if t.Eligibility > 0 {
			s.timeouts.Eligibility = t.Eligibility
		}
		if t.Scorer > 0 {
			s.timeouts.Scorer = t.Scorer
		}
		if t.FraudSignal > 0 {
			s.timeouts.FraudSignal = t.FraudSignal
		}
		if t.RulesEngine > 0 {
			s.timeouts.RulesEngine = t.RulesEngine
		}
	}
}

// WithDefaults sets the seed and channel used when a request omits them.
func WithDefaults(seed int64, channel string) Option {
	return func(s *Service) {
		s.seed = seed
		if channel != "" {
			s.channel = channel
		}
	}
}

// WithClock overrides the clock for generated timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates an orchestrator.
func New(
	intake ports.IntakeSource,
	eligibility ports.EligibilityGate,
	scorer ports.Scorer,
	policy ports.PolicySource,
	opts ...Option,
) (*Service, error) {
	if intake == nil {
		return nil, errors.New("intake source is required")
	}
	if eligibility == nil {
		return nil, errors.New("eligibility gate is required")
	}
	if scorer == nil {
		return nil, errors.New("scorer is required")
	}
	if policy == nil {
		return nil, errors.New("policy source is required")
	}

	s := &Service{
		intake:      intake,
		eligibility: eligibility,
		scorer:      scorer,
		policy:      policy,
		engine:      decision.NewEngine(),
		logger:      slog.New(slog.DiscardHandler),
		tracer:      otel.Tracer(tracerName),
		timeouts:    DefaultTimeouts(),
		seed:        42,
		channel:     "web",
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Originate runs the pipeline and returns the sealed decision pack.
func (s *Service) Originate(ctx context.Context, req Request) (*models.DecisionPack, error) {
	start := time.Now()
	if strings.TrimSpace(req.ClientID) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "client_id is required")
	}
	rc := models.RequestContext{RequestID: req.RequestID, ClientID: req.ClientID}
	if rc.RequestID == "" {
		rc.RequestID = uuid.NewString()
	}

	ctx, span := s.tracer.Start(ctx, "decision.originate", trace.WithAttributes(
		attribute.String("request_id", rc.RequestID),
		attribute.String("client_id", rc.ClientID),
	))
	defer span.End()

	pack, err := s.run(ctx, rc, req, start)
	s.metrics.ObservePipelineLatency(time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.ErrorContext(ctx, "decision run failed",
			"request_id", rc.RequestID,
			"client_id", rc.ClientID,
			"error", err,
		)
		return nil, err
	}

	final := pack.Decisions.FinalDecision
	span.SetAttributes(
		attribute.String("final_outcome", string(final.Outcome)),
		attribute.String("final_reason_code", final.ReasonCode),
	)
	s.metrics.IncrementOutcome(string(final.Outcome), final.ReasonCode)
	s.archive(ctx, pack)

	s.logger.InfoContext(ctx, "decision originated",
		"request_id", rc.RequestID,
		"client_id", rc.ClientID,
		"outcome", final.Outcome,
		"reason", final.ReasonCode,
		"validation_mode", final.ValidationMode,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return pack, nil
}

func (s *Service) run(ctx context.Context, rc models.RequestContext, req Request, start time.Time) (*models.DecisionPack, error) {
	seed := s.seed
	if req.Seed != nil {
		seed = *req.Seed
	}

	app, err := s.collectIntake(ctx, rc, seed, req)
	if err != nil {
		return nil, err
	}

	elig, err := s.collectEligibility(ctx, *app)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.policy.Snapshot(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load policy snapshot")
	}

	pack := &models.DecisionPack{
		SchemaVersion:  models.SchemaDecisionPack,
		RequestContext: rc,
		PolicySnapshot: snapshot,
		Decisions: models.Signals{
			Intake:      app,
			Eligibility: elig,
		},
	}

	if decision.ShouldCut(elig) {
		s.logger.InfoContext(ctx, "eligibility short-circuited run",
			"request_id", rc.RequestID,
			"eligibility_status", elig.Status,
			"reasons", elig.Reasons,
		)
		pack.LatencyMS = time.Since(start).Milliseconds()
		return s.seal(ctx, pack, s.engine.EarlyCut(*pack, *elig))
	}

	if err := s.gather(ctx, pack, seed, req.FraudSignal); err != nil {
		return nil, err
	}
	pack.LatencyMS = time.Since(start).Milliseconds()

	_, span := s.tracer.Start(ctx, "decision.engine")
	final := s.engine.Decide(*pack, pack.Decisions.RulesEngine)
	span.End()

	return s.seal(ctx, pack, final)
}

// seal validates the final decision and the pack before they are emitted.
func (s *Service) seal(_ context.Context, pack *models.DecisionPack, final models.FinalDecision) (*models.DecisionPack, error) {
	if err := contract.ValidateValue(final, contract.FinalDecision, "final_decision"); err != nil {
		return nil, s.violation("final_decision", err)
	}
	pack.Decisions.FinalDecision = &final
	pack.GeneratedAt = s.now().UTC()
	if err := contract.ValidateValue(pack, contract.DecisionPack, "decision_pack"); err != nil {
		return nil, s.violation("decision_pack", err)
	}
	return pack, nil
}

func (s *Service) collectIntake(ctx context.Context, rc models.RequestContext, seed int64, req Request) (*models.Application, error) {
	channel := req.Channel
	if channel == "" {
		channel = s.channel
	}
	started := time.Now()
	app, err := s.intake.Application(ctx, models.IntakeRequest{
		RequestContext: rc,
		Seed:           seed,
		Channel:        channel,
		ApplicationID:  req.ApplicationID,
		AsOf:           req.AsOf,
	})
	s.metrics.ObserveCollectLatency("intake", time.Since(started))
	if err != nil {
		return nil, s.mandatory("workflow_intake", err)
	}
	if err := contract.ValidateValue(app, contract.Intake, "workflow_intake"); err != nil {
		return nil, s.violation("workflow_intake", err)
	}
	return app, nil
}

func (s *Service) collectEligibility(ctx context.Context, app models.Application) (*models.EligibilityResult, error) {
	ctx, span := s.tracer.Start(ctx, "decision.collect.eligibility")
	defer span.End()
	ctx, cancel := context.WithTimeout(ctx, s.timeouts.Eligibility)
	defer cancel()

	started := time.Now()
	result, err := s.eligibility.Evaluate(ctx, app)
	s.metrics.ObserveCollectLatency("eligibility", time.Since(started))
	if err != nil {
		span.RecordError(err)
		return nil, s.mandatory("eligibility", err)
	}
	if err := contract.ValidateValue(result, contract.Eligibility, "eligibility"); err != nil {
		return nil, s.violation("eligibility", err)
	}
	span.SetAttributes(attribute.String("eligibility_status", string(result.Status)))
	return result, nil
}

// mandatory wraps a failure of a required collaborator. Contract violations
// keep their own code.
func (s *Service) mandatory(source string, err error) error {
	if contract.IsViolation(err) {
		return s.violation(source, err)
	}
	return dErrors.Wrap(err, dErrors.CodeUpstreamMandatory, source+" failed")
}

func (s *Service) violation(boundary string, err error) error {
	s.metrics.IncrementContractViolation(boundary)
	return dErrors.Wrap(err, dErrors.CodeContractViolation, "contract violation at "+boundary)
}

// archive stores the pack and emits the audit event. Both are best-effort.
func (s *Service) archive(ctx context.Context, pack *models.DecisionPack) {
	final := pack.Decisions.FinalDecision
	if s.store != nil {
		if err := s.store.Save(ctx, pack); err != nil {
			s.logger.WarnContext(ctx, "failed to archive decision pack",
				"request_id", pack.RequestID,
				"error", err,
			)
		}
	}

	action := audit.ActionDecisionMade
	if final.ValidationMode == decision.ValidationModeEarlyCut {
		action = audit.ActionDecisionEarlyCut
	}
	s.emit(ctx, action, final)
}

func (s *Service) emit(ctx context.Context, action audit.Action, final *models.FinalDecision) {
	if s.audit == nil {
		return
	}
	event := audit.Event{
		Timestamp:      s.now().UTC(),
		RequestID:      final.RequestID,
		ClientID:       final.ClientID,
		Action:         string(action),
		Outcome:        string(final.Outcome),
		Reason:         final.ReasonCode,
		PolicyID:       final.PolicyID,
		PolicyVersion:  final.PolicyVersion,
		ValidationMode: final.ValidationMode,
		Warnings:       final.Warnings,
	}
	if err := s.audit.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event",
			"request_id", final.RequestID,
			"action", action,
			"error", err,
		)
	}
}

// Get loads an archived pack.
func (s *Service) Get(ctx context.Context, requestID string) (*models.DecisionPack, error) {
	if s.store == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "decision archive is not configured")
	}
	pack, err := s.store.FindByRequestID(ctx, requestID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "decision not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load decision pack")
	}
	return pack, nil
}

// Replay re-evaluates a pack and reports whether the stored decision still
// holds under the current engine.
func (s *Service) Replay(ctx context.Context, pack *models.DecisionPack) (*decision.ReplayResult, error) {
	if pack == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "decision pack is required")
	}
	if err := contract.ValidateValue(pack, contract.DecisionPack, "decision_pack"); err != nil {
		return nil, s.violation("decision_pack", err)
	}
	result, err := s.engine.Replay(*pack)
	if err != nil {
		return nil, err
	}

	s.emit(ctx, audit.ActionDecisionReplayed, &result.Replayed)
	if !result.Match {
		s.logger.WarnContext(ctx, "replayed decision differs from archive",
			"request_id", pack.RequestID,
			"diffs", result.Diffs,
		)
	}
	return &result, nil
}

// ReplayStored replays an archived pack by request ID.
func (s *Service) ReplayStored(ctx context.Context, requestID string) (*decision.ReplayResult, error) {
	pack, err := s.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}
	return s.Replay(ctx, pack)
}
