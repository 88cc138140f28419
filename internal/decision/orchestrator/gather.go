package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"originate/internal/contract"
	"originate/internal/decision/models"
	"originate/internal/decision/ports"
)

// gather runs the collectors concurrently. Scorers are mandatory and fail the
// group; the fraud signal resolver and the rules engine are optional and
// degrade to nil instead of returning an error.
func (s *Service) gather(ctx context.Context, pack *models.DecisionPack, seed int64, attached json.RawMessage) error {
	g, gctx := errgroup.WithContext(ctx)
	rc := pack.RequestContext

	signals := make([]*models.SignalPayload, len(models.Models))
	for i, m := range models.Models {
		g.Go(func() error {
			payload, err := s.score(gctx, m, rc, seed)
			if err != nil {
				return err
			}
			signals[i] = payload
			return nil
		})
	}

	var fraud *models.FraudSignalResult
	if s.fraud != nil {
		g.Go(func() error {
			fraud = s.resolveFraudSignal(gctx, rc, seed, attached)
			return nil
		})
	}

	var flags *models.RulesEngineFlags
	if s.rules != nil {
		g.Go(func() error {
			flags = s.fetchRulesEngine(gctx, rc, pack.Decisions.Intake, pack.PolicySnapshot)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	for i, m := range models.Models {
		pack.Decisions.SetSignal(m, signals[i])
	}
	pack.Decisions.FraudDynamic = fraud
	pack.Decisions.RulesEngine = flags
	return nil
}

func (s *Service) score(ctx context.Context, m models.Model, rc models.RequestContext, seed int64) (*models.SignalPayload, error) {
	ctx, span := s.tracer.Start(ctx, "decision.collect."+m.String())
	defer span.End()
	ctx, cancel := context.WithTimeout(ctx, s.timeouts.Scorer)
	defer cancel()

	started := time.Now()
	raw, err := s.scorer.Score(ctx, models.ScoreRequest{Model: m, RequestContext: rc, Seed: seed})
	s.metrics.ObserveCollectLatency(m.String(), time.Since(started))
	if err != nil {
		span.RecordError(err)
		return nil, s.mandatory(m.String(), err)
	}

	payload, err := contract.Decode[models.SignalPayload](raw, contract.Signal(m), m.String())
	if err != nil {
		return nil, s.violation(m.String(), err)
	}
	if payload.RequestID != rc.RequestID {
		return nil, s.violation(m.String(), &contract.ValidationError{
			Label:     m.String(),
			Malformed: []string{"meta_request_id"},
			Details: map[string]string{
				"meta_request_id": fmt.Sprintf("expected %q, got %q", rc.RequestID, payload.RequestID),
			},
		})
	}
	span.SetAttributes(attribute.String("normalized_band", string(payload.Band())))
	return &payload, nil
}

func (s *Service) resolveFraudSignal(ctx context.Context, rc models.RequestContext, seed int64, attached json.RawMessage) *models.FraudSignalResult {
	ctx, span := s.tracer.Start(ctx, "decision.collect.fraud_signal")
	defer span.End()
	ctx, cancel := context.WithTimeout(ctx, s.timeouts.FraudSignal)
	defer cancel()

	started := time.Now()
	result, err := s.fraud.Resolve(ctx, ports.FraudSignalRequest{
		RequestContext: rc,
		Seed:           seed,
		Attached:       attached,
	})
	s.metrics.ObserveCollectLatency("fraud_signal", time.Since(started))
	if err != nil || result == nil {
		s.metrics.IncrementFallback("fraud_signal", "unavailable")
		s.logger.WarnContext(ctx, "fraud signal unavailable, continuing without it",
			"request_id", rc.RequestID,
			"error", err,
		)
		return nil
	}
	if err := contract.ValidateValue(result, contract.FraudSignal, "fraud_signal"); err != nil {
		s.metrics.IncrementContractViolation("fraud_signal")
		s.metrics.IncrementFallback("fraud_signal", "invalid")
		s.logger.WarnContext(ctx, "fraud signal failed contract validation, dropping it",
			"request_id", rc.RequestID,
			"error", err,
		)
		return nil
	}
	if result.SensorMode == models.SensorModeLiveFallback {
		s.metrics.IncrementFallback("fraud_signal", "live_fallback")
	}
	span.SetAttributes(attribute.String("action", string(result.Action)))
	return result
}

func (s *Service) fetchRulesEngine(ctx context.Context, rc models.RequestContext, app *models.Application, snapshot models.PolicySnapshot) *models.RulesEngineFlags {
	ctx, span := s.tracer.Start(ctx, "decision.collect.rules_engine")
	defer span.End()
	ctx, cancel := context.WithTimeout(ctx, s.timeouts.RulesEngine)
	defer cancel()

	started := time.Now()
	result := s.rules.Flags(ctx, ports.RulesEngineRequest{
		RequestContext: rc,
		Application:    app,
		Policy:         snapshot,
	})
	s.metrics.ObserveCollectLatency("rules_engine", time.Since(started))
	span.SetAttributes(attribute.String("status", string(result.Status)))

	if result.Status == ports.RulesEngineOK && result.Flags != nil {
		if err := contract.ValidateValue(result.Flags, contract.RulesEngineFlags, "brms_flags"); err != nil {
			s.metrics.IncrementContractViolation("brms_flags")
			result = ports.RulesEngineResult{Status: ports.RulesEngineInvalid, Err: err}
		} else {
			return result.Flags
		}
	}

	status := result.Status
	if status == ports.RulesEngineOK {
		status = ports.RulesEngineUnavailable
	}
	s.metrics.IncrementFallback("rules_engine", string(status))
	s.logger.WarnContext(ctx, "rules engine failed open",
		"request_id", rc.RequestID,
		"status", status,
		"error", result.Err,
	)
	return nil
}
