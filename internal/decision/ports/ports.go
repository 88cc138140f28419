// Package ports defines the collaborators the decision orchestrator depends
// on. Adapters in sibling packages implement them; the orchestrator never
// imports transports directly.
package ports

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"encoding/json"

	"originate/internal/decision/models"
	"originate/pkg/platform/audit"
)

// IntakeSource produces the application under evaluation.
type IntakeSource interface {
	Application(ctx context.Context, req models.IntakeRequest) (*models.Application, error)
}

// EligibilityGate evaluates KYC and affordability rules. It is mandatory: an
// error aborts the pipeline.
type EligibilityGate interface {
	Evaluate(ctx context.Context, app models.Application) (*models.EligibilityResult, error)
}

// Scorer returns the raw payload of one model scorer. The orchestrator
// validates it before use.
type Scorer interface {
	Score(ctx context.Context, req models.ScoreRequest) (json.RawMessage, error)
}

// FraudSignalRequest carries what the resolver needs for one run.
type FraudSignalRequest struct {
	models.RequestContext
	Seed int64
	// Attached is a fraud_signal payload supplied by the caller. When it is
	// well formed it is used verbatim.
	Attached json.RawMessage
}

// FraudSignalResolver produces dynamic fraud telemetry. It is optional.
type FraudSignalResolver interface {
	Resolve(ctx context.Context, req FraudSignalRequest) (*models.FraudSignalResult, error)
}

// RulesEngineStatus is the three-valued outcome of a rules-engine call.
type RulesEngineStatus string

const (
	RulesEngineOK          RulesEngineStatus = "OK"
	RulesEngineUnavailable RulesEngineStatus = "UNAVAILABLE"
	RulesEngineInvalid     RulesEngineStatus = "INVALID"
)

// RulesEngineRequest is the input to a rules-engine evaluation.
type RulesEngineRequest struct {
	models.RequestContext
	Application *models.Application
	Policy      models.PolicySnapshot
}

// RulesEngineResult never carries a nil Flags when Status is OK. Err explains
// the other statuses and is informational only.
type RulesEngineResult struct {
	Status RulesEngineStatus
	Flags  *models.RulesEngineFlags
	Err    error
}

// RulesEngine fetches normalized gate verdicts. Implementations never fail
// the pipeline; they report Unavailable or Invalid instead.
type RulesEngine interface {
	Flags(ctx context.Context, req RulesEngineRequest) RulesEngineResult
}

// PolicySource loads the read-only policy snapshot.
type PolicySource interface {
	Snapshot(ctx context.Context) (models.PolicySnapshot, error)
}

// DecisionStore archives emitted packs.
type DecisionStore interface {
	Save(ctx context.Context, pack *models.DecisionPack) error
	FindByRequestID(ctx context.Context, requestID string) (*models.DecisionPack, error)
}

// AuditPublisher emits decision audit events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}
