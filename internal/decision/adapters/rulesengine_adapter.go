package adapters

import (
	"context"

	"originate/internal/decision/models"
	"originate/internal/decision/ports"
	"originate/internal/rulesengine"
)

// RulesEngineEvaluator is satisfied by the bridge client and the offline
// file stub.
type RulesEngineEvaluator interface {
	Evaluate(ctx context.Context, req rulesengine.Request, snapshot models.PolicySnapshot) rulesengine.Result
}

// RulesEngineAdapter implements ports.RulesEngine on top of a rules engine
// evaluator, building the bridge request from the intake application.
type RulesEngineAdapter struct {
	evaluator      RulesEngineEvaluator
	validationMode string
}

// NewRulesEngineAdapter creates the adapter. An empty validation mode sends
// the bridge default.
func NewRulesEngineAdapter(evaluator RulesEngineEvaluator, validationMode string) ports.RulesEngine {
	if validationMode == "" {
		validationMode = rulesengine.DefaultValidationMode
	}
	return &RulesEngineAdapter{evaluator: evaluator, validationMode: validationMode}
}

// Flags asks the engine for its gates. The three-valued status is carried
// through unchanged.
func (a *RulesEngineAdapter) Flags(ctx context.Context, req ports.RulesEngineRequest) ports.RulesEngineResult {
	result := a.evaluator.Evaluate(ctx, a.request(req), req.Policy)
	return ports.RulesEngineResult{
		Status: status(result.Status),
		Flags:  result.Flags,
		Err:    result.Err,
	}
}

func (a *RulesEngineAdapter) request(req ports.RulesEngineRequest) rulesengine.Request {
	out := rulesengine.Request{
		RequestID: req.RequestID,
		ClientID:  req.ClientID,
		Context: rulesengine.Context{
			PolicyID:       req.Policy.PolicyID,
			PolicyVersion:  req.Policy.PolicyVersion,
			ValidationMode: a.validationMode,
		},
	}
	if app := req.Application; app != nil {
		out.Applicant = rulesengine.Applicant{
			Age:              app.Applicant.Age,
			FICOScore:        app.Applicant.FICOScore,
			DTI:              app.Applicant.DeclaredDTI,
			EmploymentStatus: app.Applicant.EmploymentStatus,
			IncomeMonthly:    app.Applicant.IncomeMonthly,
		}
		out.Loan = rulesengine.Loan{Amount: app.Loan.Amount, TermMonths: app.Loan.TermMonths}
	}
	return out
}

func status(s rulesengine.Status) ports.RulesEngineStatus {
	switch s {
	case rulesengine.StatusOK:
		return ports.RulesEngineOK
	case rulesengine.StatusInvalid:
		return ports.RulesEngineInvalid
	default:
		return ports.RulesEngineUnavailable
	}
}
