package bridge

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"originate/internal/decision/models"
	dErrors "originate/pkg/domain-errors"
	"originate/pkg/platform/httputil"
)

// Evaluator runs the DMN model.
type Evaluator interface {
	Evaluate(ctx context.Context, dmn DMNContext) ([]byte, error)
}

// FlagsRequest is the body of POST /bridge/brms_flags. Both the meta_ and
// plain identifier names are accepted.
type FlagsRequest struct {
	MetaRequestID string `json:"meta_request_id"`
	MetaClientID  string `json:"meta_client_id"`
	RequestID     string `json:"request_id"`
	ClientID      string `json:"client_id"`

	Applicant struct {
		Age              *int     `json:"age"`
		FICOScore        *int     `json:"fico_credit_score"`
		DTI              *float64 `json:"dti"`
		EmploymentStatus *string  `json:"employment_status"`
	} `json:"applicant"`
	Loan struct {
		Amount     *float64 `json:"loan_amount"`
		TermMonths *int     `json:"loan_term_months"`
	} `json:"loan"`
	Context struct {
		PolicyID       string `json:"policy_id"`
		PolicyVersion  string `json:"policy_version"`
		ValidationMode string `json:"validation_mode"`
	} `json:"context"`
}

func (r FlagsRequest) requestContext() models.RequestContext {
	return models.RequestContext{
		RequestID: first(r.MetaRequestID, r.RequestID, "sample"),
		ClientID:  first(r.MetaClientID, r.ClientID, unknown),
	}
}

// DMN maps the request onto the model's input context.
func (r FlagsRequest) DMN() DMNContext {
	return DMNContext{
		Applicant: DMNApplicant{
			Age:              r.Applicant.Age,
			FICOScore:        r.Applicant.FICOScore,
			DTI:              r.Applicant.DTI,
			EmploymentStatus: r.Applicant.EmploymentStatus,
		},
		Loan: DMNLoan{Amount: r.Loan.Amount, TermMonths: r.Loan.TermMonths},
		Context: DMNPolicy{
			PolicyID:       first(r.Context.PolicyID, "P1"),
			PolicyVersion:  first(r.Context.PolicyVersion, "1.0"),
			ValidationMode: first(r.Context.ValidationMode, "TEST"),
		},
	}
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Handler serves the bridge endpoints.
type Handler struct {
	kie    Evaluator
	logger *slog.Logger
	now    func() time.Time
}

// New creates a bridge handler.
func New(kie Evaluator, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{kie: kie, logger: logger, now: time.Now}
}

// Register mounts the bridge endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/health", h.HandleHealth)
	r.Post("/bridge/brms_flags", h.HandleFlags)
}

// HandleHealth handles GET /health.
func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// HandleFlags handles POST /bridge/brms_flags. Any KIE failure is a 502.
func (h *Handler) HandleFlags(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, err := httputil.DecodeJSON[FlagsRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	rc := req.requestContext()
	started := h.now()

	raw, err := h.kie.Evaluate(ctx, req.DMN())
	if err != nil {
		h.logger.ErrorContext(ctx, "kie evaluation failed",
			"request_id", rc.RequestID,
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeUpstreamUnavailable, "rules engine bridge failed"))
		return
	}

	flags, err := ToFlags(raw, rc, h.now())
	if err != nil {
		h.logger.ErrorContext(ctx, "kie evaluation unreadable",
			"request_id", rc.RequestID,
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeUpstreamUnavailable, "rules engine bridge failed"))
		return
	}
	flags.LatencyMS = h.now().Sub(started).Milliseconds()

	h.logger.InfoContext(ctx, "brms flags evaluated",
		"request_id", rc.RequestID,
		"gates", flags.Gates.Summary(),
		"latency_ms", flags.LatencyMS,
	)
	httputil.WriteJSON(w, http.StatusOK, flags)
}
