package rulesengine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"originate/internal/decision/models"
	"originate/pkg/platform/circuit"
	"originate/pkg/platform/sentinel"
	"originate/pkg/platform/upstream"
)

const (
	source           = "rules_engine"
	maxResponseBytes = 1 << 20

	// DefaultValidationMode is sent when the caller does not choose one.
	DefaultValidationMode = "TEST"
)

// Status is the three-valued outcome of a rules engine call.
type Status string

const (
	StatusOK          Status = "ok"
	StatusUnavailable Status = "unavailable"
	StatusInvalid     Status = "invalid"
)

// Result carries normalized flags when Status is OK and the cause otherwise.
type Result struct {
	Status Status
	Flags  *models.RulesEngineFlags
	Err    error
}

func unavailable(err error) Result { return Result{Status: StatusUnavailable, Err: err} }
func invalid(err error) Result     { return Result{Status: StatusInvalid, Err: err} }

// Applicant is the applicant subset the engine evaluates.
type Applicant struct {
	Age              int     `json:"age"`
	FICOScore        int     `json:"fico_credit_score,omitempty"`
	DTI              float64 `json:"dti"`
	EmploymentStatus string  `json:"employment_status"`
	IncomeMonthly    float64 `json:"income_monthly"`
}

// Loan is the requested product.
type Loan struct {
	Amount     float64 `json:"loan_amount"`
	TermMonths int     `json:"loan_term_months"`
}

// Context names the policy the engine should evaluate against.
type Context struct {
	PolicyID       string `json:"policy_id"`
	PolicyVersion  string `json:"policy_version"`
	ValidationMode string `json:"validation_mode"`
}

// Request is the body posted to the bridge.
type Request struct {
	RequestID string    `json:"meta_request_id"`
	ClientID  string    `json:"meta_client_id"`
	Applicant Applicant `json:"applicant"`
	Loan      Loan      `json:"loan"`
	Context   Context   `json:"context"`
}

// Client posts to the bridge. Every failure becomes a Result; Evaluate never
// returns an error.
type Client struct {
	url       string
	http      *http.Client
	breaker   *circuit.Breaker
	logger    *slog.Logger
	debugPath string
}

// Option configures a Client.
type Option func(*Client)

// WithURL overrides the bridge URL taken from the policy snapshot.
func WithURL(url string) Option {
	return func(c *Client) {
		c.url = url
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithBreaker guards calls with b. An open breaker yields Unavailable
// without a network call.
func WithBreaker(b *circuit.Breaker) Option {
	return func(c *Client) {
		c.breaker = b
	}
}

// WithLogger sets the client logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDebugSnapshot writes the last raw bridge answer to path. Write
// failures are ignored.
func WithDebugSnapshot(path string) Option {
	return func(c *Client) {
		c.debugPath = path
	}
}

// NewClient creates a bridge client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http:   &http.Client{Timeout: 10 * time.Second},
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Evaluate posts req to the bridge and normalizes the answer.
func (c *Client) Evaluate(ctx context.Context, req Request, snapshot models.PolicySnapshot) Result {
	url := c.url
	if url == "" {
		url = snapshot.BridgeURL()
	}
	if url == "" {
		return unavailable(upstream.NewError(upstream.CategoryInternal, source, "no bridge URL configured", nil))
	}
	if c.breaker != nil && !c.breaker.Allow() {
		return unavailable(upstream.NewError(upstream.CategoryCircuitOpen, source, "circuit open", sentinel.ErrUnavailable))
	}

	raw, err := c.post(ctx, url, req)
	c.record(ctx, err)
	if err != nil {
		return unavailable(err)
	}
	c.writeDebugSnapshot(ctx, raw)

	flags, err := Normalize(raw, models.RequestContext{RequestID: req.RequestID, ClientID: req.ClientID}, snapshot)
	if err != nil {
		return invalid(upstream.NewError(upstream.CategoryBadData, source, "normalize response", err))
	}
	return Result{Status: StatusOK, Flags: flags}
}

func (c *Client) post(ctx context.Context, url string, req Request) ([]byte, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, upstream.NewError(upstream.CategoryInternal, source, "encode request", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, upstream.NewError(upstream.CategoryInternal, source, "build request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, upstream.FromTransport(source, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, upstream.FromTransport(source, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, upstream.FromStatus(source, resp.StatusCode)
	}
	return raw, nil
}

func (c *Client) record(ctx context.Context, err error) {
	if c.breaker == nil {
		return
	}
	if err == nil {
		if _, change := c.breaker.RecordSuccess(); change.Closed {
			c.logger.InfoContext(ctx, "rules engine circuit closed")
		}
		return
	}
	if _, change := c.breaker.RecordFailure(); change.Opened {
		c.logger.WarnContext(ctx, "rules engine circuit opened", "error", err)
	}
}

func (c *Client) writeDebugSnapshot(ctx context.Context, raw []byte) {
	if c.debugPath == "" {
		return
	}
	if err := os.WriteFile(c.debugPath, raw, 0o600); err != nil {
		c.logger.DebugContext(ctx, "rules engine debug snapshot not written", "path", c.debugPath, "error", err)
	}
}

// FileStub serves a recorded bridge answer from disk, for offline runs.
type FileStub struct {
	path string
}

// NewFileStub creates a stub reading path on every call.
func NewFileStub(path string) *FileStub {
	return &FileStub{path: path}
}

// Evaluate normalizes the recorded answer. A missing file is Unavailable and
// an unreadable one Invalid.
func (f *FileStub) Evaluate(ctx context.Context, req Request, snapshot models.PolicySnapshot) Result {
	if err := ctx.Err(); err != nil {
		return unavailable(err)
	}
	raw, err := os.ReadFile(f.path)
	if err != nil {
		return unavailable(err)
	}
	flags, err := Normalize(raw, models.RequestContext{RequestID: req.RequestID, ClientID: req.ClientID}, snapshot)
	if err != nil {
		return invalid(err)
	}
	return Result{Status: StatusOK, Flags: flags}
}

// IsMalformed reports whether err came from an unreadable engine answer.
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformed)
}
