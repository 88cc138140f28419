// Package bridge exposes the KIE server DMN model as the brms_flags_v0_1
// endpoint the decision pipeline calls.
package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"originate/pkg/platform/upstream"
)

const (
	kieSource = "kie_server"

	DMNNamespace = "urn:com:acme:loan:decision:v1"
	DMNModel     = "loan_decision"
	DMNDecision  = "Gate_3_FinalDecision"

	maxKIEResponseBytes = 4 << 20
)

// DMNContext is the input context of the loan decision model.
type DMNContext struct {
	Applicant DMNApplicant `json:"Applicant"`
	Loan      DMNLoan      `json:"Loan"`
	Context   DMNPolicy    `json:"Context"`
}

// DMNApplicant is the applicant input. Pointers keep absent values null.
type DMNApplicant struct {
	Age              *int     `json:"age"`
	FICOScore        *int     `json:"fico_credit_score"`
	DTI              *float64 `json:"dti"`
	EmploymentStatus *string  `json:"employment_status"`
}

// DMNLoan is the loan input.
type DMNLoan struct {
	Amount     *float64 `json:"loan_amount"`
	TermMonths *int     `json:"loan_term_months"`
}

// DMNPolicy names the policy under evaluation.
type DMNPolicy struct {
	PolicyID       string `json:"policy_id"`
	PolicyVersion  string `json:"policy_version"`
	ValidationMode string `json:"validation_mode"`
}

type dmnRequest struct {
	Namespace string     `json:"model-namespace"`
	Model     string     `json:"model-name"`
	Decision  string     `json:"decision-name"`
	Context   DMNContext `json:"dmn-context"`
}

// KIEClient evaluates the DMN model on a KIE server with basic auth.
type KIEClient struct {
	url      string
	user     string
	password string
	http     *http.Client
}

// NewKIEClient creates a KIE client for the container DMN endpoint.
func NewKIEClient(url, user, password string, timeout time.Duration) *KIEClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &KIEClient{
		url:      url,
		user:     user,
		password: password,
		http:     &http.Client{Timeout: timeout},
	}
}

// Evaluate runs the decision and returns the raw evaluation answer. The KIE
// server sometimes labels JSON as XML; the body is parsed as JSON regardless.
func (c *KIEClient) Evaluate(ctx context.Context, dmn DMNContext) ([]byte, error) {
	body, err := json.Marshal(dmnRequest{
		Namespace: DMNNamespace,
		Model:     DMNModel,
		Decision:  DMNDecision,
		Context:   dmn,
	})
	if err != nil {
		return nil, upstream.NewError(upstream.CategoryInternal, kieSource, "encode request", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, upstream.NewError(upstream.CategoryInternal, kieSource, "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(c.user, c.password)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, upstream.FromTransport(kieSource, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxKIEResponseBytes))
	if err != nil {
		return nil, upstream.FromTransport(kieSource, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, upstream.FromStatus(kieSource, resp.StatusCode)
	}
	if !json.Valid(raw) {
		return nil, upstream.NewError(upstream.CategoryBadData, kieSource, "response is not JSON", nil)
	}
	return raw, nil
}
