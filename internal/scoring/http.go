package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"originate/internal/decision/models"
	"originate/pkg/platform/upstream"
)

const maxScoreBytes = 256 << 10

type scoreRequest struct {
	RequestID string `json:"meta_request_id"`
	ClientID  string `json:"meta_client_id"`
	Seed      int64  `json:"seed"`
}

// HTTP calls a scoring service at POST {base}/score/{model}. The answer is
// returned as-is for the caller to validate.
type HTTP struct {
	baseURL string
	http    *http.Client
}

// NewHTTP creates an HTTP scorer.
func NewHTTP(baseURL string, timeout time.Duration) *HTTP {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTP{baseURL: strings.TrimRight(baseURL, "/"), http: &http.Client{Timeout: timeout}}
}

// Score posts the request and returns the raw payload.
func (s *HTTP) Score(ctx context.Context, req models.ScoreRequest) (json.RawMessage, error) {
	source := req.Model.String()
	body, err := json.Marshal(scoreRequest{RequestID: req.RequestID, ClientID: req.ClientID, Seed: req.Seed})
	if err != nil {
		return nil, upstream.NewError(upstream.CategoryInternal, source, "encode request", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/score/"+source, bytes.NewReader(body))
	if err != nil {
		return nil, upstream.NewError(upstream.CategoryInternal, source, "build request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(httpReq)
	if err != nil {
		return nil, upstream.FromTransport(source, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxScoreBytes))
	if err != nil {
		return nil, upstream.FromTransport(source, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, upstream.FromStatus(source, resp.StatusCode)
	}
	return raw, nil
}
