// Package sensor is the HTTP client for the dynamic sensor service that
// feeds live eligibility and fraud telemetry.
package sensor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"originate/pkg/platform/circuit"
	"originate/pkg/platform/sentinel"
	"originate/pkg/platform/upstream"
)

// Sensor sources, used as upstream error sources and metric labels.
const (
	SourceDeviceBehavior     = "device_behavior_score"
	SourceTransactionAnomaly = "transaction_anomaly_score"
	SourceBureauSpike        = "bureau_spike_score"
	SourceMarketSnapshot     = "market_snapshot"
)

// Lookback windows requested from the sensor service.
const (
	DeviceLookbackHours     = 24
	TransactionLookbackDays = 30
)

const maxResponseBytes = 64 << 10

// Client calls the sensor service. A nil breaker disables circuit breaking.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *circuit.Breaker
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

// WithTimeout sets the per-call HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		if d > 0 {
			cl.http = &http.Client{Timeout: d, Transport: cl.http.Transport}
		}
	}
}

// WithBreaker guards every call with b.
func WithBreaker(b *circuit.Breaker) Option {
	return func(cl *Client) {
		cl.breaker = b
	}
}

// WithLogger sets the logger used for breaker transitions.
func WithLogger(logger *slog.Logger) Option {
	return func(cl *Client) {
		if logger != nil {
			cl.logger = logger
		}
	}
}

// NewClient creates a sensor client for baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 1200 * time.Millisecond},
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Query identifies the subject of a sensor read. Empty fields are omitted
// from the query string.
type Query struct {
	RequestID  string
	ClientID   string
	CustomerID string
	Seed       *int64
}

func (q Query) values() url.Values {
	v := url.Values{}
	if q.RequestID != "" {
		v.Set("request_id", q.RequestID)
	}
	if q.ClientID != "" {
		v.Set("client_id", q.ClientID)
	}
	if q.CustomerID != "" {
		v.Set("customer_id", q.CustomerID)
	}
	if q.Seed != nil {
		v.Set("seed", strconv.FormatInt(*q.Seed, 10))
	}
	return v
}

// DeviceBehaviorScore returns the device behavior score over the last day.
func (c *Client) DeviceBehaviorScore(ctx context.Context, q Query) (float64, error) {
	v := q.values()
	v.Set("lookback_hours", strconv.Itoa(DeviceLookbackHours))
	return c.score(ctx, SourceDeviceBehavior, v)
}

// TransactionAnomalyScore returns the transaction anomaly score over the
// standard lookback window.
func (c *Client) TransactionAnomalyScore(ctx context.Context, q Query) (float64, error) {
	v := q.values()
	v.Set("lookback_days", strconv.Itoa(TransactionLookbackDays))
	return c.score(ctx, SourceTransactionAnomaly, v)
}

// BureauSpikeScore returns the bureau inquiry spike score.
func (c *Client) BureauSpikeScore(ctx context.Context, q Query) (float64, error) {
	return c.score(ctx, SourceBureauSpike, q.values())
}

// MarketStress returns the 7 day market stress score. Some deployments
// reject the as_of parameter with 400; the call is then retried once
// without it.
func (c *Client) MarketStress(ctx context.Context, q Query, asOf time.Time) (float64, error) {
	base := url.Values{}
	if q.RequestID != "" {
		base.Set("request_id", q.RequestID)
	}
	if asOf.IsZero() {
		return c.score(ctx, SourceMarketSnapshot, base)
	}
	withAsOf := url.Values{"as_of": {asOf.UTC().Format(time.RFC3339)}}
	for k, vs := range base {
		withAsOf[k] = vs
	}
	v, err := c.score(ctx, SourceMarketSnapshot, withAsOf)
	if err != nil && upstream.StatusOf(err) == http.StatusBadRequest {
		return c.score(ctx, SourceMarketSnapshot, base)
	}
	return v, err
}

func (c *Client) score(ctx context.Context, source string, query url.Values) (float64, error) {
	if c.breaker != nil && !c.breaker.Allow() {
		return 0, upstream.NewError(upstream.CategoryCircuitOpen, source, "circuit open", sentinel.ErrUnavailable)
	}
	v, err := c.fetch(ctx, source, query)
	c.record(ctx, err)
	return v, err
}

func (c *Client) fetch(ctx context.Context, source string, query url.Values) (float64, error) {
	endpoint := c.baseURL + "/sensor/" + source
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, upstream.NewError(upstream.CategoryInternal, source, "build request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, upstream.FromTransport(source, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return 0, upstream.FromTransport(source, err)
	}
	return parseScoreResponse(source, resp.StatusCode, body)
}

// record feeds the breaker. Rejections (4xx) say nothing about the health
// of the service and are not counted.
func (c *Client) record(ctx context.Context, err error) {
	if c.breaker == nil {
		return
	}
	if err == nil || upstream.CategoryOf(err) == upstream.CategoryRejected {
		if _, change := c.breaker.RecordSuccess(); change.Closed {
			c.logger.InfoContext(ctx, "sensor circuit closed", "breaker", c.breaker.Name())
		}
		return
	}
	if _, change := c.breaker.RecordFailure(); change.Opened {
		c.logger.WarnContext(ctx, "sensor circuit opened", "breaker", c.breaker.Name(), "error", err)
	}
}

type scoreResponse struct {
	Score        *float64 `json:"score"`
	Value        *float64 `json:"value"`
	MarketStress *float64 `json:"market_stress_score_7d"`
}

// parseScoreResponse accepts {"score": x}, {"value": x} or, for the market
// snapshot, {"market_stress_score_7d": x}. Scores must lie in [0,1].
func parseScoreResponse(source string, status int, body []byte) (float64, error) {
	if status < 200 || status >= 300 {
		return 0, upstream.FromStatus(source, status)
	}
	var r scoreResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return 0, upstream.NewError(upstream.CategoryBadData, source, "invalid JSON", err)
	}
	var v *float64
	switch {
	case r.Score != nil:
		v = r.Score
	case r.MarketStress != nil:
		v = r.MarketStress
	case r.Value != nil:
		v = r.Value
	default:
		return 0, upstream.NewError(upstream.CategoryBadData, source, "response carries no score", nil)
	}
	if *v < 0 || *v > 1 {
		return 0, upstream.NewError(upstream.CategoryBadData, source, fmt.Sprintf("score %v outside [0,1]", *v), nil)
	}
	return *v, nil
}
