package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"time"

	"originate/internal/decision/models"
)

// Stub scores deterministically from the client, model and seed.
type Stub struct {
	thresholds map[models.Model]float64
	now        func() time.Time
}

// StubOption configures a Stub.
type StubOption func(*Stub)

// WithThreshold overrides one model's operating point.
func WithThreshold(m models.Model, thr float64) StubOption {
	return func(s *Stub) {
		if thr > 0 {
			s.thresholds[m] = thr
		}
	}
}

// WithStubClock overrides the time source.
func WithStubClock(now func() time.Time) StubOption {
	return func(s *Stub) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStub creates a stub scorer with the default thresholds.
func NewStub(opts ...StubOption) *Stub {
	s := &Stub{thresholds: make(map[models.Model]float64, len(DefaultThresholds)), now: time.Now}
	for m, thr := range DefaultThresholds {
		s.thresholds[m] = thr
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score returns the payload for req.Model.
func (s *Stub) Score(ctx context.Context, req models.ScoreRequest) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	thr, ok := s.thresholds[req.Model]
	if !ok {
		return nil, fmt.Errorf("unknown model %q", req.Model)
	}
	started := s.now()
	payload := NewPayload(req.Model, req.RequestContext, StubProbability(req.Model, req.ClientID, req.Seed), thr,
		"stub_"+req.Model.String(), s.now(), s.now().Sub(started))
	return json.Marshal(payload)
}

// StubProbability is a deterministic probability in [0,1] rounded to four
// decimals.
func StubProbability(m models.Model, clientID string, seed int64) float64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(m))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(clientID))
	rng := rand.New(rand.NewPCG(uint64(seed), h.Sum64()))
	return math.Round(rng.Float64()*1e4) / 1e4
}
