//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"originate/internal/decision/models"
	"originate/internal/decision/store"
	"originate/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *store.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.Redis(s.T())
	s.store = store.NewRedisStore(s.redis.Client, time.Hour)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func newPack(requestID string) *models.DecisionPack {
	rc := models.RequestContext{RequestID: requestID, ClientID: "client-42"}
	return &models.DecisionPack{
		SchemaVersion:  models.SchemaDecisionPack,
		GeneratedAt:    time.Now().UTC().Truncate(time.Millisecond),
		RequestContext: rc,
		PolicySnapshot: models.PolicySnapshot{PolicyID: "P1", PolicyVersion: "1.0"},
		Decisions: models.Signals{
			FinalDecision: &models.FinalDecision{RequestContext: rc, Outcome: models.OutcomeReview, ReasonCode: "FD_REVIEW"},
		},
	}
}

func (s *RedisStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	s.Require().NoError(s.store.Save(ctx, newPack("req-a")))

	got, err := s.store.FindByRequestID(ctx, "req-a")
	s.Require().NoError(err)
	s.Equal("client-42", got.ClientID)
	s.Equal(models.OutcomeReview, got.Decisions.FinalDecision.Outcome)
}

func (s *RedisStoreSuite) TestTTLApplied() {
	ctx := context.Background()
	s.Require().NoError(s.store.Save(ctx, newPack("req-ttl")))

	ttl, err := s.redis.Client.TTL(ctx, "decision:pack:req-ttl").Result()
	s.Require().NoError(err)
	s.Greater(ttl, 59*time.Minute)
}

func (s *RedisStoreSuite) TestMissing() {
	_, err := s.store.FindByRequestID(context.Background(), "absent")
	s.ErrorIs(err, store.ErrNotFound)
}
