package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"originate/internal/decision/models"
)

const packKeyPrefix = "decision:pack:"

// RedisStore caches packs under decision:pack:<request_id> with a TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed archive. A non-positive ttl keeps
// packs until evicted.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func packKey(requestID string) string {
	return packKeyPrefix + requestID
}

func (s *RedisStore) Save(ctx context.Context, pack *models.DecisionPack) error {
	if pack == nil {
		return errNilPack
	}
	raw, err := json.Marshal(pack)
	if err != nil {
		return fmt.Errorf("encode decision pack: %w", err)
	}
	ttl := s.ttl
	if ttl < 0 {
		ttl = 0
	}
	if err := s.client.Set(ctx, packKey(pack.RequestID), raw, ttl).Err(); err != nil {
		return fmt.Errorf("save decision pack: %w", err)
	}
	return nil
}

func (s *RedisStore) FindByRequestID(ctx context.Context, requestID string) (*models.DecisionPack, error) {
	raw, err := s.client.Get(ctx, packKey(requestID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find decision pack: %w", err)
	}
	var pack models.DecisionPack
	if err := json.Unmarshal(raw, &pack); err != nil {
		return nil, fmt.Errorf("decode decision pack: %w", err)
	}
	return &pack, nil
}
