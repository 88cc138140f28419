package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"originate/internal/decision/models"
)

// InMemoryStore keeps packs as JSON so callers never share mutable state
// with the archive.
type InMemoryStore struct {
	mu    sync.RWMutex
	packs map[string][]byte
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{packs: make(map[string][]byte)}
}

func (s *InMemoryStore) Save(_ context.Context, pack *models.DecisionPack) error {
	if pack == nil {
		return errNilPack
	}
	raw, err := json.Marshal(pack)
	if err != nil {
		return fmt.Errorf("encode decision pack: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.packs[pack.RequestID] = raw
	return nil
}

func (s *InMemoryStore) FindByRequestID(_ context.Context, requestID string) (*models.DecisionPack, error) {
	s.mu.RLock()
	raw, ok := s.packs[requestID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	var pack models.DecisionPack
	if err := json.Unmarshal(raw, &pack); err != nil {
		return nil, fmt.Errorf("decode decision pack: %w", err)
	}
	return &pack, nil
}
