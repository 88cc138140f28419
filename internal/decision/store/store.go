// Package store archives emitted decision packs for lookup, reporting and
// replay.
package store

import (
	"context"
	"errors"
	"fmt"

	"originate/internal/decision/models"
	"originate/pkg/platform/sentinel"
)

// ErrNotFound is returned when no pack exists for a request ID.
var ErrNotFound = sentinel.ErrNotFound

var errNilPack = errors.New("decision pack is required")

// Store is what every archive implements.
type Store interface {
	Save(ctx context.Context, pack *models.DecisionPack) error
	FindByRequestID(ctx context.Context, requestID string) (*models.DecisionPack, error)
}

// Tiered writes through a cache to a durable store and reads the cache
// first. A cache failure never fails the call; a durable hit repopulates
// the cache.
type Tiered struct {
	cache   Store
	durable Store
}

// NewTiered combines cache and durable.
func NewTiered(cache, durable Store) *Tiered {
	return &Tiered{cache: cache, durable: durable}
}

// Save persists to the durable store, then the cache.
func (t *Tiered) Save(ctx context.Context, pack *models.DecisionPack) error {
	if err := t.durable.Save(ctx, pack); err != nil {
		return fmt.Errorf("durable save: %w", err)
	}
	_ = t.cache.Save(ctx, pack)
	return nil
}

// FindByRequestID reads the cache, falling back to the durable store.
func (t *Tiered) FindByRequestID(ctx context.Context, requestID string) (*models.DecisionPack, error) {
	if pack, err := t.cache.FindByRequestID(ctx, requestID); err == nil {
		return pack, nil
	}
	pack, err := t.durable.FindByRequestID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	_ = t.cache.Save(ctx, pack)
	return pack, nil
}
