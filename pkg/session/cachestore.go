package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tavalabs/tava/pkg/cache"
	"github.com/tavalabs/tava/pkg/ringgraph"
)

// CacheStore keeps sessions in a [cache.Cache] under "session:<id>" keys.
// Expiry is delegated to the cache TTL, so Cleanup does nothing.
type CacheStore struct {
	cache cache.Cache
}

// NewCacheStore stores sessions in c.
func NewCacheStore(c cache.Cache) *CacheStore {
	return &CacheStore{cache: c}
}

func key(id string) string { return cache.KeyTypeSession + ":" + id }

func (s *CacheStore) Get(ctx context.Context, id string) (*Snapshot, error) {
	data, hit, err := s.cache.Get(ctx, key(id))
	if err != nil || !hit {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	if snap.IsExpired() {
		return nil, nil
	}
	return &snap, nil
}

func (s *CacheStore) Set(ctx context.Context, snap *Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	ttl := time.Until(snap.ExpiresAt)
	if ttl <= 0 {
		return s.cache.Delete(ctx, key(snap.ID))
	}
	return s.cache.Set(ctx, key(snap.ID), data, ttl)
}

func (s *CacheStore) Delete(ctx context.Context, id string) error {
	return s.cache.Delete(ctx, key(id))
}

func (s *CacheStore) Cleanup(context.Context) error { return nil }

var _ Store = (*CacheStore)(nil)

func clonePins(pins map[string]ringgraph.Point) map[string]ringgraph.Point {
	if pins == nil {
		return nil
	}
	out := make(map[string]ringgraph.Point, len(pins))
	for id, p := range pins {
		out[id] = p
	}
	return out
}
