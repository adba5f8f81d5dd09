// Package cursor stores the per-collection watch cursor: the timestamp a
// collection was last polled at. The default store is process memory
// (lifetime = process lifetime, nothing survives a restart); a Redis
// store is available when several instances need to share cursors.
package cursor

import (
	"context"
	"sync"
	"time"
)

type Store interface {
	Get(ctx context.Context, collectionID int64) (time.Time, bool, error)
	Set(ctx context.Context, collectionID int64, at time.Time) error
}

// MemoryStore is the default in-process store. Tool calls can run
// concurrently, so access is mutex-guarded.
type MemoryStore struct {
	mu      sync.Mutex
	cursors map[int64]time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{cursors: make(map[int64]time.Time)}
}

func (s *MemoryStore) Get(_ context.Context, collectionID int64) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	at, ok := s.cursors[collectionID]
	return at, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, collectionID int64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursors[collectionID] = at
	return nil
}
