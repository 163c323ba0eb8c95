package store

import (
	"context"
	"fmt"
	"sync"

	"pipestat/pkg/api"
)

// NewInMemoryStore returns a new InMemory store, only the latest snapshot is kept
func NewInMemoryStore() (Store, error) {
	return &inMemory{}, nil
}

type inMemory struct {
	mu       sync.RWMutex
	snapshot *api.Snapshot
}

func (s *inMemory) SaveSnapshot(ctx context.Context, snap api.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = &snap
	return nil
}

func (s *inMemory) Snapshot(ctx context.Context) (api.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return api.Snapshot{}, NotFoundError("snapshot")
	}
	return *s.snapshot, nil
}

func (s *inMemory) PipelineRecord(ctx context.Context, pipelineID string) (api.PipelineRecord, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return api.PipelineRecord{}, err
	}
	r, exists := snap.Pipeline(pipelineID)
	if !exists {
		return api.PipelineRecord{}, NotFoundError(fmt.Sprintf("pipeline %s", pipelineID))
	}
	return r, nil
}
