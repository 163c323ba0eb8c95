package store

import (
	"context"

	"pipestat/pkg/api"
)

// Store interface defines access to the snapshot backend
type Store interface {
	SnapshotWriter
	ReadOnlyStore
}

// SnapshotWriter defines access to the store backend for the refresher
type SnapshotWriter interface {
	// SaveSnapshot replaces the latest snapshot
	SaveSnapshot(ctx context.Context, snap api.Snapshot) error
}

// ReadOnlyStore are functions used by the server to access data in RO
type ReadOnlyStore interface {
	// Snapshot returns the latest snapshot, ErrNotFound if no run completed yet
	Snapshot(ctx context.Context) (api.Snapshot, error)

	// PipelineRecord returns the record of the given pipeline in the latest snapshot
	PipelineRecord(ctx context.Context, pipelineID string) (api.PipelineRecord, error)
}
