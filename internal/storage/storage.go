package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/jwebster45206/night-watch/pkg/sim"
)

// Storage persists session snapshots for API reads. Snapshots are
// ephemeral run state: entries carry a TTL so finished or abandoned
// sessions age out on their own.
type Storage interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// Snapshot operations
	SaveSnapshot(ctx context.Context, id uuid.UUID, snap *sim.Snapshot) error
	LoadSnapshot(ctx context.Context, id uuid.UUID) (*sim.Snapshot, error)
	DeleteSnapshot(ctx context.Context, id uuid.UUID) error
}
