package storage

import (
	"context"

	"trancheScope/internal/model"
)

// Storage is a write-only sink for assembled snapshots. Snapshots are
// exported for downstream analytics and never read back; the read model is
// always rebuilt from chain state.
type Storage interface {
	PutSnapshots(ctx context.Context, snapshots []model.AssembledProduct) error
}
