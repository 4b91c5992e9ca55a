package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rpggio/pairs/internal/domain/round"
	"github.com/rpggio/pairs/internal/repository"
)

// SnapshotRepository implements round.Repository on the kv table.
type SnapshotRepository struct {
	kv *KVStore
}

// NewSnapshotRepository creates a new SnapshotRepository
func NewSnapshotRepository(db *DB) *SnapshotRepository {
	return &SnapshotRepository{kv: NewKVStore(db)}
}

func (r *SnapshotRepository) Get(ctx context.Context, playerID string) (*round.Snapshot, error) {
	raw, err := r.kv.Get(ctx, playerID, KeyRound)
	if err != nil {
		return nil, err
	}

	var snap round.Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, fmt.Errorf("%w: round: %v", repository.ErrCorrupt, err)
	}
	return &snap, nil
}

func (r *SnapshotRepository) Save(ctx context.Context, playerID string, snap *round.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode round: %w", err)
	}
	return r.kv.Put(ctx, playerID, KeyRound, string(data))
}

func (r *SnapshotRepository) Delete(ctx context.Context, playerID string) error {
	return r.kv.Delete(ctx, playerID, KeyRound)
}
