package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rpggio/pairs/internal/domain/progress"
	"github.com/rpggio/pairs/internal/repository"
)

// ProgressRepository implements progress.Repository on the kv table.
type ProgressRepository struct {
	kv *KVStore
}

// NewProgressRepository creates a new ProgressRepository
func NewProgressRepository(db *DB) *ProgressRepository {
	return &ProgressRepository{kv: NewKVStore(db)}
}

// Get decodes the player's ledger.
func (r *ProgressRepository) Get(ctx context.Context, playerID string) (*progress.Ledger, error) {
	raw, err := r.kv.Get(ctx, playerID, KeyProgress)
	if err != nil {
		return nil, err
	}

	var ledger progress.Ledger
	if err := json.Unmarshal([]byte(raw), &ledger); err != nil {
		return nil, fmt.Errorf("%w: progress: %v", repository.ErrCorrupt, err)
	}
	return &ledger, nil
}

// Save replaces the stored ledger with the full payload.
func (r *ProgressRepository) Save(ctx context.Context, playerID string, ledger *progress.Ledger) error {
	data, err := json.Marshal(ledger)
	if err != nil {
		return fmt.Errorf("failed to encode progress: %w", err)
	}
	return r.kv.Put(ctx, playerID, KeyProgress, string(data))
}
