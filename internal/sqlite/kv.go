package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/pairs/internal/repository"
)

// Keys used in the kv table.
const (
	KeyProgress = "progress"
	KeyRound    = "round"
)

// KVStore is a per-player string key/value store.
type KVStore struct {
	db *DB
}

// NewKVStore creates a new KVStore
func NewKVStore(db *DB) *KVStore {
	return &KVStore{db: db}
}

// Get returns the stored value, or repository.ErrNotFound.
func (s *KVStore) Get(ctx context.Context, playerID, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM kv WHERE player_id = ? AND key = ?`,
		playerID, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", repository.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, nil
}

// Put stores value under key, replacing any previous value.
func (s *KVStore) Put(ctx context.Context, playerID, key, value string) error {
	query := `
		INSERT INTO kv (player_id, key, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(player_id, key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, playerID, key, value, time.Now()); err != nil {
		return fmt.Errorf("failed to put %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *KVStore) Delete(ctx context.Context, playerID, key string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM kv WHERE player_id = ? AND key = ?`,
		playerID, key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}
