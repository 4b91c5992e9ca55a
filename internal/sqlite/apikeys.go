package sqlite

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/pairs/internal/repository"
)

// APIKeyRepository maps bearer tokens to player IDs.
type APIKeyRepository struct {
	db *DB
}

// NewAPIKeyRepository creates a new APIKeyRepository
func NewAPIKeyRepository(db *DB) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

// Create stores the hash of token for playerID.
func (r *APIKeyRepository) Create(ctx context.Context, token, playerID, description string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO api_keys (key_hash, player_id, description) VALUES (?, ?, ?)`,
		HashToken(token), playerID, description)
	if err != nil {
		return fmt.Errorf("failed to create api key: %w", err)
	}
	return nil
}

// ResolvePlayer returns the player owning token and stamps its last use.
func (r *APIKeyRepository) ResolvePlayer(ctx context.Context, token string) (string, error) {
	hash := HashToken(token)
	var playerID string
	err := r.db.QueryRowContext(ctx, `SELECT player_id FROM api_keys WHERE key_hash = ?`, hash).Scan(&playerID)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && playerID == "") {
		return "", repository.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve api key: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, `UPDATE api_keys SET last_used = ? WHERE key_hash = ?`, time.Now(), hash); err != nil {
		return "", fmt.Errorf("failed to stamp api key: %w", err)
	}
	return playerID, nil
}

// HashToken is the stored form of a bearer token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
