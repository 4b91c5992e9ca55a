package sqlite

import (
	"context"
	"database/sql"
	"testing"

	"github.com/rpggio/pairs/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestAPIKeyRepository_Resolve(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewAPIKeyRepository(db)

	require.NoError(t, repo.Create(ctx, "secret", "player-1", "laptop"))

	playerID, err := repo.ResolvePlayer(ctx, "secret")
	require.NoError(t, err)
	require.Equal(t, "player-1", playerID)

	var lastUsed sql.NullString
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT last_used FROM api_keys WHERE key_hash = ?`, HashToken("secret")).Scan(&lastUsed))
	require.True(t, lastUsed.Valid)

	_, err = repo.ResolvePlayer(ctx, "wrong")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAPIKeyRepository_StoresHashOnly(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	require.NoError(t, NewAPIKeyRepository(db).Create(ctx, "secret", "player-1", ""))

	var count int
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM api_keys WHERE key_hash = ?`, "secret").Scan(&count))
	require.Zero(t, count)
}
