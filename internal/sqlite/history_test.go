package sqlite

import (
	"context"
	"testing"

	"github.com/rpggio/pairs/internal/domain/history"
	"github.com/rpggio/pairs/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestHistoryRepository_LogList(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewHistoryRepository(db)

	first := &history.Entry{RoundID: "r1", Level: 1, Outcome: history.OutcomeComplete, Stars: 3, Points: 600, Moves: 8}
	second := &history.Entry{RoundID: "r2", Level: 2, Outcome: history.OutcomeFailed, Moves: 30}
	require.NoError(t, repo.Log(ctx, "p1", first))
	require.NoError(t, repo.Log(ctx, "p1", second))
	require.NotZero(t, first.ID)
	require.Equal(t, "p1", first.PlayerID)

	entries, err := repo.List(ctx, "p1", history.ListOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "r2", entries[0].RoundID)
	require.Equal(t, "r1", entries[1].RoundID)
	require.Equal(t, 600, entries[1].Points)
}

func TestHistoryRepository_FiltersAndPlayerIsolation(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewHistoryRepository(db)

	for i, level := range []int{1, 1, 2} {
		outcome := history.OutcomeComplete
		if i == 1 {
			outcome = history.OutcomeFailed
		}
		require.NoError(t, repo.Log(ctx, "p1", &history.Entry{RoundID: "r", Level: level, Outcome: outcome}))
	}
	require.NoError(t, repo.Log(ctx, "p2", &history.Entry{RoundID: "x", Level: 1, Outcome: history.OutcomeComplete}))

	level := 1
	entries, err := repo.List(ctx, "p1", history.ListOptions{Level: &level})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	failed := history.OutcomeFailed
	entries, err = repo.List(ctx, "p1", history.ListOptions{Outcome: &failed})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entries, err = repo.List(ctx, "p1", history.ListOptions{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entries, err = repo.List(ctx, "p3", history.ListOptions{})
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestHistoryRepository_RejectsInvalidOutcome(t *testing.T) {
	db := NewTestDB(t)
	err := NewHistoryRepository(db).Log(context.Background(), "p1", &history.Entry{RoundID: "r", Level: 1, Outcome: "quit"})
	require.ErrorIs(t, err, repository.ErrInvalidInput)
}
