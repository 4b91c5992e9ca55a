package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/rpggio/pairs/internal/domain/board"
	"github.com/rpggio/pairs/internal/domain/catalog"
	"github.com/rpggio/pairs/internal/domain/history"
	"github.com/rpggio/pairs/internal/domain/progress"
	"github.com/rpggio/pairs/internal/domain/round"
	"github.com/rpggio/pairs/internal/game"
	"github.com/rpggio/pairs/internal/sqlite"
	"github.com/stretchr/testify/require"
)

// orderedDealer pairs token i with token i+pairs.
type orderedDealer struct{}

func (orderedDealer) Deal(level int) ([]board.Token, error) {
	if level < 1 {
		return nil, catalog.ErrInvalidLevel
	}
	pairs := catalog.PairCountForLevel(level)
	tokens := make([]board.Token, pairs*2)
	for i := range tokens {
		tokens[i] = board.Token{ID: i, Symbol: fmt.Sprintf("s%d", i%pairs)}
	}
	return tokens, nil
}

func newTestGame(t *testing.T) *game.Service {
	t.Helper()
	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { db.Close() })

	return game.NewService(game.Config{
		Dealer:    orderedDealer{},
		Progress:  progress.NewService(sqlite.NewProgressRepository(db), nil),
		History:   history.NewService(sqlite.NewHistoryRepository(db), nil),
		Snapshots: sqlite.NewSnapshotRepository(db),
		Scheduler: game.NewManualScheduler(),
		Timings:   game.DefaultTimings(),
	})
}

func TestHandler_PlayRound(t *testing.T) {
	ctx := context.Background()
	handler := NewHandler(newTestGame(t))

	out, err := handler.Handle(ctx, "p1", "start_round", mustJSON(t, StartRoundParams{Level: 1}))
	require.NoError(t, err)
	started := out.(*game.Result)
	require.Equal(t, 1, started.Round.Level)

	for i := 0; i < 6; i++ {
		_, err = handler.Handle(ctx, "p1", "flip", mustJSON(t, FlipParams{TokenID: i}))
		require.NoError(t, err)
		out, err = handler.Handle(ctx, "p1", "flip", mustJSON(t, FlipParams{TokenID: i + 6}))
		require.NoError(t, err)
	}
	require.Equal(t, round.PhaseComplete, out.(*game.Result).Round.Phase)

	out, err = handler.Handle(ctx, "p1", "get_progress", nil)
	require.NoError(t, err)
	prog := out.(ProgressResponse)
	require.Equal(t, 2, prog.CurrentLevel)
	require.Equal(t, []LevelStars{{Level: 1, Stars: 3}}, prog.BestStars)
	require.Equal(t, 3, prog.TotalStars)

	out, err = handler.Handle(ctx, "p1", "get_history", mustJSON(t, GetHistoryParams{Outcome: "complete"}))
	require.NoError(t, err)
	require.Len(t, out.(HistoryResponse).Entries, 1)

	out, err = handler.Handle(ctx, "p1", "list_levels", mustJSON(t, ListLevelsParams{Count: 3}))
	require.NoError(t, err)
	require.Len(t, out.(LevelsResponse).Levels, 3)

	out, err = handler.Handle(ctx, "p1", "reset_progress", nil)
	require.NoError(t, err)
	require.Equal(t, 1, out.(ProgressResponse).CurrentLevel)
}

func TestHandler_RoundCommands(t *testing.T) {
	ctx := context.Background()
	handler := NewHandler(newTestGame(t))

	_, err := handler.Handle(ctx, "p1", "start_round", nil)
	require.NoError(t, err)

	for _, method := range []string{"pause", "resume", "tick", "restart", "get_round", "resume_round"} {
		_, err := handler.Handle(ctx, "p1", method, nil)
		require.NoError(t, err, method)
	}
}

func TestHandler_ErrorMapping(t *testing.T) {
	ctx := context.Background()
	handler := NewHandler(newTestGame(t))

	cases := []struct {
		method string
		params json.RawMessage
		code   string
	}{
		{"flip", mustJSON(t, FlipParams{TokenID: 0}), "NO_ROUND"},
		{"get_round", nil, "NO_ROUND"},
		{"resume_round", nil, "NO_SAVED_ROUND"},
		{"start_round", mustJSON(t, StartRoundParams{Level: -1}), "INVALID_LEVEL"},
		{"flip", json.RawMessage(`{"token_id":"zero"}`), "INVALID_PARAMS"},
		{"get_history", mustJSON(t, GetHistoryParams{Outcome: "abandoned"}), "INVALID_INPUT"},
		{"create_project", nil, "METHOD_NOT_FOUND"},
	}
	for _, tc := range cases {
		_, err := handler.Handle(ctx, "p1", tc.method, tc.params)
		require.Error(t, err, tc.method)
		apiErr, ok := err.(*APIError)
		require.True(t, ok, tc.method)
		require.Equal(t, tc.code, apiErr.Code, tc.method)
	}
}

func TestHandler_IgnoredFlipIsNotAnError(t *testing.T) {
	ctx := context.Background()
	handler := NewHandler(newTestGame(t))
	_, err := handler.Handle(ctx, "p1", "start_round", nil)
	require.NoError(t, err)

	out, err := handler.Handle(ctx, "p1", "flip", mustJSON(t, FlipParams{TokenID: 500}))
	require.NoError(t, err)
	require.False(t, out.(*game.Result).Accepted)
}

func TestHandler_ListLevelsCapsCount(t *testing.T) {
	handler := NewHandler(newTestGame(t))

	out, err := handler.Handle(context.Background(), "p1", "list_levels", json.RawMessage(`{"count":1125899906842624}`))
	require.NoError(t, err)
	require.Len(t, out.(LevelsResponse).Levels, progress.MaxListedLevels)
}

func TestMapError_PassesThroughUnknown(t *testing.T) {
	require.Nil(t, MapError(nil))
	require.Nil(t, MapError(fmt.Errorf("boom")))
	require.Equal(t, "NO_ROUND", MapError(fmt.Errorf("wrapped: %w", game.ErrNoRound)).Code)
}

func mustJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}
