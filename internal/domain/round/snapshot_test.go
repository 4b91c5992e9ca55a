package round_test

import (
	"encoding/json"
	"testing"

	"github.com/rpggio/pairs/internal/domain/round"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_RoundTrip(t *testing.T) {
	r, dealer := newRound(t, 1)
	_, err := r.Flip(0)
	require.NoError(t, err)
	_, err = r.Flip(6)
	require.NoError(t, err)
	_, err = r.Flip(2)
	require.NoError(t, err)
	r.Pause()

	data, err := json.Marshal(r.Snapshot())
	require.NoError(t, err)
	var snap round.Snapshot
	require.NoError(t, json.Unmarshal(data, &snap))

	restored, err := round.Restore(snap, dealer)
	require.NoError(t, err)
	require.Equal(t, r.View(), restored.View())
	require.Equal(t, []int{2}, restored.FlippedIDs())
	require.True(t, restored.Paused())

	restored.Resume()
	_, err = restored.Flip(8)
	require.NoError(t, err)
	require.Equal(t, []int{0, 2, 6, 8}, restored.MatchedIDs())
}

func TestRestore_ResolvingBecomesPlaying(t *testing.T) {
	r, dealer := newRound(t, 1)
	_, err := r.Flip(0)
	require.NoError(t, err)
	_, err = r.Flip(1)
	require.NoError(t, err)

	restored, err := round.Restore(r.Snapshot(), dealer)
	require.NoError(t, err)
	require.Equal(t, round.PhasePlaying, restored.Phase())
	require.Empty(t, restored.FlippedIDs())
	require.Equal(t, 1, restored.Moves())
}

func TestRestore_KeepsCountdown(t *testing.T) {
	r, dealer := newRound(t, 1)
	armCountdown(t, r)
	_, err := r.Tick()
	require.NoError(t, err)

	restored, err := round.Restore(r.Snapshot(), dealer)
	require.NoError(t, err)
	left, armed := restored.TimeRemaining()
	require.True(t, armed)
	require.Equal(t, 59, left)
}

func TestRestore_RejectsBrokenSnapshots(t *testing.T) {
	r, dealer := newRound(t, 1)
	base := r.Snapshot()

	tests := []struct {
		name   string
		mutate func(s *round.Snapshot)
	}{
		{"missing id", func(s *round.Snapshot) { s.ID = "" }},
		{"bad level", func(s *round.Snapshot) { s.Level = 0 }},
		{"unknown phase", func(s *round.Snapshot) { s.Phase = "dancing" }},
		{"odd board", func(s *round.Snapshot) { s.Tokens = s.Tokens[:11] }},
		{"too many lives", func(s *round.Snapshot) { s.Lives = 4 }},
		{"half matched pair", func(s *round.Snapshot) { s.Matched = []int{0} }},
		{"flipped and matched", func(s *round.Snapshot) {
			s.Matched = []int{0, 6}
			s.Flipped = []int{0}
		}},
		{"three flipped", func(s *round.Snapshot) {
			s.Flipped = []int{0, 1, 2}
		}},
		{"playing with two flipped", func(s *round.Snapshot) { s.Flipped = []int{0, 1} }},
		{"countdown half set", func(s *round.Snapshot) {
			limit := 60
			s.TimeLimit = &limit
		}},
		{"complete early", func(s *round.Snapshot) { s.Phase = round.PhaseComplete }},
		{"failed with lives", func(s *round.Snapshot) { s.Phase = round.PhaseFailed }},
		{"no lives while playing", func(s *round.Snapshot) { s.Lives = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := base
			snap.Tokens = append(snap.Tokens[:0:0], base.Tokens...)
			tt.mutate(&snap)
			_, err := round.Restore(snap, dealer)
			require.ErrorIs(t, err, round.ErrInvalidSnapshot)
		})
	}
}
