package round

import (
	"fmt"

	"github.com/rpggio/pairs/internal/domain/board"
)

// Snapshot captures the full state of the round.
func (r *Round) Snapshot() Snapshot {
	return Snapshot{
		ID:            r.id,
		Level:         r.level,
		Tokens:        r.Tokens(),
		Flipped:       append([]int{}, r.flipped...),
		Matched:       r.MatchedIDs(),
		Moves:         r.moves,
		Points:        r.points,
		Lives:         r.lives,
		TimeLimit:     copyInt(r.timeLimit),
		TimeRemaining: copyInt(r.remaining),
		Phase:         r.phase,
		Paused:        r.paused,
		Generation:    r.generation,
	}
}

// Restore rebuilds a round from a snapshot after checking every invariant.
// A pending mismatch is resolved on restore, since its timer did not survive.
func Restore(s Snapshot, dealer Dealer) (*Round, error) {
	if err := validateSnapshot(s); err != nil {
		return nil, err
	}

	r := &Round{
		id:         s.ID,
		level:      s.Level,
		tokens:     append([]board.Token(nil), s.Tokens...),
		flipped:    append([]int(nil), s.Flipped...),
		matched:    make(map[int]bool, len(s.Tokens)),
		moves:      s.Moves,
		points:     s.Points,
		lives:      s.Lives,
		timeLimit:  copyInt(s.TimeLimit),
		remaining:  copyInt(s.TimeRemaining),
		phase:      s.Phase,
		paused:     s.Paused,
		generation: s.Generation,
		dealer:     dealer,
	}
	for _, id := range s.Matched {
		r.matched[id] = true
	}
	if r.phase == PhaseResolving {
		r.flipped = nil
		r.phase = PhasePlaying
	}
	return r, nil
}

func validateSnapshot(s Snapshot) error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidSnapshot, fmt.Sprintf(format, args...))
	}

	if s.ID == "" {
		return invalid("missing id")
	}
	if s.Level < 1 {
		return invalid("level %d", s.Level)
	}
	if !s.Phase.Valid() {
		return invalid("unknown phase %q", s.Phase)
	}
	if err := board.Validate(s.Tokens); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	if s.Lives < 0 || s.Lives > MaxLives {
		return invalid("lives %d", s.Lives)
	}
	if s.Moves < 0 || s.Points < 0 {
		return invalid("negative counters")
	}
	if (s.TimeLimit == nil) != (s.TimeRemaining == nil) {
		return invalid("countdown half set")
	}
	if s.TimeLimit != nil && (*s.TimeRemaining < 0 || *s.TimeRemaining > *s.TimeLimit) {
		return invalid("countdown %d of %d", *s.TimeRemaining, *s.TimeLimit)
	}

	matched := make(map[int]bool, len(s.Matched))
	for _, id := range s.Matched {
		if id < 0 || id >= len(s.Tokens) || matched[id] {
			return invalid("matched id %d", id)
		}
		matched[id] = true
	}
	perSymbol := make(map[string]int)
	for id := range matched {
		perSymbol[s.Tokens[id].Symbol]++
	}
	for sym, n := range perSymbol {
		if n != 2 {
			return invalid("symbol %q half matched", sym)
		}
	}

	if len(s.Flipped) > 2 {
		return invalid("%d flipped", len(s.Flipped))
	}
	seen := make(map[int]bool, 2)
	for _, id := range s.Flipped {
		if id < 0 || id >= len(s.Tokens) || seen[id] || matched[id] {
			return invalid("flipped id %d", id)
		}
		seen[id] = true
	}

	complete := len(matched) == len(s.Tokens)
	switch s.Phase {
	case PhaseComplete:
		if !complete {
			return invalid("complete with unmatched tokens")
		}
	case PhaseFailed:
		if s.Lives != 0 {
			return invalid("failed with %d lives", s.Lives)
		}
	case PhaseMemorizing:
		if len(matched) > 0 || len(s.Flipped) > 0 {
			return invalid("memorizing with revealed tokens")
		}
	case PhasePlaying:
		if complete || len(s.Flipped) > 1 {
			return invalid("playing with %d flipped", len(s.Flipped))
		}
	case PhaseResolving:
		if len(s.Flipped) != 2 {
			return invalid("resolving with %d flipped", len(s.Flipped))
		}
	}
	if !s.Phase.Terminal() && s.Lives == 0 {
		return invalid("no lives left")
	}
	return nil
}
