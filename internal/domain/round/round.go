package round

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/rpggio/pairs/internal/domain/board"
	"github.com/rpggio/pairs/internal/domain/scoring"
)

// Round is the live state of one board. It performs no I/O and schedules
// nothing: the memorize preview, the mismatch delay and the countdown tick
// are driven from outside through EndMemorize, ResolveMismatch and Tick.
type Round struct {
	id         string
	level      int
	tokens     []board.Token
	flipped    []int
	matched    map[int]bool
	moves      int
	points     int
	lives      int
	timeLimit  *int
	remaining  *int
	phase      Phase
	paused     bool
	generation int
	dealer     Dealer
}

// New deals a board for level and starts a round with full lives.
func New(level int, dealer Dealer) (*Round, error) {
	if level < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLevel, level)
	}
	r := &Round{
		id:     uuid.NewString(),
		level:  level,
		lives:  MaxLives,
		dealer: dealer,
	}
	if err := r.deal(); err != nil {
		return nil, err
	}
	return r, nil
}

// deal replaces the board and resets everything except lives and identity.
func (r *Round) deal() error {
	tokens, err := r.dealer.Deal(r.level)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidLevel, err)
	}
	r.tokens = tokens
	r.flipped = nil
	r.matched = make(map[int]bool, len(tokens))
	r.moves = 0
	r.points = 0
	r.timeLimit = nil
	r.remaining = nil
	r.generation++
	if needsPreview(len(tokens)) {
		r.phase = PhaseMemorizing
	} else {
		r.phase = PhasePlaying
	}
	return nil
}

// ID identifies the round. It survives timeout re-deals.
func (r *Round) ID() string { return r.id }

// Level is the level being played.
func (r *Round) Level() int { return r.level }

// Phase reports the current state.
func (r *Round) Phase() Phase { return r.phase }

// Paused reports whether input and the countdown are suspended.
func (r *Round) Paused() bool { return r.paused }

// Moves counts completed pair attempts.
func (r *Round) Moves() int { return r.moves }

// Points is the score so far.
func (r *Round) Points() int { return r.points }

// Lives is the number of timeouts left before the round fails.
func (r *Round) Lives() int { return r.lives }

// Generation changes on every deal; timers scheduled for an older
// generation must be dropped.
func (r *Round) Generation() int { return r.generation }

// TokenCount is the board size.
func (r *Round) TokenCount() int { return len(r.tokens) }

// CountdownArmed reports whether the time limit is running.
func (r *Round) CountdownArmed() bool { return r.remaining != nil }

// Stars is the live rating for the current move count.
func (r *Round) Stars() int { return scoring.Stars(r.moves) }

// TimeRemaining returns the countdown and whether it is armed.
func (r *Round) TimeRemaining() (int, bool) {
	if r.remaining == nil {
		return 0, false
	}
	return *r.remaining, true
}

// Tokens returns a copy of the board.
func (r *Round) Tokens() []board.Token {
	return append([]board.Token(nil), r.tokens...)
}

// FlippedIDs returns the face-up unmatched tokens. During the preview that is
// every token.
func (r *Round) FlippedIDs() []int {
	if r.phase == PhaseMemorizing {
		ids := make([]int, 0, len(r.tokens))
		for _, tok := range r.tokens {
			if !r.matched[tok.ID] {
				ids = append(ids, tok.ID)
			}
		}
		return ids
	}
	return append([]int(nil), r.flipped...)
}

// MatchedIDs returns the matched tokens in ascending order.
func (r *Round) MatchedIDs() []int {
	ids := make([]int, 0, len(r.matched))
	for id := range r.matched {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Status projects a token's state from the flipped and matched sets.
func (r *Round) Status(id int) TokenStatus {
	switch {
	case r.matched[id]:
		return StatusMatched
	case r.phase == PhaseMemorizing, r.isFlipped(id):
		return StatusFlipped
	default:
		return StatusHidden
	}
}

func (r *Round) isFlipped(id int) bool {
	for _, f := range r.flipped {
		if f == id {
			return true
		}
	}
	return false
}

// Flip turns a token face up. Anything the state does not accept returns
// ErrInvalidFlip and leaves the round untouched.
func (r *Round) Flip(id int) ([]Event, error) {
	if r.phase != PhasePlaying || r.paused {
		return nil, fmt.Errorf("%w: phase %s, paused %t", ErrInvalidFlip, r.phase, r.paused)
	}
	if id < 0 || id >= len(r.tokens) {
		return nil, fmt.Errorf("%w: token %d out of range", ErrInvalidFlip, id)
	}
	if r.matched[id] || r.isFlipped(id) {
		return nil, fmt.Errorf("%w: token %d already face up", ErrInvalidFlip, id)
	}

	r.flipped = append(r.flipped, id)
	flippedEvt := r.event(EventTokenFlipped)
	flippedEvt.TokenIDs = []int{id}
	events := []Event{flippedEvt}
	if len(r.flipped) < 2 {
		return events, nil
	}

	r.phase = PhaseResolving
	r.moves++
	first, second := r.flipped[0], r.flipped[1]
	pair := []int{first, second}

	if r.tokens[first].Symbol == r.tokens[second].Symbol {
		r.matched[first] = true
		r.matched[second] = true
		r.flipped = nil
		r.points += scoring.PointsPerMatch
		matchEvt := r.event(EventPairMatched)
		matchEvt.TokenIDs = pair
		events = append(events, matchEvt)

		if len(r.matched) == len(r.tokens) {
			r.phase = PhaseComplete
			done := r.event(EventRoundComplete)
			done.Stars = r.Stars()
			done.Points = r.points
			done.Moves = r.moves
			return append(events, done), nil
		}
		r.phase = PhasePlaying
		return events, nil
	}

	missEvt := r.event(EventPairMismatched)
	missEvt.TokenIDs = pair
	events = append(events, missEvt)

	if r.moves >= CountdownMoves && r.remaining == nil {
		limit := TimeLimitFor(len(r.tokens))
		remaining := limit
		r.timeLimit = &limit
		r.remaining = &remaining
		armed := r.event(EventCountdownArmed)
		armed.Seconds = limit
		events = append(events, armed)
	}
	return events, nil
}

// ResolveMismatch turns a mismatched pair face down again.
func (r *Round) ResolveMismatch() ([]Event, error) {
	if r.phase != PhaseResolving {
		return nil, ErrNotResolving
	}
	evt := r.event(EventMismatchResolved)
	evt.TokenIDs = r.flipped
	r.flipped = nil
	r.phase = PhasePlaying
	return []Event{evt}, nil
}

// EndMemorize ends the opening preview.
func (r *Round) EndMemorize() ([]Event, error) {
	if r.phase != PhaseMemorizing {
		return nil, ErrNotMemorizing
	}
	r.flipped = nil
	r.phase = PhasePlaying
	return []Event{r.event(EventMemorizeEnded)}, nil
}

// Tick advances the countdown by one second. When it runs out the round
// loses a life and either fails or is dealt again at the same level.
func (r *Round) Tick() ([]Event, error) {
	if r.remaining == nil {
		return nil, ErrNoCountdown
	}
	if r.paused || !r.phase.Running() {
		return nil, ErrNotRunning
	}

	left := *r.remaining - 1
	r.remaining = &left
	if left > 0 {
		return nil, nil
	}

	r.lives--
	lives := r.lives
	lost := r.event(EventLifeLost)
	lost.Remaining = &lives
	events := []Event{lost}

	if r.lives <= 0 {
		r.lives = 0
		r.flipped = nil
		r.phase = PhaseFailed
		return append(events, r.event(EventGameOver)), nil
	}

	if err := r.deal(); err != nil {
		return events, err
	}
	return append(events, r.restartedEvent()), nil
}

// Pause suspends input and the countdown. It is a no-op once the round is over.
func (r *Round) Pause() []Event {
	if r.paused || r.phase.Terminal() {
		return nil
	}
	r.paused = true
	return []Event{r.event(EventPaused)}
}

// Resume lifts a pause.
func (r *Round) Resume() []Event {
	if !r.paused {
		return nil
	}
	r.paused = false
	return []Event{r.event(EventResumed)}
}

// Restart deals the same level again with full lives.
func (r *Round) Restart() ([]Event, error) {
	if err := r.deal(); err != nil {
		return nil, err
	}
	r.lives = MaxLives
	r.paused = false
	return []Event{r.restartedEvent()}, nil
}

// StartedEvent describes the round for the round-started signal.
func (r *Round) StartedEvent() Event {
	evt := r.event(EventRoundStarted)
	lives := r.lives
	evt.Remaining = &lives
	return evt
}

func (r *Round) restartedEvent() Event {
	evt := r.event(EventRoundRestarted)
	lives := r.lives
	evt.Remaining = &lives
	return evt
}

// View projects the round for clients, hiding face-down symbols.
func (r *Round) View() View {
	tokens := make([]TokenView, len(r.tokens))
	for i, tok := range r.tokens {
		status := r.Status(tok.ID)
		view := TokenView{ID: tok.ID, Status: status}
		if status != StatusHidden {
			view.Symbol = tok.Symbol
		}
		tokens[i] = view
	}
	return View{
		ID:            r.id,
		Level:         r.level,
		Phase:         r.phase,
		Paused:        r.paused,
		Moves:         r.moves,
		Points:        r.points,
		Lives:         r.lives,
		Stars:         r.Stars(),
		Pairs:         len(r.tokens) / 2,
		MatchedPairs:  len(r.matched) / 2,
		TimeLimit:     copyInt(r.timeLimit),
		TimeRemaining: copyInt(r.remaining),
		Generation:    r.generation,
		Tokens:        tokens,
	}
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
