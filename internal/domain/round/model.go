package round

import "github.com/rpggio/pairs/internal/domain/board"

// Phase is the coarse state of a round.
type Phase string

const (
	PhaseMemorizing Phase = "memorizing"
	PhasePlaying    Phase = "playing"
	PhaseResolving  Phase = "resolving"
	PhaseComplete   Phase = "complete"
	PhaseFailed     Phase = "failed"
)

// Valid reports whether p is a known phase.
func (p Phase) Valid() bool {
	switch p {
	case PhaseMemorizing, PhasePlaying, PhaseResolving, PhaseComplete, PhaseFailed:
		return true
	}
	return false
}

// Running reports whether the countdown may run in this phase.
func (p Phase) Running() bool {
	return p == PhasePlaying || p == PhaseResolving
}

// Terminal reports whether the round is over.
func (p Phase) Terminal() bool {
	return p == PhaseComplete || p == PhaseFailed
}

// TokenStatus is derived from the round's flipped and matched sets.
type TokenStatus string

const (
	StatusHidden  TokenStatus = "hidden"
	StatusFlipped TokenStatus = "flipped"
	StatusMatched TokenStatus = "matched"
)

const (
	// MaxLives is the number of lives a round starts with.
	MaxLives = 3
	// MemorizePairs is the pair count from which a round opens with a preview.
	MemorizePairs = 14
	// CountdownMoves is the move count after which a mismatch arms the countdown.
	CountdownMoves = 10
)

// Dealer produces a fresh shuffled board for a level.
type Dealer interface {
	Deal(level int) ([]board.Token, error)
}

// TokenView is one token as the player sees it. Symbol is empty while hidden.
type TokenView struct {
	ID     int         `json:"id"`
	Symbol string      `json:"symbol,omitempty"`
	Status TokenStatus `json:"status"`
}

// View is a read-only projection of a round for clients.
type View struct {
	ID            string      `json:"id"`
	Level         int         `json:"level"`
	Phase         Phase       `json:"phase"`
	Paused        bool        `json:"paused"`
	Moves         int         `json:"moves"`
	Points        int         `json:"points"`
	Lives         int         `json:"lives"`
	Stars         int         `json:"stars"`
	Pairs         int         `json:"pairs"`
	MatchedPairs  int         `json:"matched_pairs"`
	TimeLimit     *int        `json:"time_limit,omitempty"`
	TimeRemaining *int        `json:"time_remaining,omitempty"`
	Generation    int         `json:"generation"`
	Tokens        []TokenView `json:"tokens"`
}

// Snapshot is the full serializable state of a round.
type Snapshot struct {
	ID            string        `json:"id"`
	Level         int           `json:"level"`
	Tokens        []board.Token `json:"tokens"`
	Flipped       []int         `json:"flipped"`
	Matched       []int         `json:"matched"`
	Moves         int           `json:"moves"`
	Points        int           `json:"points"`
	Lives         int           `json:"lives"`
	TimeLimit     *int          `json:"time_limit,omitempty"`
	TimeRemaining *int          `json:"time_remaining,omitempty"`
	Phase         Phase         `json:"phase"`
	Paused        bool          `json:"paused"`
	Generation    int           `json:"generation"`
}
