package history

import "time"

// Outcome is how a round ended.
type Outcome string

const (
	OutcomeComplete Outcome = "complete"
	OutcomeFailed   Outcome = "failed"
)

// Entry records one finished round.
type Entry struct {
	ID        int64     `json:"id"`
	PlayerID  string    `json:"player_id"`
	RoundID   string    `json:"round_id"`
	Level     int       `json:"level"`
	Outcome   Outcome   `json:"outcome"`
	Stars     int       `json:"stars"`
	Points    int       `json:"points"`
	Moves     int       `json:"moves"`
	CreatedAt time.Time `json:"created_at"`
}

// ListOptions filters history listings.
type ListOptions struct {
	Level   *int
	Outcome *Outcome
	Limit   int
	Offset  int
}
