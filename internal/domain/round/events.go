package round

// EventType names a signal raised by a round transition.
type EventType string

const (
	EventTokenFlipped     EventType = "token-flipped"
	EventPairMatched      EventType = "pair-matched"
	EventPairMismatched   EventType = "pair-mismatched"
	EventRoundComplete    EventType = "round-complete"
	EventLifeLost         EventType = "life-lost"
	EventGameOver         EventType = "game-over"
	EventRoundStarted     EventType = "round-started"
	EventRoundRestarted   EventType = "round-restarted"
	EventMemorizeEnded    EventType = "memorize-ended"
	EventMismatchResolved EventType = "mismatch-resolved"
	EventCountdownArmed   EventType = "countdown-armed"
	EventPaused           EventType = "paused"
	EventResumed          EventType = "resumed"
)

// Event is a signal for the UI and audio collaborators. Only the fields
// relevant to Type are set.
type Event struct {
	Type      EventType `json:"type"`
	RoundID   string    `json:"round_id"`
	Level     int       `json:"level"`
	TokenIDs  []int     `json:"token_ids,omitempty"`
	Stars     int       `json:"stars,omitempty"`
	Points    int       `json:"points,omitempty"`
	Moves     int       `json:"moves,omitempty"`
	Remaining *int      `json:"remaining,omitempty"`
	Seconds   int       `json:"seconds,omitempty"`
}

func (r *Round) event(t EventType) Event {
	return Event{Type: t, RoundID: r.id, Level: r.level}
}
