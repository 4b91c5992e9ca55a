package game

import "errors"

var (
	// ErrInvalidLevel indicates the requested level cannot produce a board.
	ErrInvalidLevel = errors.New("invalid level")
	// ErrNoRound indicates the player has no live round.
	ErrNoRound = errors.New("no round in progress")
	// ErrNoSavedRound indicates there is no usable saved round to resume.
	ErrNoSavedRound = errors.New("no saved round")
)
