package board

import "errors"

var (
	// ErrInvalidSymbols indicates an empty or repeating symbol set.
	ErrInvalidSymbols = errors.New("invalid symbol set")
	// ErrInvalidBoard indicates a token sequence that is not a valid paired deck.
	ErrInvalidBoard = errors.New("invalid board")
)
