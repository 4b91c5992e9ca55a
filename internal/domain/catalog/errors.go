package catalog

import "errors"

var (
	// ErrInvalidLevel indicates a level below 1.
	ErrInvalidLevel = errors.New("invalid level")
	// ErrInsufficientSymbols indicates a theme cannot cover the maximum pair count.
	ErrInsufficientSymbols = errors.New("not enough symbols")
	// ErrDuplicateSymbol indicates a symbol appears more than once in the catalog.
	ErrDuplicateSymbol = errors.New("duplicate symbol")
)
