package progress

import "errors"

var (
	// ErrInvalidInput indicates a completion for a level below 1.
	ErrInvalidInput = errors.New("invalid progress input")
)
