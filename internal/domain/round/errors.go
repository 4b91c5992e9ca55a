package round

import "errors"

var (
	// ErrInvalidLevel indicates the level cannot produce a board.
	ErrInvalidLevel = errors.New("invalid level")
	// ErrInvalidFlip indicates a flip that the current state does not accept.
	// Callers treat it as a silent no-op.
	ErrInvalidFlip = errors.New("invalid flip")
	// ErrNotMemorizing indicates there is no preview to end.
	ErrNotMemorizing = errors.New("round is not memorizing")
	// ErrNotResolving indicates there is no mismatch to resolve.
	ErrNotResolving = errors.New("round is not resolving")
	// ErrNoCountdown indicates a tick before the countdown was armed.
	ErrNoCountdown = errors.New("countdown not armed")
	// ErrNotRunning indicates the round is paused or finished.
	ErrNotRunning = errors.New("round is not running")
	// ErrInvalidSnapshot indicates a snapshot that breaks a round invariant.
	ErrInvalidSnapshot = errors.New("invalid round snapshot")
)
