package history

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ErrInvalidInput indicates an entry that cannot be recorded.
var ErrInvalidInput = errors.New("invalid history input")

const defaultLimit = 50

// Service handles round history.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new history service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, logger: logger}
}

// Record stores a finished round, stamping it with the current time if missing.
func (s *Service) Record(ctx context.Context, playerID string, entry *Entry) error {
	if entry == nil || entry.Level < 1 {
		return ErrInvalidInput
	}
	if entry.Outcome != OutcomeComplete && entry.Outcome != OutcomeFailed {
		return fmt.Errorf("%w: outcome %q", ErrInvalidInput, entry.Outcome)
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if err := s.repo.Log(ctx, playerID, entry); err != nil {
		return fmt.Errorf("recording history: %w", err)
	}
	return nil
}

// Recent lists the player's finished rounds, newest first.
func (s *Service) Recent(ctx context.Context, playerID string, opts ListOptions) ([]Entry, error) {
	if opts.Limit <= 0 {
		opts.Limit = defaultLimit
	}
	entries, err := s.repo.List(ctx, playerID, opts)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}
	return entries, nil
}
