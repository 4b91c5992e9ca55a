package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rpggio/pairs/internal/repository"
)

// Service owns each player's ledger for the process lifetime. Storage is a
// side channel: a failed read falls back to a fresh ledger and a failed
// write is logged, so gameplay never depends on persistence.
//
// A ledger whose read failed for a reason other than a missing or corrupt
// value is unconfirmed: it is not written back, and the read is retried on
// each access until the stored ledger can be merged in.
type Service struct {
	repo        Repository
	logger      *slog.Logger
	mu          sync.Mutex
	ledgers     map[string]*Ledger
	unconfirmed map[string]bool
}

// NewService creates a new progress service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		repo:        repo,
		logger:      logger,
		ledgers:     make(map[string]*Ledger),
		unconfirmed: make(map[string]bool),
	}
}

// Load returns a copy of the player's ledger.
func (s *Service) Load(ctx context.Context, playerID string) *Ledger {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledgerLocked(ctx, playerID).Clone()
}

// RecordCompletion applies a finished round and persists the whole ledger.
func (s *Service) RecordCompletion(ctx context.Context, playerID string, level, stars int) (*Ledger, error) {
	if level < 1 {
		return nil, fmt.Errorf("%w: level %d", ErrInvalidInput, level)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ledger := s.ledgerLocked(ctx, playerID)
	ledger.RecordCompletion(level, stars)
	s.saveLocked(ctx, playerID, ledger)
	return ledger.Clone(), nil
}

// Reset clears the player's progress.
func (s *Service) Reset(ctx context.Context, playerID string) *Ledger {
	s.mu.Lock()
	defer s.mu.Unlock()

	ledger := s.ledgerLocked(ctx, playerID)
	ledger.Reset()
	delete(s.unconfirmed, playerID)
	s.saveLocked(ctx, playerID, ledger)
	return ledger.Clone()
}

func (s *Service) ledgerLocked(ctx context.Context, playerID string) *Ledger {
	cached, ok := s.ledgers[playerID]
	if ok && !s.unconfirmed[playerID] {
		return cached
	}

	stored, err := s.repo.Get(ctx, playerID)
	switch {
	case errors.Is(err, repository.ErrNotFound), err == nil && stored == nil:
		stored = NewLedger()
	case errors.Is(err, repository.ErrCorrupt):
		s.logger.Warn("stored progress is corrupt, starting fresh", "player_id", playerID, "error", err)
		stored = NewLedger()
	case err != nil:
		s.logger.Warn("loading progress failed", "player_id", playerID, "error", err)
		if !ok {
			cached = NewLedger()
			s.ledgers[playerID] = cached
		}
		s.unconfirmed[playerID] = true
		return cached
	default:
		stored.normalize()
	}

	delete(s.unconfirmed, playerID)
	if !ok {
		s.ledgers[playerID] = stored
		return stored
	}
	// Completions recorded while storage was unreadable are kept.
	cached.Merge(stored)
	s.saveLocked(ctx, playerID, cached)
	return cached
}

// saveLocked writes the full ledger; callers hold s.mu so writes never interleave.
func (s *Service) saveLocked(ctx context.Context, playerID string, ledger *Ledger) {
	if s.unconfirmed[playerID] {
		s.logger.Warn("progress not saved, stored ledger unreadable", "player_id", playerID)
		return
	}
	if err := s.repo.Save(ctx, playerID, ledger.Clone()); err != nil {
		s.logger.Error("saving progress failed", "player_id", playerID, "error", err)
	}
}
