package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rpggio/pairs/internal/domain/history"
	"github.com/rpggio/pairs/internal/domain/progress"
	"github.com/rpggio/pairs/internal/domain/round"
	"github.com/rpggio/pairs/internal/repository"
)

// Timings configures the engine's delays.
type Timings struct {
	Memorize      time.Duration
	Resolve       time.Duration
	Tick          time.Duration
	AutoTick      bool
	PersistRounds bool
}

// DefaultTimings returns the stock delays: 3s preview, 1s mismatch, 1s tick.
func DefaultTimings() Timings {
	return Timings{
		Memorize:      3 * time.Second,
		Resolve:       time.Second,
		Tick:          time.Second,
		AutoTick:      true,
		PersistRounds: true,
	}
}

// Config holds the collaborators of a Service.
type Config struct {
	Dealer    round.Dealer
	Progress  *progress.Service
	History   *history.Service
	Snapshots round.Repository
	Scheduler Scheduler
	Sink      EventSink
	Timings   Timings
	Logger    *slog.Logger
}

// Result is the outcome of a command. Accepted is false when the round
// ignored the input, for instance a flip on a face-up token.
type Result struct {
	Accepted bool          `json:"accepted"`
	Round    round.View    `json:"round"`
	Events   []round.Event `json:"events"`
}

type timerKind string

const (
	timerMemorize timerKind = "memorize"
	timerResolve  timerKind = "resolve"
	timerTick     timerKind = "tick"
)

type pendingTimer struct {
	generation int
	seq        uint64
	cancel     Cancel
}

// table is one player's live round and its outstanding timers.
type table struct {
	round  *round.Round
	timers map[timerKind]pendingTimer
}

// Service drives live rounds. It is the only mutator of a round: commands
// and timer callbacks are serialized by one mutex.
type Service struct {
	dealer    round.Dealer
	progress  *progress.Service
	history   *history.Service
	snapshots round.Repository
	sched     Scheduler
	sink      EventSink
	timings   Timings
	logger    *slog.Logger

	mu      sync.Mutex
	seq     uint64
	players map[string]*table
}

// NewService creates a new game service.
func NewService(cfg Config) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	sched := cfg.Scheduler
	if sched == nil {
		sched = ClockScheduler{}
	}
	sink := cfg.Sink
	if sink == nil {
		sink = Sinks{}
	}
	return &Service{
		dealer:    cfg.Dealer,
		progress:  cfg.Progress,
		history:   cfg.History,
		snapshots: cfg.Snapshots,
		sched:     sched,
		sink:      sink,
		timings:   cfg.Timings,
		logger:    logger,
		players:   make(map[string]*table),
	}
}

// StartRound deals a new round, replacing any live one. Level 0 starts the
// player's current level.
func (s *Service) StartRound(ctx context.Context, playerID string, level int) (*Result, error) {
	if level == 0 && s.progress != nil {
		level = s.progress.Load(ctx, playerID).CurrentLevel
	}
	if level < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLevel, level)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := round.New(level, s.dealer)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLevel, err)
	}

	s.replaceLocked(playerID, r)
	s.logger.Info("round started", "player_id", playerID, "round_id", r.ID(), "level", level, "tokens", r.TokenCount())
	return s.applyLocked(ctx, playerID, []round.Event{r.StartedEvent()}), nil
}

// Flip turns a token face up.
func (s *Service) Flip(ctx context.Context, playerID string, tokenID int) (*Result, error) {
	return s.command(ctx, playerID, func(r *round.Round) ([]round.Event, error) {
		return r.Flip(tokenID)
	})
}

// Tick advances the countdown by one second.
func (s *Service) Tick(ctx context.Context, playerID string) (*Result, error) {
	return s.command(ctx, playerID, (*round.Round).Tick)
}

// Pause suspends input and the countdown.
func (s *Service) Pause(ctx context.Context, playerID string) (*Result, error) {
	return s.command(ctx, playerID, func(r *round.Round) ([]round.Event, error) {
		return changed(r.Pause())
	})
}

// Resume lifts a pause.
func (s *Service) Resume(ctx context.Context, playerID string) (*Result, error) {
	return s.command(ctx, playerID, func(r *round.Round) ([]round.Event, error) {
		return changed(r.Resume())
	})
}

// Restart deals the live round's level again with full lives.
func (s *Service) Restart(ctx context.Context, playerID string) (*Result, error) {
	return s.command(ctx, playerID, (*round.Round).Restart)
}

// Current returns the player's live round.
func (s *Service) Current(ctx context.Context, playerID string) (*round.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.players[playerID]
	if !ok {
		return nil, ErrNoRound
	}
	view := t.round.View()
	return &view, nil
}

// ResumeSaved replaces the live round with the player's saved one.
func (s *Service) ResumeSaved(ctx context.Context, playerID string) (*Result, error) {
	if s.snapshots == nil {
		return nil, ErrNoSavedRound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.snapshots.Get(ctx, playerID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("loading saved round failed", "player_id", playerID, "error", err)
		}
		return nil, ErrNoSavedRound
	}

	r, err := round.Restore(*snap, s.dealer)
	if err != nil {
		s.logger.Warn("saved round rejected", "player_id", playerID, "error", err)
		return nil, ErrNoSavedRound
	}

	s.replaceLocked(playerID, r)
	s.logger.Info("round resumed", "player_id", playerID, "round_id", r.ID(), "level", r.Level())
	return s.applyLocked(ctx, playerID, []round.Event{r.StartedEvent()}), nil
}

// Progress returns the player's ledger.
func (s *Service) Progress(ctx context.Context, playerID string) *progress.Ledger {
	if s.progress == nil {
		return progress.NewLedger()
	}
	return s.progress.Load(ctx, playerID)
}

// Levels returns the level-select grid.
func (s *Service) Levels(ctx context.Context, playerID string, n int) []progress.LevelStatus {
	if n <= 0 {
		n = progress.SelectableLevels
	}
	return s.Progress(ctx, playerID).Levels(n)
}

// ResetProgress clears the player's ledger and discards the saved round.
func (s *Service) ResetProgress(ctx context.Context, playerID string) *progress.Ledger {
	if s.snapshots != nil {
		s.mu.Lock()
		if err := s.snapshots.Delete(ctx, playerID); err != nil {
			s.logger.Error("deleting saved round failed", "player_id", playerID, "error", err)
		}
		s.mu.Unlock()
	}
	if s.progress == nil {
		return progress.NewLedger()
	}
	s.logger.Info("progress reset", "player_id", playerID)
	return s.progress.Reset(ctx, playerID)
}

// History lists the player's finished rounds.
func (s *Service) History(ctx context.Context, playerID string, opts history.ListOptions) ([]history.Entry, error) {
	if s.history == nil {
		return []history.Entry{}, nil
	}
	return s.history.Recent(ctx, playerID, opts)
}

// command runs fn against the live round. Rejections from the round are
// reported as an unaccepted result rather than an error.
func (s *Service) command(ctx context.Context, playerID string, fn func(*round.Round) ([]round.Event, error)) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.players[playerID]
	if !ok {
		return nil, ErrNoRound
	}

	events, err := fn(t.round)
	if err != nil {
		if errors.Is(err, round.ErrInvalidLevel) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidLevel, err)
		}
		s.logger.Debug("command ignored", "player_id", playerID, "round_id", t.round.ID(), "reason", err)
		return &Result{Round: t.round.View(), Events: []round.Event{}}, nil
	}
	return s.applyLocked(ctx, playerID, events), nil
}

var errUnchanged = errors.New("no state change")

// changed turns an empty transition into a rejection.
func changed(events []round.Event) ([]round.Event, error) {
	if len(events) == 0 {
		return nil, errUnchanged
	}
	return events, nil
}

// replaceLocked installs r as the player's live round, cancelling the
// previous round's timers.
func (s *Service) replaceLocked(playerID string, r *round.Round) {
	if old, ok := s.players[playerID]; ok {
		cancelAll(old)
	}
	s.players[playerID] = &table{round: r, timers: make(map[timerKind]pendingTimer)}
}

// applyLocked publishes events, records outcomes and reschedules timers.
func (s *Service) applyLocked(ctx context.Context, playerID string, events []round.Event) *Result {
	t := s.players[playerID]
	r := t.round

	for _, evt := range events {
		s.sink.Publish(playerID, evt)
	}

	switch r.Phase() {
	case round.PhaseComplete:
		s.finishLocked(ctx, playerID, r, history.OutcomeComplete)
	case round.PhaseFailed:
		s.finishLocked(ctx, playerID, r, history.OutcomeFailed)
	default:
		s.saveLocked(ctx, playerID, r)
	}

	s.syncTimersLocked(playerID, t)
	if events == nil {
		events = []round.Event{}
	}
	return &Result{Accepted: true, Round: r.View(), Events: events}
}

func (s *Service) finishLocked(ctx context.Context, playerID string, r *round.Round, outcome history.Outcome) {
	stars := 0
	if outcome == history.OutcomeComplete {
		stars = r.Stars()
		if s.progress != nil {
			if _, err := s.progress.RecordCompletion(ctx, playerID, r.Level(), stars); err != nil {
				s.logger.Error("recording completion failed", "player_id", playerID, "level", r.Level(), "error", err)
			}
		}
	}

	if s.history != nil {
		entry := &history.Entry{
			RoundID: r.ID(),
			Level:   r.Level(),
			Outcome: outcome,
			Stars:   stars,
			Points:  r.Points(),
			Moves:   r.Moves(),
		}
		if err := s.history.Record(ctx, playerID, entry); err != nil {
			s.logger.Error("recording history failed", "player_id", playerID, "round_id", r.ID(), "error", err)
		}
	}

	if s.snapshots != nil && s.timings.PersistRounds {
		if err := s.snapshots.Delete(ctx, playerID); err != nil {
			s.logger.Error("deleting saved round failed", "player_id", playerID, "error", err)
		}
	}

	s.logger.Info("round finished",
		"player_id", playerID,
		"round_id", r.ID(),
		"level", r.Level(),
		"outcome", outcome,
		"stars", stars,
		"moves", r.Moves(),
	)
}

func (s *Service) saveLocked(ctx context.Context, playerID string, r *round.Round) {
	if s.snapshots == nil || !s.timings.PersistRounds {
		return
	}
	snap := r.Snapshot()
	if err := s.snapshots.Save(ctx, playerID, &snap); err != nil {
		s.logger.Error("saving round failed", "player_id", playerID, "round_id", r.ID(), "error", err)
	}
}

// syncTimersLocked makes the outstanding timers match the round's state.
// A timer already scheduled for the current generation is left running.
func (s *Service) syncTimersLocked(playerID string, t *table) {
	r := t.round
	want := map[timerKind]time.Duration{}
	switch r.Phase() {
	case round.PhaseMemorizing:
		want[timerMemorize] = s.timings.Memorize
	case round.PhaseResolving:
		want[timerResolve] = s.timings.Resolve
	}
	if s.timings.AutoTick && r.CountdownArmed() && r.Phase().Running() && !r.Paused() {
		want[timerTick] = s.timings.Tick
	}

	for kind, pending := range t.timers {
		if _, ok := want[kind]; !ok || pending.generation != r.Generation() {
			pending.cancel()
			delete(t.timers, kind)
		}
	}

	for kind, delay := range want {
		if _, ok := t.timers[kind]; ok {
			continue
		}
		s.seq++
		seq := s.seq
		roundID, generation := r.ID(), r.Generation()
		cancel := s.sched.After(delay, func() {
			s.fire(playerID, kind, roundID, generation, seq)
		})
		t.timers[kind] = pendingTimer{generation: generation, seq: seq, cancel: cancel}
	}
}

// fire runs a timer callback if it still belongs to the live round.
func (s *Service) fire(playerID string, kind timerKind, roundID string, generation int, seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.players[playerID]
	if !ok || t.round.ID() != roundID || t.round.Generation() != generation {
		return
	}
	pending, ok := t.timers[kind]
	if !ok || pending.seq != seq {
		return
	}
	delete(t.timers, kind)

	var (
		events []round.Event
		err    error
	)
	switch kind {
	case timerMemorize:
		events, err = t.round.EndMemorize()
	case timerResolve:
		events, err = t.round.ResolveMismatch()
	case timerTick:
		events, err = t.round.Tick()
	}
	if err != nil {
		s.logger.Debug("timer ignored", "player_id", playerID, "timer", kind, "reason", err)
		s.syncTimersLocked(playerID, t)
		return
	}

	s.applyLocked(context.Background(), playerID, events)
}

func cancelAll(t *table) {
	for kind, pending := range t.timers {
		pending.cancel()
		delete(t.timers, kind)
	}
}
