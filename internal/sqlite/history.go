package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rpggio/pairs/internal/domain/history"
	"github.com/rpggio/pairs/internal/repository"
)

// HistoryRepository implements history.Repository for SQLite
type HistoryRepository struct {
	db *DB
}

// NewHistoryRepository creates a new HistoryRepository
func NewHistoryRepository(db *DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Log inserts a finished round
func (r *HistoryRepository) Log(ctx context.Context, playerID string, entry *history.Entry) error {
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := `
		INSERT INTO history (
			player_id, round_id, level, outcome, stars, points, moves, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		playerID,
		entry.RoundID,
		entry.Level,
		entry.Outcome,
		entry.Stars,
		entry.Points,
		entry.Moves,
		createdAt,
	)
	if isConstraintViolation(err) {
		return fmt.Errorf("%w: %v", repository.ErrInvalidInput, err)
	}
	if err != nil {
		return fmt.Errorf("failed to log history: %w", err)
	}

	id, err := result.LastInsertId()
	if err == nil {
		entry.ID = id
	}

	entry.PlayerID = playerID
	entry.CreatedAt = createdAt

	return nil
}

// List returns the player's entries, newest first
func (r *HistoryRepository) List(ctx context.Context, playerID string, opts history.ListOptions) ([]history.Entry, error) {
	query := `
		SELECT id, player_id, round_id, level, outcome, stars, points, moves, created_at
		FROM history
		WHERE player_id = ?
	`

	args := []any{playerID}
	var conditions []string

	if opts.Level != nil {
		conditions = append(conditions, "level = ?")
		args = append(args, *opts.Level)
	}
	if opts.Outcome != nil {
		conditions = append(conditions, "outcome = ?")
		args = append(args, *opts.Outcome)
	}

	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY created_at DESC, id DESC"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
		if opts.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, opts.Offset)
		}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	entries := []history.Entry{}
	for rows.Next() {
		var entry history.Entry
		if err := rows.Scan(
			&entry.ID,
			&entry.PlayerID,
			&entry.RoundID,
			&entry.Level,
			&entry.Outcome,
			&entry.Stars,
			&entry.Points,
			&entry.Moves,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating history rows: %w", err)
	}

	return entries, nil
}
