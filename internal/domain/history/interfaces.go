package history

import "context"

// Repository provides persistence operations for history entries.
type Repository interface {
	Log(ctx context.Context, playerID string, entry *Entry) error
	List(ctx context.Context, playerID string, opts ListOptions) ([]Entry, error)
}
