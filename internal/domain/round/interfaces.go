package round

import "context"

// Repository persists the one in-flight round a player may resume.
type Repository interface {
	Get(ctx context.Context, playerID string) (*Snapshot, error)
	Save(ctx context.Context, playerID string, snap *Snapshot) error
	Delete(ctx context.Context, playerID string) error
}
