package progress

import "context"

// Repository provides persistence for ledgers.
type Repository interface {
	Get(ctx context.Context, playerID string) (*Ledger, error)
	Save(ctx context.Context, playerID string, ledger *Ledger) error
}
