package mocks

import (
	"context"

	"github.com/rpggio/pairs/internal/domain/history"
	"github.com/rpggio/pairs/internal/domain/progress"
	"github.com/rpggio/pairs/internal/domain/round"
	"github.com/stretchr/testify/mock"
)

// ProgressRepository is a mock for progress.Repository.
type ProgressRepository struct {
	mock.Mock
}

func (m *ProgressRepository) Get(ctx context.Context, playerID string) (*progress.Ledger, error) {
	args := m.Called(ctx, playerID)
	if ledger, ok := args.Get(0).(*progress.Ledger); ok {
		return ledger, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProgressRepository) Save(ctx context.Context, playerID string, ledger *progress.Ledger) error {
	args := m.Called(ctx, playerID, ledger)
	return args.Error(0)
}

// SnapshotRepository is a mock for round.Repository.
type SnapshotRepository struct {
	mock.Mock
}

func (m *SnapshotRepository) Get(ctx context.Context, playerID string) (*round.Snapshot, error) {
	args := m.Called(ctx, playerID)
	if snap, ok := args.Get(0).(*round.Snapshot); ok {
		return snap, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SnapshotRepository) Save(ctx context.Context, playerID string, snap *round.Snapshot) error {
	args := m.Called(ctx, playerID, snap)
	return args.Error(0)
}

func (m *SnapshotRepository) Delete(ctx context.Context, playerID string) error {
	args := m.Called(ctx, playerID)
	return args.Error(0)
}

// HistoryRepository is a mock for history.Repository.
type HistoryRepository struct {
	mock.Mock
}

func (m *HistoryRepository) Log(ctx context.Context, playerID string, entry *history.Entry) error {
	args := m.Called(ctx, playerID, entry)
	return args.Error(0)
}

func (m *HistoryRepository) List(ctx context.Context, playerID string, opts history.ListOptions) ([]history.Entry, error) {
	args := m.Called(ctx, playerID, opts)
	if list, ok := args.Get(0).([]history.Entry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}
