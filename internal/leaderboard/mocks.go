package leaderboard

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/thesrcielos/PokeMemory/internal/stats"
)

type CacheMock struct {
	mock.Mock
}

func (m *CacheMock) UpdateScore(ctx context.Context, account stats.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *CacheMock) TopN(ctx context.Context, n int) ([]stats.Account, error) {
	args := m.Called(ctx, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]stats.Account), args.Error(1)
}

func (m *CacheMock) Reset(ctx context.Context, accounts []stats.Account) error {
	args := m.Called(ctx, accounts)
	return args.Error(0)
}

type BrokerMock struct {
	mock.Mock
}

func (m *BrokerMock) Publish(ctx context.Context, update Update) error {
	args := m.Called(ctx, update)
	return args.Error(0)
}

func (m *BrokerMock) Subscribe(ctx context.Context, handle func(Update)) error {
	args := m.Called(ctx, handle)
	return args.Error(0)
}

type NotifierMock struct {
	mock.Mock
}

func (m *NotifierMock) BroadcastLeaderboard(accounts []stats.Account) {
	m.Called(accounts)
}

type SnapshotRepositoryMock struct {
	mock.Mock
}

func (m *SnapshotRepositoryMock) SaveSnapshot(ctx context.Context, rows []LeaderboardSnapshot) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}

func (m *SnapshotRepositoryMock) LatestSnapshot(ctx context.Context) ([]LeaderboardSnapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]LeaderboardSnapshot), args.Error(1)
}
