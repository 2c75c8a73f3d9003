package game

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/thesrcielos/PokeMemory/internal/trophy"
	"github.com/thesrcielos/PokeMemory/internal/user"
)

type GameRepositoryMock struct {
	mock.Mock
}

func (m *GameRepositoryMock) RecordResult(ctx context.Context, userID uint, result trophy.GameResult, score ScoreFunc) (*Outcome, error) {
	args := m.Called(ctx, userID, result, score)
	if fn, ok := args.Get(0).(func(context.Context, uint, trophy.GameResult, ScoreFunc) (*Outcome, error)); ok {
		return fn(ctx, userID, result, score)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Outcome), args.Error(1)
}

func (m *GameRepositoryMock) RecentHistory(ctx context.Context, userID uint, limit int) ([]GameHistory, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]GameHistory), args.Error(1)
}

func (m *GameRepositoryMock) PlayedDifficulties(ctx context.Context, userID uint) ([]trophy.Difficulty, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trophy.Difficulty), args.Error(1)
}

type TrophyListenerMock struct {
	mock.Mock
}

func (m *TrophyListenerMock) TrophiesChanged(ctx context.Context, u user.User) {
	m.Called(ctx, u)
}
