package game

import (
	"context"
	"log"
	"net/http"

	"github.com/thesrcielos/PokeMemory/internal/apperrors"
	"github.com/thesrcielos/PokeMemory/internal/stats"
	"github.com/thesrcielos/PokeMemory/internal/trophy"
	"github.com/thesrcielos/PokeMemory/internal/user"
)

// TrophyListener is told about every committed trophy change.
type TrophyListener interface {
	TrophiesChanged(ctx context.Context, u user.User)
}

type GameService struct {
	repo         GameRepository
	users        user.UserRepository
	listeners    []TrophyListener
	historyLimit int
}

func NewGameService(repo GameRepository, users user.UserRepository, historyLimit int, listeners ...TrophyListener) *GameService {
	return &GameService{
		repo:         repo,
		users:        users,
		listeners:    listeners,
		historyLimit: historyLimit,
	}
}

// SubmitResult validates a finished game, scores it and persists the new
// totals with the history row. Invalid input is rejected before any write.
func (s *GameService) SubmitResult(ctx context.Context, userID uint, req ResultRequest) (*ResultResponse, error) {
	result, err := req.GameResult()
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusBadRequest, err.Error(), err)
	}

	outcome, err := s.repo.RecordResult(ctx, userID, result, trophy.Calculate)
	if err != nil {
		return nil, err
	}
	log.Printf("User %d finished %s game: won=%t trophies %d -> %d",
		userID, result.Difficulty, outcome.Award.Won, outcome.Award.Previous, outcome.Award.Total)

	for _, l := range s.listeners {
		l.TrophiesChanged(ctx, outcome.User)
	}

	return &ResultResponse{
		Success:          true,
		TrophiesEarned:   outcome.Award.Delta,
		TotalTrophies:    outcome.User.Trophies,
		Won:              outcome.Award.Won,
		PreviousTrophies: outcome.Award.Previous,
	}, nil
}

func (s *GameService) Profile(ctx context.Context, userID uint) (*ProfileView, error) {
	u, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	played, err := s.repo.PlayedDifficulties(ctx, userID)
	if err != nil {
		return nil, err
	}

	history, err := s.repo.RecentHistory(ctx, userID, s.historyLimit)
	if err != nil {
		return nil, err
	}

	return &ProfileView{
		User:    u,
		Stats:   stats.Profile(u.Totals(), played),
		History: history,
	}, nil
}
