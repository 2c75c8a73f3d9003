package game

import (
	"context"
	"errors"
	"net/http"

	"github.com/thesrcielos/PokeMemory/internal/apperrors"
	"github.com/thesrcielos/PokeMemory/internal/trophy"
	"github.com/thesrcielos/PokeMemory/internal/user"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ScoreFunc turns a result and the locked trophy balance into an award.
type ScoreFunc func(result trophy.GameResult, currentTrophies int) (trophy.Award, error)

type GameRepository interface {
	RecordResult(ctx context.Context, userID uint, result trophy.GameResult, score ScoreFunc) (*Outcome, error)
	RecentHistory(ctx context.Context, userID uint, limit int) ([]GameHistory, error)
	PlayedDifficulties(ctx context.Context, userID uint) ([]trophy.Difficulty, error)
}

type GormGameRepository struct {
	db *gorm.DB
}

func NewGameRepository(db *gorm.DB) *GormGameRepository {
	return &GormGameRepository{db: db}
}

// RecordResult locks the account row, scores the game against the locked
// balance, updates the totals and appends the history row in one
// transaction. Nothing is written when any step fails.
func (r *GormGameRepository) RecordResult(ctx context.Context, userID uint, result trophy.GameResult, score ScoreFunc) (*Outcome, error) {
	var outcome Outcome
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u user.User
		res := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&u, userID)
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return apperrors.NewAppError(http.StatusNotFound, "user not found", res.Error)
		} else if res.Error != nil {
			return apperrors.NewAppError(http.StatusInternalServerError, "error getting user", res.Error)
		}

		award, err := score(result, u.Trophies)
		if err != nil {
			return apperrors.NewAppError(http.StatusBadRequest, "invalid game result", err)
		}

		u.Trophies = award.Total
		u.TotalGames++
		u.TotalTimePlayed += result.TimeTaken
		if award.Won {
			u.TotalWins++
		} else {
			u.TotalLosses++
		}

		if err := tx.Model(&u).Updates(map[string]interface{}{
			"trophies":          u.Trophies,
			"total_games":       u.TotalGames,
			"total_wins":        u.TotalWins,
			"total_losses":      u.TotalLosses,
			"total_time_played": u.TotalTimePlayed,
		}).Error; err != nil {
			return apperrors.NewAppError(http.StatusInternalServerError, "error updating user totals", err)
		}

		entry := GameHistory{
			UserID:         u.ID,
			Difficulty:     result.Difficulty,
			Won:            award.Won,
			AttemptsUsed:   result.AttemptsUsed,
			TimeTaken:      result.TimeTaken,
			TrophiesEarned: award.Delta,
		}
		if err := tx.Omit(clause.Associations).Create(&entry).Error; err != nil {
			return apperrors.NewAppError(http.StatusInternalServerError, "error saving game history", err)
		}

		outcome = Outcome{User: u, Entry: entry, Award: award}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &outcome, nil
}

func (r *GormGameRepository) RecentHistory(ctx context.Context, userID uint, limit int) ([]GameHistory, error) {
	history := []GameHistory{}
	if limit <= 0 {
		return history, nil
	}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&history).Error
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "error getting game history", err)
	}
	return history, nil
}

// PlayedDifficulties returns the difficulty of every game, newest first.
func (r *GormGameRepository) PlayedDifficulties(ctx context.Context, userID uint) ([]trophy.Difficulty, error) {
	var played []trophy.Difficulty
	err := r.db.WithContext(ctx).
		Model(&GameHistory{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Pluck("difficulty", &played).Error
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "error getting game history", err)
	}
	return played, nil
}
