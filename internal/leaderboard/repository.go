package leaderboard

import (
	"context"
	"net/http"
	"time"

	"github.com/thesrcielos/PokeMemory/internal/apperrors"
	"gorm.io/gorm"
)

type SnapshotRepository interface {
	SaveSnapshot(ctx context.Context, rows []LeaderboardSnapshot) error
	LatestSnapshot(ctx context.Context) ([]LeaderboardSnapshot, error)
}

type GormSnapshotRepository struct {
	db *gorm.DB
}

func NewSnapshotRepository(db *gorm.DB) *GormSnapshotRepository {
	return &GormSnapshotRepository{db: db}
}

func (r *GormSnapshotRepository) SaveSnapshot(ctx context.Context, rows []LeaderboardSnapshot) error {
	if len(rows) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).CreateInBatches(rows, 500).Error; err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "error saving leaderboard snapshot", err)
	}
	return nil
}

func (r *GormSnapshotRepository) LatestSnapshot(ctx context.Context) ([]LeaderboardSnapshot, error) {
	rows := []LeaderboardSnapshot{}

	var latest LeaderboardSnapshot
	res := r.db.WithContext(ctx).Order("snapshot_time DESC").Limit(1).Find(&latest)
	if res.Error != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "error getting leaderboard snapshot", res.Error)
	}
	if res.RowsAffected == 0 {
		return rows, nil
	}

	err := r.db.WithContext(ctx).
		Where("snapshot_time = ?", latest.SnapshotTime).
		Order("board_rank ASC").
		Find(&rows).Error
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "error getting leaderboard snapshot", err)
	}
	return rows, nil
}

// snapshotTime truncates to the second so every row of one capture matches.
func snapshotTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}
