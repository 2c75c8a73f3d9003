package leaderboard

import (
	"time"

	"github.com/thesrcielos/PokeMemory/internal/stats"
)

// LeaderboardSnapshot is one ranked row of a periodic leaderboard capture.
type LeaderboardSnapshot struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	SnapshotTime time.Time `gorm:"not null;uniqueIndex:uk_snapshot_user,priority:1;index" json:"snapshot_time"`
	UserID       uint      `gorm:"not null;uniqueIndex:uk_snapshot_user,priority:2" json:"-"`
	Username     string    `gorm:"size:30;not null" json:"username"`
	Trophies     int       `gorm:"not null" json:"trophies"`
	Rank         int       `gorm:"column:board_rank;not null" json:"position"`
}

// Update is the pub/sub payload announcing a new top of the board.
type Update struct {
	Instance string          `json:"instance"`
	Accounts []stats.Account `json:"accounts"`
}
