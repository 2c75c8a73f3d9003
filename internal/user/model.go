package user

import (
	"time"

	"github.com/thesrcielos/PokeMemory/internal/stats"
)

type User struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Username        string    `gorm:"uniqueIndex;size:30;not null" json:"username"`
	Email           string    `gorm:"uniqueIndex;size:254;not null" json:"email"`
	Password        string    `gorm:"not null" json:"-"`
	Trophies        int       `gorm:"not null;default:0;index" json:"trophies"`
	TotalGames      int       `gorm:"not null;default:0" json:"total_games"`
	TotalWins       int       `gorm:"not null;default:0" json:"total_wins"`
	TotalLosses     int       `gorm:"not null;default:0" json:"total_losses"`
	TotalTimePlayed float64   `gorm:"not null;default:0" json:"total_time_played"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (u *User) Totals() stats.Totals {
	return stats.Totals{
		Trophies:        u.Trophies,
		TotalGames:      u.TotalGames,
		TotalWins:       u.TotalWins,
		TotalLosses:     u.TotalLosses,
		TotalTimePlayed: u.TotalTimePlayed,
	}
}

func (u *User) Account() stats.Account {
	return stats.Account{
		ID:         u.ID,
		Username:   u.Username,
		Trophies:   u.Trophies,
		TotalWins:  u.TotalWins,
		TotalGames: u.TotalGames,
	}
}

type SignupRequest struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}
