package game

import (
	"fmt"
	"time"

	"github.com/thesrcielos/PokeMemory/internal/stats"
	"github.com/thesrcielos/PokeMemory/internal/trophy"
	"github.com/thesrcielos/PokeMemory/internal/user"
)

// GameHistory is one finished game. Rows are written once, together with
// the account totals, and never updated.
type GameHistory struct {
	ID             uint              `gorm:"primaryKey" json:"id"`
	UserID         uint              `gorm:"not null;index:idx_history_user_created,priority:1" json:"user_id"`
	User           user.User         `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Difficulty     trophy.Difficulty `gorm:"size:10;not null" json:"difficulty"`
	Won            bool              `gorm:"not null;default:false" json:"won"`
	AttemptsUsed   int               `gorm:"not null;default:0" json:"attempts_used"`
	TimeTaken      float64           `gorm:"not null;default:0" json:"time_taken"`
	TrophiesEarned int               `gorm:"not null;default:0" json:"trophies_earned"`
	CreatedAt      time.Time         `gorm:"index:idx_history_user_created,priority:2" json:"created_at"`
}

// TrophiesLabel renders the signed change, e.g. "+22" or "-10".
func (h GameHistory) TrophiesLabel() string {
	if h.TrophiesEarned > 0 {
		return fmt.Sprintf("+%d", h.TrophiesEarned)
	}
	return fmt.Sprintf("%d", h.TrophiesEarned)
}

type ResultRequest struct {
	Difficulty   string  `json:"difficulty"`
	Won          bool    `json:"won"`
	AttemptsUsed int     `json:"attempts_used"`
	TimeTaken    float64 `json:"time_taken"`
}

func (r ResultRequest) GameResult() (trophy.GameResult, error) {
	d, err := trophy.ParseDifficulty(r.Difficulty)
	if err != nil {
		return trophy.GameResult{}, err
	}
	result := trophy.GameResult{
		Difficulty:   d,
		Won:          r.Won,
		AttemptsUsed: r.AttemptsUsed,
		TimeTaken:    r.TimeTaken,
	}
	if err := result.Validate(); err != nil {
		return trophy.GameResult{}, err
	}
	return result, nil
}

type ResultResponse struct {
	Success          bool `json:"success"`
	TrophiesEarned   int  `json:"trophies_earned"`
	TotalTrophies    int  `json:"total_trophies"`
	Won              bool `json:"won"`
	PreviousTrophies int  `json:"previous_trophies"`
}

// Outcome is what RecordResult committed.
type Outcome struct {
	User  user.User
	Entry GameHistory
	Award trophy.Award
}

type ProfileView struct {
	User    *user.User         `json:"user"`
	Stats   stats.ProfileStats `json:"stats"`
	History []GameHistory      `json:"game_history"`
}
