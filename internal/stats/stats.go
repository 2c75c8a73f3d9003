package stats

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/thesrcielos/PokeMemory/internal/trophy"
)

// FallbackDifficulty is reported as most played when there is no history.
const FallbackDifficulty = trophy.Basic

func AverageTimePerGame(totalTimePlayed float64, totalGames int) float64 {
	if totalGames <= 0 {
		return 0
	}
	return totalTimePlayed / float64(totalGames)
}

func WinRatePercent(totalWins, totalGames int) float64 {
	if totalGames <= 0 {
		return 0
	}
	return float64(totalWins) / float64(totalGames) * 100
}

// MostPlayedDifficulty returns the mode of the played difficulties. On a tie
// the difficulty that reached the top count first wins. Unknown values are
// skipped.
func MostPlayedDifficulty(played []trophy.Difficulty) trophy.Difficulty {
	counts := make(map[trophy.Difficulty]int, len(trophy.Difficulties))
	best := FallbackDifficulty
	bestCount := 0
	for _, d := range played {
		if !d.Valid() {
			continue
		}
		counts[d]++
		if counts[d] > bestCount {
			best = d
			bestCount = counts[d]
		}
	}
	return best
}

// ExperienceLevel is floor(sqrt(games)). Anything that is not a
// non-negative number yields level 0.
func ExperienceLevel(totalGames any) int {
	var games float64
	switch v := totalGames.(type) {
	case int:
		games = float64(v)
	case int32:
		games = float64(v)
	case int64:
		games = float64(v)
	case uint:
		games = float64(v)
	case uint32:
		games = float64(v)
	case uint64:
		games = float64(v)
	case float32:
		games = math.Trunc(float64(v))
	case float64:
		games = math.Trunc(v)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0
		}
		games = float64(n)
	default:
		return 0
	}
	if math.IsNaN(games) || math.IsInf(games, 0) || games < 0 {
		return 0
	}
	return int(math.Floor(math.Sqrt(games)))
}

// Round2 rounds v half away from zero to two decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

type Account struct {
	ID         uint
	Username   string
	Trophies   int
	TotalWins  int
	TotalGames int
}

type Position struct {
	Position      int    `json:"position"`
	UserID        uint   `json:"-"`
	Username      string `json:"username"`
	Trophies      int    `json:"trophies"`
	TotalWins     int    `json:"total_wins"`
	TotalGames    int    `json:"total_games"`
	IsCurrentUser bool   `json:"is_current_user"`
}

// LeaderboardTop ranks accounts by trophies descending and keeps the first n.
// Accounts with equal trophies keep their input order.
func LeaderboardTop(accounts []Account, n int, currentUserID uint) []Position {
	if n <= 0 || len(accounts) == 0 {
		return []Position{}
	}
	sorted := make([]Account, len(accounts))
	copy(sorted, accounts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Trophies > sorted[j].Trophies
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}

	board := make([]Position, 0, len(sorted))
	for i, a := range sorted {
		board = append(board, Position{
			Position:      i + 1,
			UserID:        a.ID,
			Username:      a.Username,
			Trophies:      a.Trophies,
			TotalWins:     a.TotalWins,
			TotalGames:    a.TotalGames,
			IsCurrentUser: currentUserID != 0 && a.ID == currentUserID,
		})
	}
	return board
}

type Totals struct {
	Trophies        int
	TotalGames      int
	TotalWins       int
	TotalLosses     int
	TotalTimePlayed float64
}

type ProfileStats struct {
	TotalGames           int               `json:"total_games"`
	TotalWins            int               `json:"total_wins"`
	TotalLosses          int               `json:"total_losses"`
	AverageTime          float64           `json:"average_time"`
	AverageWins          float64           `json:"average_wins"`
	MostCommonDifficulty trophy.Difficulty `json:"most_common_difficulty"`
	TotalTrophies        int               `json:"total_trophies"`
	Level                int               `json:"level"`
}

// Profile derives the profile page statistics from account totals and the
// difficulties of every game the account played, newest first.
func Profile(t Totals, played []trophy.Difficulty) ProfileStats {
	return ProfileStats{
		TotalGames:           t.TotalGames,
		TotalWins:            t.TotalWins,
		TotalLosses:          t.TotalLosses,
		AverageTime:          Round2(AverageTimePerGame(t.TotalTimePlayed, t.TotalGames)),
		AverageWins:          WinRatePercent(t.TotalWins, t.TotalGames),
		MostCommonDifficulty: MostPlayedDifficulty(played),
		TotalTrophies:        t.Trophies,
		Level:                ExperienceLevel(t.TotalGames),
	}
}
