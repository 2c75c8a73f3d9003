package trophy

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

type Difficulty string

const (
	Basic    Difficulty = "basic"
	Medium   Difficulty = "medium"
	Advanced Difficulty = "advanced"
)

var (
	ErrUnknownDifficulty = errors.New("unknown difficulty")
	ErrInvalidResult     = errors.New("invalid game result")
)

// Difficulties lists the playable levels in display order.
// MaxTimeTakenSeconds bounds one game's reported duration so account
// totals stay finite.
const MaxTimeTakenSeconds = 24 * 60 * 60

var Difficulties = []Difficulty{Basic, Medium, Advanced}

// Rules holds the scoring constants of one difficulty.
type Rules struct {
	BaseTrophies   int
	MaxAttempts    int
	MaxTimeSeconds float64
}

var rules = map[Difficulty]Rules{
	Basic:    {BaseTrophies: 5, MaxAttempts: 6, MaxTimeSeconds: 180},
	Medium:   {BaseTrophies: 10, MaxAttempts: 4, MaxTimeSeconds: 120},
	Advanced: {BaseTrophies: 15, MaxAttempts: 2, MaxTimeSeconds: 60},
}

// Reward multiplier indexed by lives left when the game was won.
var lifeMultipliers = map[int]float64{
	0: 1.0,
	1: 1.0,
	2: 1.2,
	3: 1.5,
	4: 2.0,
	5: 2.5,
	6: 3.0,
}

func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := rules[d]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
	}
	return d, nil
}

func (d Difficulty) Valid() bool {
	_, ok := rules[d]
	return ok
}

// Label is the capitalized name shown on pages.
func (d Difficulty) Label() string {
	if d == "" {
		return ""
	}
	return strings.ToUpper(string(d[:1])) + string(d[1:])
}

func RulesFor(d Difficulty) (Rules, error) {
	r, ok := rules[d]
	if !ok {
		return Rules{}, fmt.Errorf("%w: %q", ErrUnknownDifficulty, string(d))
	}
	return r, nil
}

type GameResult struct {
	Difficulty   Difficulty
	Won          bool
	AttemptsUsed int
	TimeTaken    float64
}

func (r GameResult) Validate() error {
	if !r.Difficulty.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownDifficulty, string(r.Difficulty))
	}
	if r.AttemptsUsed < 0 {
		return fmt.Errorf("%w: attempts used must not be negative", ErrInvalidResult)
	}
	if math.IsNaN(r.TimeTaken) || math.IsInf(r.TimeTaken, 0) || r.TimeTaken < 0 {
		return fmt.Errorf("%w: time taken must be a non-negative number", ErrInvalidResult)
	}
	if r.TimeTaken > MaxTimeTakenSeconds {
		return fmt.Errorf("%w: time taken must not exceed %d seconds", ErrInvalidResult, int(MaxTimeTakenSeconds))
	}
	return nil
}

// Award is the outcome of scoring one game against an account balance.
type Award struct {
	Delta    int
	Won      bool
	Previous int
	Total    int
}

// LifeMultiplier returns the reward multiplier for the lives left on a win.
// Values outside the table earn no bonus.
func LifeMultiplier(livesLeft int) float64 {
	if m, ok := lifeMultipliers[livesLeft]; ok {
		return m
	}
	return 1.0
}

// TimeBonus rewards finishing under the time cap, linearly down to zero.
func TimeBonus(r Rules, timeTaken float64) float64 {
	return math.Max(0, (r.MaxTimeSeconds-timeTaken)/r.MaxTimeSeconds*float64(r.BaseTrophies))
}

// Calculate scores one finished game. currentTrophies is only read on a
// loss, which never takes the balance below zero.
func Calculate(result GameResult, currentTrophies int) (Award, error) {
	if err := result.Validate(); err != nil {
		return Award{}, err
	}
	r := rules[result.Difficulty]
	if currentTrophies < 0 {
		currentTrophies = 0
	}

	var delta int
	if result.Won {
		livesLeft := r.MaxAttempts - result.AttemptsUsed
		delta = int((float64(r.BaseTrophies) + TimeBonus(r, result.TimeTaken)) * LifeMultiplier(livesLeft))
	} else {
		delta = -min(r.BaseTrophies, currentTrophies)
	}

	return Award{
		Delta:    delta,
		Won:      result.Won,
		Previous: currentTrophies,
		Total:    currentTrophies + delta,
	}, nil
}
