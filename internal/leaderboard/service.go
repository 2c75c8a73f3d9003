package leaderboard

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/thesrcielos/PokeMemory/internal/stats"
	"github.com/thesrcielos/PokeMemory/internal/user"
)

// Accounts loaded into the cache on rebuild.
const rebuildLimit = 1000

var instanceID = getEnv("INSTANCE_ID", uuid.New().String())

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// Notifier pushes a fresh board to the clients connected to this instance.
type Notifier interface {
	BroadcastLeaderboard(accounts []stats.Account)
}

type LeaderboardService struct {
	users     user.UserRepository
	snapshots SnapshotRepository
	cache     Cache
	broker    Broker
	notifier  Notifier
	size      int
	now       func() time.Time
}

type Option func(*LeaderboardService)

func WithCache(c Cache) Option {
	return func(s *LeaderboardService) { s.cache = c }
}

func WithBroker(b Broker) Option {
	return func(s *LeaderboardService) { s.broker = b }
}

func WithNotifier(n Notifier) Option {
	return func(s *LeaderboardService) { s.notifier = n }
}

func NewLeaderboardService(users user.UserRepository, snapshots SnapshotRepository, size int, opts ...Option) *LeaderboardService {
	s := &LeaderboardService{
		users:     users,
		snapshots: snapshots,
		size:      size,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *LeaderboardService) Size() int {
	return s.size
}

// TopAccounts reads the board from the cache and falls back to the
// database when the cache is cold or failing.
func (s *LeaderboardService) TopAccounts(ctx context.Context) ([]stats.Account, error) {
	if s.cache != nil {
		accounts, err := s.cache.TopN(ctx, s.size)
		if err != nil {
			log.Println("Error reading leaderboard cache:", err)
		} else if len(accounts) > 0 {
			return accounts, nil
		}
	}

	users, err := s.users.TopByTrophies(ctx, s.size)
	if err != nil {
		return nil, err
	}
	return toAccounts(users), nil
}

func (s *LeaderboardService) Top(ctx context.Context, currentUserID uint) ([]stats.Position, error) {
	accounts, err := s.TopAccounts(ctx)
	if err != nil {
		return nil, err
	}
	return stats.LeaderboardTop(accounts, s.size, currentUserID), nil
}

// TrophiesChanged refreshes the cached score of u and announces the board.
// Failures are logged; the database already holds the committed result.
func (s *LeaderboardService) TrophiesChanged(ctx context.Context, u user.User) {
	if s.cache != nil {
		if err := s.cache.UpdateScore(ctx, u.Account()); err != nil {
			log.Println("Error updating leaderboard cache:", err)
		}
	}
	s.Announce(ctx)
}

// AccountCreated puts a new account on the cached board so it ranks
// before its first game.
func (s *LeaderboardService) AccountCreated(ctx context.Context, u user.User) {
	s.TrophiesChanged(ctx, u)
}

// Announce sends the current board to every live subscriber, through the
// broker when one is configured so other instances receive it too.
func (s *LeaderboardService) Announce(ctx context.Context) {
	if s.broker == nil && s.notifier == nil {
		return
	}
	accounts, err := s.TopAccounts(ctx)
	if err != nil {
		log.Println("Error loading leaderboard for announcement:", err)
		return
	}

	if s.broker != nil {
		if err := s.broker.Publish(ctx, Update{Instance: instanceID, Accounts: accounts}); err != nil {
			log.Println("Error publishing leaderboard:", err)
		}
		return
	}
	s.notifier.BroadcastLeaderboard(accounts)
}

// Deliver hands an update received from the broker to local subscribers.
func (s *LeaderboardService) Deliver(update Update) {
	if s.notifier == nil {
		return
	}
	s.notifier.BroadcastLeaderboard(update.Accounts)
}

// Listen subscribes this instance to board updates. It is a no-op without a broker.
func (s *LeaderboardService) Listen(ctx context.Context) error {
	if s.broker == nil {
		return nil
	}
	return s.broker.Subscribe(ctx, s.Deliver)
}

// Rebuild reloads the cache from the database.
func (s *LeaderboardService) Rebuild(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	users, err := s.users.TopByTrophies(ctx, max(rebuildLimit, s.size))
	if err != nil {
		return err
	}
	return s.cache.Reset(ctx, toAccounts(users))
}

// TakeSnapshot stores the current top of the board and re-seeds the cache.
func (s *LeaderboardService) TakeSnapshot(ctx context.Context) ([]LeaderboardSnapshot, error) {
	users, err := s.users.TopByTrophies(ctx, s.size)
	if err != nil {
		return nil, err
	}

	at := snapshotTime(s.now())
	board := stats.LeaderboardTop(toAccounts(users), s.size, 0)
	rows := make([]LeaderboardSnapshot, 0, len(board))
	for _, p := range board {
		rows = append(rows, LeaderboardSnapshot{
			SnapshotTime: at,
			UserID:       p.UserID,
			Username:     p.Username,
			Trophies:     p.Trophies,
			Rank:         p.Position,
		})
	}
	if err := s.snapshots.SaveSnapshot(ctx, rows); err != nil {
		return nil, err
	}

	if err := s.Rebuild(ctx); err != nil {
		log.Println("Error rebuilding leaderboard cache:", err)
	}
	return rows, nil
}

func (s *LeaderboardService) LatestSnapshot(ctx context.Context) ([]LeaderboardSnapshot, error) {
	return s.snapshots.LatestSnapshot(ctx)
}

func toAccounts(users []user.User) []stats.Account {
	accounts := make([]stats.Account, 0, len(users))
	for i := range users {
		accounts = append(accounts, users[i].Account())
	}
	return accounts
}
