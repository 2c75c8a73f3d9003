package leaderboard

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/thesrcielos/PokeMemory/internal/stats"
)

const (
	leaderboardKey   = "leaderboard:trophies"
	playerInfoPrefix = "leaderboard:player:"

	// Member ids are folded into the sort score so equal trophies keep
	// signup order. Keeps scores exact in a float64 up to 2^29 trophies.
	idSpan = 1 << 24
)

type Cache interface {
	UpdateScore(ctx context.Context, account stats.Account) error
	TopN(ctx context.Context, n int) ([]stats.Account, error)
	Reset(ctx context.Context, accounts []stats.Account) error
}

type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// sortScore orders ascending: more trophies first, then lower id.
func sortScore(a stats.Account) float64 {
	return -float64(a.Trophies)*idSpan + float64(a.ID%idSpan)
}

func playerKey(id uint) string {
	return fmt.Sprintf("%s%d", playerInfoPrefix, id)
}

func addAccount(ctx context.Context, pipe redis.Pipeliner, a stats.Account) {
	member := strconv.FormatUint(uint64(a.ID), 10)
	pipe.ZAdd(ctx, leaderboardKey, redis.Z{Score: sortScore(a), Member: member})
	pipe.HSet(ctx, playerKey(a.ID), map[string]interface{}{
		"username":    a.Username,
		"trophies":    a.Trophies,
		"total_wins":  a.TotalWins,
		"total_games": a.TotalGames,
	})
}

func (c *RedisCache) UpdateScore(ctx context.Context, account stats.Account) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		addAccount(ctx, pipe, account)
		return nil
	})
	if err != nil {
		return fmt.Errorf("error updating leaderboard cache: %w", err)
	}
	return nil
}

func (c *RedisCache) TopN(ctx context.Context, n int) ([]stats.Account, error) {
	accounts := []stats.Account{}
	if n <= 0 {
		return accounts, nil
	}

	members, err := c.client.ZRange(ctx, leaderboardKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("error reading leaderboard cache: %w", err)
	}
	if len(members) == 0 {
		return accounts, nil
	}

	pipe := c.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(members))
	for i, m := range members {
		cmds[i] = pipe.HGetAll(ctx, playerInfoPrefix+m)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("error reading leaderboard players: %w", err)
	}

	for i, m := range members {
		vals := cmds[i].Val()
		if len(vals) == 0 {
			continue
		}
		id, err := strconv.ParseUint(m, 10, 64)
		if err != nil {
			continue
		}
		accounts = append(accounts, stats.Account{
			ID:         uint(id),
			Username:   vals["username"],
			Trophies:   parseInt(vals["trophies"]),
			TotalWins:  parseInt(vals["total_wins"]),
			TotalGames: parseInt(vals["total_games"]),
		})
	}
	return accounts, nil
}

// Reset replaces the cached board with accounts.
func (c *RedisCache) Reset(ctx context.Context, accounts []stats.Account) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, leaderboardKey)
		for _, a := range accounts {
			addAccount(ctx, pipe, a)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("error rebuilding leaderboard cache: %w", err)
	}
	return nil
}

func parseInt(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}
