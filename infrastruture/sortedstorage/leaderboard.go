package sortedstorage

import (
	"context"
	"errors"
	"fmt"

	dmn "github.com/beka-birhanu/vinom-bot/domain"
	"github.com/beka-birhanu/vinom-bot/service/i"
	"github.com/redis/go-redis/v9"
)

const (
	defaultPrefix = "vinom-bot"
	winsKeyFmt    = "%s:leaderboard:wins"
	playedKeyFmt  = "%s:leaderboard:played"
)

var _ i.Leaderboard = &RedisLeaderboard{}

// RedisLeaderboard ranks users in two Redis sorted sets: wins and played runs.
type RedisLeaderboard struct {
	client    *redis.Client
	winsKey   string
	playedKey string
}

// NewRedisLeaderboard creates a leaderboard whose keys start with prefix.
func NewRedisLeaderboard(client *redis.Client, prefix string) *RedisLeaderboard {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &RedisLeaderboard{
		client:    client,
		winsKey:   fmt.Sprintf(winsKeyFmt, prefix),
		playedKey: fmt.Sprintf(playedKeyFmt, prefix),
	}
}

// Record counts a finished run. Both counters move in one transaction.
func (l *RedisLeaderboard) Record(ctx context.Context, user string, won bool) error {
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZIncrBy(ctx, l.playedKey, 1, user)
		if won {
			pipe.ZIncrBy(ctx, l.winsKey, 1, user)
		} else {
			// Keep users without wins on the board.
			pipe.ZAddNX(ctx, l.winsKey, redis.Z{Score: 0, Member: user})
		}
		return nil
	})
	return err
}

// Top returns up to n standings ordered by wins, highest first.
func (l *RedisLeaderboard) Top(ctx context.Context, n int64) ([]dmn.Standing, error) {
	if n <= 0 {
		return []dmn.Standing{}, nil
	}

	ranked, err := l.client.ZRevRangeWithScores(ctx, l.winsKey, 0, n-1).Result()
	if err != nil {
		return nil, err
	}

	standings := make([]dmn.Standing, 0, len(ranked))
	for _, z := range ranked {
		user, ok := z.Member.(string)
		if !ok {
			continue
		}
		played, err := l.client.ZScore(ctx, l.playedKey, user).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return nil, err
		}
		standings = append(standings, dmn.Standing{
			User:   user,
			Wins:   int64(z.Score),
			Played: int64(played),
		})
	}
	return standings, nil
}
