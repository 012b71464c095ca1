// Package leaderboard keeps user XP totals in a Redis sorted set
package leaderboard

import (
	"context"
	"fmt"
	"strconv"

	"github.com/coursecraft/lms/internal/models"
	"github.com/go-redis/redis/v8"
)

// DefaultKey is the sorted set holding XP totals
const DefaultKey = "leaderboard:xp"

// Leaderboard is a sorted set of user IDs scored by total XP
type Leaderboard struct {
	rdb *redis.Client
	key string
}

// New creates a leaderboard stored under key
func New(rdb *redis.Client, key string) *Leaderboard {
	if key == "" {
		key = DefaultKey
	}
	return &Leaderboard{rdb: rdb, key: key}
}

// Add increments the score of a user
func (l *Leaderboard) Add(ctx context.Context, userID, amount int) error {
	if err := l.rdb.ZIncrBy(ctx, l.key, float64(amount), strconv.Itoa(userID)).Err(); err != nil {
		return fmt.Errorf("failed to update leaderboard: %w", err)
	}
	return nil
}

// Top returns up to limit users, highest score first
func (l *Leaderboard) Top(ctx context.Context, limit int) ([]models.XPTotal, error) {
	if limit <= 0 {
		return []models.XPTotal{}, nil
	}
	scores, err := l.rdb.ZRevRangeWithScores(ctx, l.key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}
	return toTotals(scores), nil
}

// Replace rebuilds the set from totals.
// The new set is written under a temporary key and renamed so readers never see a partial set.
func (l *Leaderboard) Replace(ctx context.Context, totals []models.XPTotal) error {
	tmp := l.key + ":rebuild"
	members := make([]*redis.Z, 0, len(totals))
	for _, t := range totals {
		members = append(members, &redis.Z{Score: float64(t.TotalXP), Member: strconv.Itoa(t.UserID)})
	}

	_, err := l.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, tmp)
		if len(members) == 0 {
			pipe.Del(ctx, l.key)
			return nil
		}
		pipe.ZAdd(ctx, tmp, members...)
		pipe.Rename(ctx, tmp, l.key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to rebuild leaderboard: %w", err)
	}
	return nil
}

// toTotals converts sorted set entries, skipping members that are not user IDs
func toTotals(scores []redis.Z) []models.XPTotal {
	totals := make([]models.XPTotal, 0, len(scores))
	for _, z := range scores {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		userID, err := strconv.Atoi(member)
		if err != nil {
			continue
		}
		totals = append(totals, models.XPTotal{UserID: userID, TotalXP: int(z.Score)})
	}
	return totals
}
