package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LeaderboardCache keeps cumulative scores in a Redis ZSET per room,
// refreshed at every reveal.
type LeaderboardCache interface {
	SetScore(ctx context.Context, roomCode, playerID string, score int) error
	Top(ctx context.Context, roomCode string, limit int) ([]LeaderboardEntry, error)
	Rank(ctx context.Context, roomCode, playerID string) (int64, error)
	Delete(ctx context.Context, roomCode string) error
}

// LeaderboardEntry is one scored row; names are resolved by the caller
// from room state.
type LeaderboardEntry struct {
	PlayerID string `json:"playerId"`
	Score    int    `json:"score"`
	Rank     int    `json:"rank"`
}

type leaderboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewLeaderboardCache creates a leaderboard cache with the given expiry.
func NewLeaderboardCache(client *redis.Client, ttl time.Duration) LeaderboardCache {
	return &leaderboardCache{client: client, ttl: ttl}
}

func (c *leaderboardCache) key(roomCode string) string {
	return fmt.Sprintf("room:%s:lb", roomCode)
}

func (c *leaderboardCache) SetScore(ctx context.Context, roomCode, playerID string, score int) error {
	key := c.key(roomCode)
	err := c.client.ZAdd(ctx, key, redis.Z{
		Score:  float64(score),
		Member: playerID,
	}).Err()
	if err != nil {
		return err
	}
	return c.client.Expire(ctx, key, c.ttl).Err()
}

func (c *leaderboardCache) Top(ctx context.Context, roomCode string, limit int) ([]LeaderboardEntry, error) {
	results, err := c.client.ZRevRangeWithScores(ctx, c.key(roomCode), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, len(results))
	for i, z := range results {
		entries[i] = LeaderboardEntry{
			PlayerID: z.Member.(string),
			Score:    int(z.Score),
			Rank:     i + 1,
		}
	}
	return entries, nil
}

func (c *leaderboardCache) Rank(ctx context.Context, roomCode, playerID string) (int64, error) {
	rank, err := c.client.ZRevRank(ctx, c.key(roomCode), playerID).Result()
	if err == redis.Nil {
		return -1, nil
	}
	return rank + 1, err // 1-indexed
}

func (c *leaderboardCache) Delete(ctx context.Context, roomCode string) error {
	return c.client.Del(ctx, c.key(roomCode)).Err()
}
