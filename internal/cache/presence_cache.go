package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// PresenceCache mirrors participant heartbeats into Redis so other
// processes (and the host UI) can see who is still around. The engine
// itself never evicts anyone based on these timestamps.
type PresenceCache interface {
	Touch(ctx context.Context, roomCode, playerID string, at time.Time) error
	LastSeen(ctx context.Context, roomCode, playerID string) (time.Time, error)
	All(ctx context.Context, roomCode string) (map[string]time.Time, error)
	Remove(ctx context.Context, roomCode, playerID string) error
	Delete(ctx context.Context, roomCode string) error
}

type presenceCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPresenceCache creates a presence cache with the given expiry.
func NewPresenceCache(client *redis.Client, ttl time.Duration) PresenceCache {
	return &presenceCache{client: client, ttl: ttl}
}

func (c *presenceCache) key(roomCode string) string {
	return fmt.Sprintf("room:%s:presence", roomCode)
}

func (c *presenceCache) Touch(ctx context.Context, roomCode, playerID string, at time.Time) error {
	key := c.key(roomCode)
	if err := c.client.HSet(ctx, key, playerID, at.UTC().Format(time.RFC3339Nano)).Err(); err != nil {
		return err
	}
	return c.client.Expire(ctx, key, c.ttl).Err()
}

func (c *presenceCache) LastSeen(ctx context.Context, roomCode, playerID string) (time.Time, error) {
	v, err := c.client.HGet(ctx, c.key(roomCode), playerID).Result()
	if err == redis.Nil {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339Nano, v)
}

func (c *presenceCache) All(ctx context.Context, roomCode string) (map[string]time.Time, error) {
	raw, err := c.client.HGetAll(ctx, c.key(roomCode)).Result()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]time.Time, len(raw))
	for id, v := range raw {
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			continue
		}
		seen[id] = t
	}
	return seen, nil
}

func (c *presenceCache) Remove(ctx context.Context, roomCode, playerID string) error {
	return c.client.HDel(ctx, c.key(roomCode), playerID).Err()
}

func (c *presenceCache) Delete(ctx context.Context, roomCode string) error {
	return c.client.Del(ctx, c.key(roomCode)).Err()
}
