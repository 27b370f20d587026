package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"trackline/internal/model"
)

// SessionCache persists issued player identities so a browser session
// can be rebound after a reload: the client keeps the id+token locally,
// the server keeps this record to recognize it.
type SessionCache interface {
	Set(ctx context.Context, sess *model.PlayerSession) error
	Get(ctx context.Context, playerID string) (*model.PlayerSession, error)
	Delete(ctx context.Context, playerID string) error
}

type sessionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionCache creates a session cache with the given expiry.
func NewSessionCache(client *redis.Client, ttl time.Duration) SessionCache {
	return &sessionCache{client: client, ttl: ttl}
}

func (c *sessionCache) key(playerID string) string {
	return fmt.Sprintf("session:%s", playerID)
}

func (c *sessionCache) Set(ctx context.Context, sess *model.PlayerSession) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(sess.PlayerID), data, c.ttl).Err()
}

func (c *sessionCache) Get(ctx context.Context, playerID string) (*model.PlayerSession, error) {
	data, err := c.client.Get(ctx, c.key(playerID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var sess model.PlayerSession
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (c *sessionCache) Delete(ctx context.Context, playerID string) error {
	return c.client.Del(ctx, c.key(playerID)).Err()
}
