package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"trackline/internal/model"
)

// RoomCache keeps the Redis-side room header. The TTL is the room
// expiry mechanism: when the key lapses the room is gone.
type RoomCache interface {
	SetMeta(ctx context.Context, code string, meta *model.RoomMeta) error
	GetMeta(ctx context.Context, code string) (*model.RoomMeta, error)
	SetLifecycle(ctx context.Context, code string, lc model.Lifecycle) error
	Delete(ctx context.Context, code string) error
	Exists(ctx context.Context, code string) (bool, error)
}

type roomCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRoomCache creates a room cache with the given expiry.
func NewRoomCache(client *redis.Client, ttl time.Duration) RoomCache {
	return &roomCache{client: client, ttl: ttl}
}

func (c *roomCache) key(code string) string {
	return fmt.Sprintf("room:%s:meta", code)
}

func (c *roomCache) SetMeta(ctx context.Context, code string, meta *model.RoomMeta) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(code), data, c.ttl).Err()
}

func (c *roomCache) GetMeta(ctx context.Context, code string) (*model.RoomMeta, error) {
	data, err := c.client.Get(ctx, c.key(code)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var meta model.RoomMeta
	if err := json.Unmarshal([]byte(data), &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (c *roomCache) SetLifecycle(ctx context.Context, code string, lc model.Lifecycle) error {
	meta, err := c.GetMeta(ctx, code)
	if err != nil {
		return err
	}
	if meta == nil {
		return fmt.Errorf("room %s not found", code)
	}
	meta.Lifecycle = lc
	return c.SetMeta(ctx, code, meta)
}

func (c *roomCache) Delete(ctx context.Context, code string) error {
	return c.client.Del(ctx, c.key(code)).Err()
}

func (c *roomCache) Exists(ctx context.Context, code string) (bool, error) {
	n, err := c.client.Exists(ctx, c.key(code)).Result()
	return n > 0, err
}
