package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/prepaclassics/backend/core"
)

// RedisCache implements core.Cache over a shared Redis instance. Values are
// JSON-encoded; a missing key maps to core.ErrCacheMiss.
type RedisCache struct {
	client *redis.Client
}

var _ core.Cache = (*RedisCache)(nil)

func NewRedisCache(conf *core.Config) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{
			Addr:     conf.Redis.Addr,
			Password: conf.Redis.Password,
			DB:       conf.Redis.DB,
		}),
	}
}

func (c *RedisCache) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return core.ErrCacheMiss
	}
	if err != nil {
		return errors.Wrap(err, "reading cache key")
	}
	return errors.Wrap(json.Unmarshal(data, dest), "decoding cached value")
}

func (c *RedisCache) Set(ctx context.Context, key string, val interface{}, ttl time.Duration) error {
	data, err := json.Marshal(val)
	if err != nil {
		return errors.Wrap(err, "encoding value for cache")
	}
	return errors.Wrap(c.client.Set(ctx, key, data, ttl).Err(), "writing cache key")
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return errors.Wrap(c.client.Del(ctx, key).Err(), "deleting cache key")
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
