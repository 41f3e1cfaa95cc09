package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	backend "github.com/redis/go-redis/v9"
)

// Cache stores recent forecasts by city.
type Cache interface {
	Get(ctx context.Context, city string) ([]Entry, bool, error)
	Set(ctx context.Context, city string, entries []Entry) error
}

// NopCache never stores anything.
type NopCache struct{}

func (NopCache) Get(context.Context, string) ([]Entry, bool, error) { return nil, false, nil }

func (NopCache) Set(context.Context, string, []Entry) error { return nil }

// RedisCache keeps forecasts in Redis with a TTL.
type RedisCache struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type CacheOption func(*RedisCache)

// WithTTL sets the expiration for cached forecasts.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *RedisCache) {
		c.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) CacheOption {
	return func(c *RedisCache) {
		c.prefix = prefix
	}
}

func NewRedisCache(address, password string, db int, opts ...CacheOption) *RedisCache {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewRedisCacheFromClient(rdb, opts...)
}

func NewRedisCacheFromClient(client *backend.Client, opts ...CacheOption) *RedisCache {
	c := &RedisCache{
		client: client,
		prefix: "agro:forecast:",
		ttl:    10 * time.Minute,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *RedisCache) key(city string) string {
	return c.prefix + strings.ToLower(strings.TrimSpace(city))
}

func (c *RedisCache) Get(ctx context.Context, city string) ([]Entry, bool, error) {
	val, err := c.client.Get(ctx, c.key(city)).Bytes()
	if err != nil {
		if err == backend.Nil {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get from redis: %w", err)
	}

	var entries []Entry
	if err := json.Unmarshal(val, &entries); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal forecast: %w", err)
	}
	return entries, true, nil
}

func (c *RedisCache) Set(ctx context.Context, city string, entries []Entry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal forecast: %w", err)
	}
	if err := c.client.Set(ctx, c.key(city), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
