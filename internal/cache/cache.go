// Package cache keeps the dashboard summary between requests.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const summaryKey = "dashboard:summary"

// ErrMiss is returned by Get when nothing is cached
var ErrMiss = errors.New("cache miss")

type DashboardCache interface {
	Get(ctx context.Context, dest interface{}) error
	Set(ctx context.Context, value interface{}) error
	Invalidate(ctx context.Context) error
}

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache stores the summary as JSON under a single key with a TTL
func NewRedisCache(client *redis.Client, ttl time.Duration) DashboardCache {
	return &redisCache{client: client, ttl: ttl}
}

func (c *redisCache) Get(ctx context.Context, dest interface{}) error {
	raw, err := c.client.Get(ctx, summaryKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

func (c *redisCache) Set(ctx context.Context, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, summaryKey, raw, c.ttl).Err()
}

func (c *redisCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, summaryKey).Err()
}

type noopCache struct{}

// NewNoop never stores anything
func NewNoop() DashboardCache { return noopCache{} }

func (noopCache) Get(context.Context, interface{}) error { return ErrMiss }
func (noopCache) Set(context.Context, interface{}) error { return nil }
func (noopCache) Invalidate(context.Context) error       { return nil }

// Connect pings Redis before handing out the client
func Connect(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}
