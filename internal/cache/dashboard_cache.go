package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"

	"libraryhub/internal/microservices/http-api/dto"
)

const dashboardKey = "libraryhub:dashboard:summary"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type DashboardRedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient parses a redis:// URL and verifies the connection
func NewRedisClient(redisURL, password string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	if password != "" {
		opts.Password = password
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return rdb, nil
}

func NewDashboardRedisCache(client *redis.Client, ttl time.Duration) *DashboardRedisCache {
	return &DashboardRedisCache{client: client, ttl: ttl}
}

// Get returns nil, nil when nothing is cached.
func (c *DashboardRedisCache) Get(ctx context.Context) (*dto.DashboardSummary, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}
	raw, err := c.client.Get(ctx, dashboardKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var summary dto.DashboardSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		// corrupt entry, treat as a miss and let the next Set replace it
		return nil, nil
	}
	return &summary, nil
}

func (c *DashboardRedisCache) Set(ctx context.Context, summary *dto.DashboardSummary) error {
	if c == nil || c.client == nil || c.ttl <= 0 {
		return nil
	}
	raw, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode dashboard summary: %w", err)
	}
	return c.client.Set(ctx, dashboardKey, raw, c.ttl).Err()
}

func (c *DashboardRedisCache) Invalidate(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, dashboardKey).Err()
}

func (c *DashboardRedisCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
