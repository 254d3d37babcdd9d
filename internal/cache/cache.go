// Package cache provides an optional Redis-backed cache for workflow
// configuration and status message lookups. All methods are nil-safe so a
// disabled cache degrades to direct database reads.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/zephyrixtech/test-inventory-sub001/internal/config"
)

// ErrMiss is returned when a key is absent from the cache
var ErrMiss = errors.New("cache miss")

// Cache wraps a Redis client with JSON serialization
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// New connects to Redis when enabled, returning nil otherwise
func New(ctx context.Context, cfg *config.RedisConfig, logger *zap.Logger) (*Cache, error) {
	if cfg == nil || !cfg.Enabled {
		logger.Info("Redis cache disabled")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis cache connected", zap.String("addr", cfg.Addr))
	return &Cache{client: client, ttl: cfg.TTLDuration(), logger: logger}, nil
}

// Enabled reports whether the cache is live
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// Get unmarshals the cached value for key into dest
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) error {
	if !c.Enabled() {
		return ErrMiss
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrMiss
		}
		c.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		return ErrMiss
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		c.logger.Warn("cache entry corrupt, dropping", zap.String("key", key), zap.Error(err))
		c.client.Del(ctx, key)
		return ErrMiss
	}
	return nil
}

// Set stores value under key with the configured TTL. Failures are logged,
// not returned; the cache is best-effort.
func (c *Cache) Set(ctx context.Context, key string, value interface{}) {
	if !c.Enabled() {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("cache marshal failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate removes keys from the cache
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if !c.Enabled() || len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

// Close shuts down the Redis connection
func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

// WorkflowConfigKey is the cache key for a process's workflow configuration
func WorkflowConfigKey(processName string) string {
	return "workflow_config:" + processName
}

// StatusMessageKey is the cache key for a status message lookup
func StatusMessageKey(category, subCategory string) string {
	return "status_message:" + category + ":" + subCategory
}
