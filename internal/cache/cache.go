// Package cache provides a Redis-backed read-through cache for paginated
// catalog listings. Writes to an entity invalidate every cached page under
// that entity's prefix rather than tracking individual keys.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/bookhaven/bookstore-backend/internal/config"
	"github.com/bookhaven/bookstore-backend/internal/constants"
)

// ErrCacheMiss is returned when a key is not present in the cache.
var ErrCacheMiss = errors.New("cache miss")

// Cache wraps a Redis client with JSON helpers and prefix invalidation.
// A nil Cache is valid and behaves as a pass-through (every read misses,
// every write is a no-op), so callers never need to branch on whether
// caching is enabled.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// Connect creates a Cache from the application configuration.
// It returns nil (a disabled cache) when Redis is not enabled.
func Connect(cfg *config.AppConfig) (*Cache, error) {
	if !cfg.Redis.Enabled {
		log.Info().Msg("Redis cache disabled")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Info().Str("addr", cfg.Redis.Addr).Msg("Connected to Redis cache")

	return &Cache{
		client: client,
		ttl:    constants.DefaultCacheTTL,
	}, nil
}

// New creates a Cache around an existing Redis client. Used by tests.
func New(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Close releases the underlying Redis connection.
func (c *Cache) Close() {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close Redis client")
	}
}

// PageKey builds the cache key for one page of an entity listing.
func PageKey(prefix string, page, pageSize int) string {
	return fmt.Sprintf("%s:page:%d:size:%d", prefix, page, pageSize)
}

// GetJSON fetches a key and unmarshals it into v.
// Returns ErrCacheMiss when the key is absent or the cache is disabled.
func (c *Cache) GetJSON(ctx context.Context, key string, v interface{}) error {
	if c == nil || c.client == nil {
		return ErrCacheMiss
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		// Treat infrastructure errors as misses so a Redis outage
		// degrades to uncached reads instead of failing requests.
		log.Warn().Err(err).Str("key", key).Msg("Cache read failed")
		return ErrCacheMiss
	}

	if err := json.Unmarshal(data, v); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Cache entry corrupt, discarding")
		c.client.Del(ctx, key)
		return ErrCacheMiss
	}

	return nil
}

// SetJSON marshals v and stores it under key with the cache TTL.
// Failures are logged, never returned; the cache is best-effort.
func (c *Cache) SetJSON(ctx context.Context, key string, v interface{}) {
	if c == nil || c.client == nil {
		return
	}

	data, err := json.Marshal(v)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to marshal cache entry")
		return
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Cache write failed")
	}
}

// InvalidatePrefix deletes every key under the given entity prefix.
// Called after any write to the entity so stale pages never outlive a change.
func (c *Cache) InvalidatePrefix(ctx context.Context, prefix string) {
	if c == nil || c.client == nil {
		return
	}

	iter := c.client.Scan(ctx, 0, prefix+":*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.Warn().Err(err).Str("prefix", prefix).Msg("Cache invalidation scan failed")
		return
	}

	if len(keys) == 0 {
		return
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		log.Warn().Err(err).Str("prefix", prefix).Msg("Cache invalidation failed")
		return
	}

	log.Debug().Str("prefix", prefix).Int("keys", len(keys)).Msg("Cache invalidated")
}
