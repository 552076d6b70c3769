package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/courageallien/outreach-analyst/internal/core"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// redisEnvelope wraps the report so the write time survives the round trip;
// Redis expires entries natively so no cleanup task is needed.
type redisEnvelope struct {
	WrittenAt time.Time    `json:"written_at"`
	TTLClass  string       `json:"ttl_class"`
	Report    *core.Report `json:"report"`
}

// RedisCache is a Redis implementation of the ReportCache port
type RedisCache struct {
	client     *redis.Client
	ttlByClass map[string]time.Duration
	logger     *zap.Logger
}

// keyPrefix namespaces cache entries inside a shared Redis instance
const keyPrefix = "outreach-analyst:report:"

// NewRedisCache creates a new Redis report cache
func NewRedisCache(addr string, db int, ttlByClass map[string]time.Duration, logger *zap.Logger) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	// Test the connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCache{
		client:     client,
		ttlByClass: ttlByClass,
		logger:     logger,
	}, nil
}

// Get retrieves a cached report, or reports a miss
func (c *RedisCache) Get(ctx context.Context, key string) (*core.Report, bool) {
	payload, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Error("Failed to query cache", zap.Error(err), zap.String("key", key))
		}
		return nil, false
	}

	var env redisEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		c.logger.Error("Failed to decode cached report", zap.Error(err), zap.String("key", key))
		return nil, false
	}

	return env.Report, true
}

// Set stores a report under the TTL class's native Redis expiry
func (c *RedisCache) Set(ctx context.Context, key string, report *core.Report, ttlClass string) {
	payload, err := json.Marshal(redisEnvelope{
		WrittenAt: time.Now(),
		TTLClass:  ttlClass,
		Report:    report,
	})
	if err != nil {
		c.logger.Error("Failed to encode report", zap.Error(err), zap.String("key", key))
		return
	}

	ttl := ttlFor(c.ttlByClass, ttlClass)
	if err := c.client.Set(ctx, keyPrefix+key, payload, ttl).Err(); err != nil {
		c.logger.Error("Failed to insert cache entry", zap.Error(err), zap.String("key", key))
	}
}

// Clear removes entries whose key contains pattern; empty pattern clears all
func (c *RedisCache) Clear(ctx context.Context, pattern string) error {
	match := keyPrefix + "*"
	if pattern != "" {
		match = keyPrefix + "*" + pattern + "*"
	}

	iter := c.client.Scan(ctx, 0, match, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete cache entry: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cache keys: %w", err)
	}
	return nil
}

// Age returns how long ago the entry was written
func (c *RedisCache) Age(ctx context.Context, key string) (time.Duration, bool) {
	payload, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		return 0, false
	}

	var env redisEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return 0, false
	}

	return time.Since(env.WrittenAt), true
}

// Stop closes the Redis connection
func (c *RedisCache) Stop() {
	if err := c.client.Close(); err != nil {
		c.logger.Error("Failed to close Redis client", zap.Error(err))
	}
}
