package utils

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding
	"errors"        // Error inspection
	"time"          // Time durations

	"blog_system/internal/metrics" // Cache hit/miss counters

	"github.com/redis/go-redis/v9" // Redis client
)

// tombstone marks a key invalidated by a write; it reads as a miss and blocks fills
const tombstone = "\x00invalidated"

// Cache stores JSON documents under string keys. Fill never overwrites an
// existing key, and Invalidate leaves a tombstone behind, so a reader that
// loaded a record before a write committed cannot put it back afterwards.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Fill(ctx context.Context, key string, value any, ttl time.Duration) error
	Invalidate(ctx context.Context, hold time.Duration, keys ...string) error
}

// RedisCache is a Cache backed by Redis
type RedisCache struct {
	rdb *redis.Client // Redis client
}

// NewRedisCache wraps a connected Redis client
func NewRedisCache(rdb *redis.Client) *RedisCache {
	return &RedisCache{rdb: rdb}
}

// Get retrieves a value from Redis and unmarshals it into dest
func (c *RedisCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	val, err := c.rdb.Get(ctx, key).Result() // Get value from Redis
	if errors.Is(err, redis.Nil) || (err == nil && val == tombstone) {
		metrics.CacheMissesTotal.Inc()
		return false, nil // Key does not exist or was invalidated
	} else if err != nil {
		return false, err // Other Redis error
	}
	metrics.CacheHitsTotal.Inc()
	return true, json.Unmarshal([]byte(val), dest) // Unmarshal JSON into dest
}

// Fill stores value with SETNX so it never replaces a tombstone or a newer fill
func (c *RedisCache) Fill(ctx context.Context, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value) // Marshal value to JSON
	if err != nil {
		return err // Return error if marshaling fails
	}
	return c.rdb.SetNX(ctx, key, b, ttl).Err() // Losing the race is not an error
}

// Invalidate replaces keys with tombstones that expire after hold
func (c *RedisCache) Invalidate(ctx context.Context, hold time.Duration, keys ...string) error {
	if len(keys) == 0 {
		return nil // Nothing to invalidate
	}
	_, err := c.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, key := range keys {
			pipe.Set(ctx, key, tombstone, hold)
		}
		return nil
	})
	return err
}

// NopCache never stores anything; used when Redis is not configured
type NopCache struct{}

func (NopCache) Get(context.Context, string, any) (bool, error) { return false, nil }

func (NopCache) Fill(context.Context, string, any, time.Duration) error { return nil }

func (NopCache) Invalidate(context.Context, time.Duration, ...string) error { return nil }
