package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// StatsCache caches per-owner task statistics in Redis with version-bump
// invalidation. A nil client degrades to pass-through so the service works
// without Redis. Token verification is never cached here or anywhere else;
// trust is re-derived from the signature and clock on every request.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatsCache instantiates the cache helper.
func NewStatsCache(client *redis.Client, ttl time.Duration) *StatsCache {
	return &StatsCache{client: client, ttl: ttl}
}

func versionKey(ownerID int64) string {
	return fmt.Sprintf("tasks:stats:ver:%d", ownerID)
}

// version returns the owner's cache version, initialising when missing.
func (c *StatsCache) version(ctx context.Context, ownerID int64) (int64, error) {
	ver, err := c.client.Get(ctx, versionKey(ownerID)).Int64()
	if err == redis.Nil {
		if err := c.client.Set(ctx, versionKey(ownerID), 1, 0).Err(); err != nil {
			return 0, err
		}
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return ver, nil
}

// Fetch loads the owner's cached stats or populates them using the loader.
func (c *StatsCache) Fetch(ctx context.Context, ownerID int64, loader func(context.Context) (Stats, error)) (Stats, error) {
	if c == nil || c.client == nil {
		return loader(ctx)
	}
	ver, err := c.version(ctx, ownerID)
	if err != nil {
		return loader(ctx)
	}
	key := fmt.Sprintf("tasks:stats:%d:%d", ownerID, ver)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var stats Stats
		if err := json.Unmarshal(payload, &stats); err == nil {
			return stats, nil
		}
	}

	stats, err := loader(ctx)
	if err != nil {
		return Stats{}, err
	}
	if raw, err := json.Marshal(stats); err == nil {
		_ = c.client.Set(ctx, key, raw, c.ttl).Err()
	}
	return stats, nil
}

// Bump invalidates the owner's cached stats by incrementing the version.
func (c *StatsCache) Bump(ctx context.Context, ownerID int64) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Incr(ctx, versionKey(ownerID)).Err()
}
