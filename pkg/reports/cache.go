package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cache is an optional per-agency report cache over Redis. Keys always embed
// the agency ID, so one agency's cached report can never be served to
// another. A nil *Cache is valid and disables caching.
type Cache struct {
	client *redis.Client
	logger *zap.Logger
}

// NewCache wraps a Redis client. client may be nil (caching disabled).
func NewCache(client *redis.Client, logger *zap.Logger) *Cache {
	if client == nil {
		return nil
	}
	return &Cache{client: client, logger: logger.Named("reportcache")}
}

// GetJSON loads a cached report into dest, returning true on a hit. Cache
// failures are treated as misses; reports are always recomputable.
func (c *Cache) GetJSON(ctx context.Context, agencyID int64, key string, dest any) bool {
	if c == nil {
		return false
	}
	payload, err := c.client.Get(ctx, c.fullKey(agencyID, key)).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		c.logger.Warn("discarding undecodable cached report", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// SetJSON stores a report under the agency-prefixed key.
func (c *Cache) SetJSON(ctx context.Context, agencyID int64, key string, value any, ttl time.Duration) {
	if c == nil {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("failed to marshal report for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, c.fullKey(agencyID, key), payload, ttl).Err(); err != nil {
		c.logger.Warn("failed to cache report", zap.String("key", key), zap.Error(err))
	}
}

func (c *Cache) fullKey(agencyID int64, key string) string {
	return fmt.Sprintf("agency:%d:report:%s", agencyID, key)
}

// cacheKey derives a stable key from the report kind and request shape.
func cacheKey(kind string, req any) string {
	payload, err := json.Marshal(req)
	if err != nil {
		return kind
	}
	h := fnv.New64a()
	_, _ = h.Write(payload)
	return fmt.Sprintf("%s:%x", kind, h.Sum64())
}
