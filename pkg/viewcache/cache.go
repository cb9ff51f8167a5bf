// Package viewcache provides a Redis-backed tagged view cache.
// Rendered view payloads are stored under tags derived from the rows they
// depend on; a mutation invalidates its tags so the next read re-fetches.
// This is a performance contract, not a correctness one - a cold or absent
// cache always falls through to the query layer.
package viewcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultTTL bounds staleness even if an invalidation is lost.
const DefaultTTL = 10 * time.Minute

// View tags. Each names one derived view and the owner it belongs to.
func TagEntries(userID string) string     { return "entries:" + userID }
func TagEntry(entryID string) string      { return "entry:" + entryID }
func TagSavedQuotes(userID string) string { return "saved-quotes:" + userID }
func TagUploads(userID string) string     { return "uploads:" + userID }

// Cache is a tagged view cache. A nil *Cache or one constructed with a nil
// client is a pass-through: Get always misses, Set and Invalidate are no-ops.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// New creates a view cache on the given Redis client. client may be nil.
func New(client *redis.Client, logger *zap.Logger) *Cache {
	return &Cache{
		client: client,
		ttl:    DefaultTTL,
		logger: logger.Named("viewcache"),
	}
}

func (c *Cache) disabled() bool {
	return c == nil || c.client == nil
}

func key(tag string) string {
	return fmt.Sprintf("view:%s", tag)
}

// Get returns the cached payload for tag, or ok=false on a miss.
// Redis errors are logged and reported as misses; the cache never fails a
// request.
func (c *Cache) Get(ctx context.Context, tag string) ([]byte, bool) {
	if c.disabled() {
		return nil, false
	}

	payload, err := c.client.Get(ctx, key(tag)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("view cache read failed", zap.String("tag", tag), zap.Error(err))
		}
		return nil, false
	}
	return payload, true
}

// Set stores a rendered payload under tag.
func (c *Cache) Set(ctx context.Context, tag string, payload []byte) {
	if c.disabled() {
		return
	}

	if err := c.client.Set(ctx, key(tag), payload, c.ttl).Err(); err != nil {
		c.logger.Warn("view cache write failed", zap.String("tag", tag), zap.Error(err))
	}
}

// Invalidate marks the given views stale. Called by mutations for every
// view derived from the rows they changed.
func (c *Cache) Invalidate(ctx context.Context, tags ...string) {
	if c.disabled() || len(tags) == 0 {
		return
	}

	keys := make([]string, len(tags))
	for i, tag := range tags {
		keys[i] = key(tag)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("view cache invalidation failed", zap.Strings("tags", tags), zap.Error(err))
	}
}
