package api

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// ResponseCache is an optional Redis cache for rendered report bodies.
// It lives outside the engine: the computation itself stays pure and
// cache-free, only the HTTP surface memoizes. A cache failure is never
// a request failure — the report is just recomputed.
type ResponseCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewResponseCache connects to Redis at addr.
func NewResponseCache(addr string, ttl time.Duration) *ResponseCache {
	return &ResponseCache{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
		logger: slog.Default().With("component", "response_cache"),
	}
}

// Get returns the cached body for key, or false on miss or error.
func (c *ResponseCache) Get(ctx context.Context, key string) ([]byte, bool) {
	body, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.WarnContext(ctx, "cache get failed", "key", key, "error", err)
		return nil, false
	}
	return body, true
}

// Set stores a body under key for the configured TTL.
func (c *ResponseCache) Set(ctx context.Context, key string, body []byte) {
	if err := c.client.Set(ctx, key, body, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "cache set failed", "key", key, "error", err)
	}
}

// reportCacheKey keys a rendered report by project and resolved cutoff
// day; the same inputs always render the same body.
func reportCacheKey(projectID string, asOf time.Time) string {
	return fmt.Sprintf("curva-s:%s:%s", projectID, asOf.Format("2006-01-02"))
}
