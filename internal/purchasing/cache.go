package purchasing

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const summaryKey = "purchasing:summary"

// SummaryCache keeps the dashboard summary in Redis so list views polling the
// dashboard do not recompute on every request. A nil cache or nil client is a
// no-op; callers fall through to the repository.
type SummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSummaryCache instantiates the cache helper.
func NewSummaryCache(client *redis.Client, ttl time.Duration) *SummaryCache {
	return &SummaryCache{client: client, ttl: ttl}
}

// Get returns the cached summary when present and decodable.
func (c *SummaryCache) Get(ctx context.Context) (Summary, bool) {
	if c == nil || c.client == nil {
		return Summary{}, false
	}
	raw, err := c.client.Get(ctx, summaryKey).Bytes()
	if err != nil {
		return Summary{}, false
	}
	var summary Summary
	if err := json.Unmarshal(raw, &summary); err != nil {
		return Summary{}, false
	}
	return summary, true
}

// Put stores the summary with the configured TTL.
func (c *SummaryCache) Put(ctx context.Context, summary Summary) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(summary)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, summaryKey, raw, c.ttl).Err()
}

// Invalidate drops the cached summary after a mutation.
func (c *SummaryCache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Del(ctx, summaryKey).Err()
}
