package redisclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// PreviewCache holds short-lived availability views keyed by
// (date, location). Previews may be slightly stale without harming
// correctness; the commit path always re-reads the store. A nil *PreviewCache
// is valid and disables caching.
type PreviewCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewPreviewCache(client *redis.Client, ttl time.Duration) *PreviewCache {
	return &PreviewCache{client: client, ttl: ttl}
}

func previewKey(date, location string) string {
	return fmt.Sprintf("avail:%s:%s", date, location)
}

// Get unmarshals a cached view into v. The bool reports a cache hit; cache
// errors are returned as misses so a flaky Redis never fails a read.
func (c *PreviewCache) Get(ctx context.Context, date, location string, v any) bool {
	if c == nil {
		return false
	}

	raw, err := c.client.Get(ctx, previewKey(date, location)).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false
	}
	return true
}

func (c *PreviewCache) Set(ctx context.Context, date, location string, v any) {
	if c == nil {
		return
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, previewKey(date, location), raw, c.ttl).Err()
}

// Invalidate drops the cached view after a commit or cancellation so the next
// preview reflects the change immediately instead of after the TTL.
func (c *PreviewCache) Invalidate(ctx context.Context, date, location string) error {
	if c == nil {
		return nil
	}

	err := c.client.Del(ctx, previewKey(date, location)).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("invalidate availability preview: %w", err)
	}
	return nil
}
