package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

// ExclusionCache keeps per-viewer exclusion sets in Redis for a few seconds
// so that scrolling a feed does not re-read three relationship tables per
// page. Any Redis failure degrades to a cache miss.
type ExclusionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewExclusionCache returns a cache over the given client, or nil when the
// client is nil so callers can wire it unconditionally.
func NewExclusionCache(client *redis.Client, ttl time.Duration) *ExclusionCache {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &ExclusionCache{client: client, ttl: ttl}
}

func exclusionKey(userID string) string {
	return fmt.Sprintf("discovery:excluded:%s", userID)
}

// Get returns the cached exclusion IDs and whether the entry was present.
func (c *ExclusionCache) Get(ctx context.Context, userID string) ([]string, bool) {
	raw, err := c.client.Get(ctx, exclusionKey(userID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("discovery: exclusion cache read failed for %s: %v", userID, err)
		}
		return nil, false
	}

	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, false
	}
	return ids, true
}

// Set stores the exclusion IDs for the configured TTL. Errors are logged and
// dropped; the resolver already has the fresh set in hand.
func (c *ExclusionCache) Set(ctx context.Context, userID string, ids []string) {
	raw, err := json.Marshal(ids)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, exclusionKey(userID), raw, c.ttl).Err(); err != nil {
		log.Printf("discovery: exclusion cache write failed for %s: %v", userID, err)
	}
}

// Invalidate drops a viewer's cached set, for callers that just wrote a
// block, match, or report and want it reflected immediately.
func (c *ExclusionCache) Invalidate(ctx context.Context, userID string) {
	if err := c.client.Del(ctx, exclusionKey(userID)).Err(); err != nil {
		log.Printf("discovery: exclusion cache invalidate failed for %s: %v", userID, err)
	}
}
