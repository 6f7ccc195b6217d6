package fielddata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// cacheKeyPrefix namespaces field data entries in Redis, scoped per org.
const cacheKeyPrefix = "fielddata:"

// cachedPayload is what the Redis cache stores per (org, plugin): the raw
// upstream payload and when it was fetched. Entries are kept past their
// policy TTL on purpose: a stale entry is still the best answer for the
// last_cache fallback.
type cachedPayload struct {
	Data      json.RawMessage `json:"data"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// Cache stores fetched payloads in Redis. Freshness is decided by the
// policy registry, not by Redis expiry.
type Cache struct {
	redis *redis.Client
}

// NewCache creates a field data cache over the given Redis client.
func NewCache(client *redis.Client) *Cache {
	return &Cache{redis: client}
}

func cacheKey(orgID, plugin string) string {
	return cacheKeyPrefix + orgID + ":" + plugin
}

// Get returns the cached payload for (org, plugin), or (nil, nil) on a miss.
func (c *Cache) Get(ctx context.Context, orgID, plugin string) (*cachedPayload, error) {
	data, err := c.redis.Get(ctx, cacheKey(orgID, plugin)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading field data cache: %w", err)
	}

	var payload cachedPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		// A corrupt entry behaves like a miss; the next fetch rewrites it.
		return nil, nil
	}
	return &payload, nil
}

// Put stores a freshly fetched payload for (org, plugin).
func (c *Cache) Put(ctx context.Context, orgID, plugin string, data json.RawMessage, fetchedAt time.Time) error {
	encoded, err := json.Marshal(cachedPayload{Data: data, FetchedAt: fetchedAt})
	if err != nil {
		return fmt.Errorf("encoding field data cache entry: %w", err)
	}
	if err := c.redis.Set(ctx, cacheKey(orgID, plugin), encoded, 0).Err(); err != nil {
		return fmt.Errorf("writing field data cache: %w", err)
	}
	return nil
}
