// Package cache provides the short-lived response cache in front of the
// global feed.
//
// Entries are either absent or hold rendered bytes until their TTL runs
// out. Writes to posts never invalidate entries; only expiry and Clear do.
package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// Cache stores rendered fragments for a TTL fixed at construction time.
type Cache interface {
	// Get returns the value and true on a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	// Clear drops every entry so the next read repopulates.
	Clear(ctx context.Context) error
}

// IndexPagePrefix namespaces global feed entries.
const IndexPagePrefix = "index_page"

// IndexPageKey returns the key for one page of the global feed.
func IndexPageKey(page int) string {
	return fmt.Sprintf("%s:%d", IndexPagePrefix, page)
}

// Remember returns the cached value for key, or calls fill, stores its
// result and returns it. Cache failures are logged to logger and bypassed so
// a broken backend degrades to uncached reads.
func Remember(ctx context.Context, c Cache, logger *slog.Logger, key string, fill func(ctx context.Context) ([]byte, error)) ([]byte, error) {
	value, ok, err := c.Get(ctx, key)
	if err != nil {
		logger.Warn("Cache read failed", "key", key, "error", err)
	}
	if ok {
		return value, nil
	}

	value, err = fill(ctx)
	if err != nil {
		return nil, err
	}

	if err := c.Set(ctx, key, value); err != nil {
		logger.Warn("Cache write failed", "key", key, "error", err)
	}
	return value, nil
}
