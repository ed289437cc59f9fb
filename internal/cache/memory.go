package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Ensure MemoryCache implements Cache
var _ Cache = (*MemoryCache)(nil)

// MemoryCache is a process-local cache bounded by size and TTL.
// It is safe for concurrent use.
type MemoryCache struct {
	lru *expirable.LRU[string, []byte]
}

// NewMemory creates a cache holding at most size entries, each for ttl.
func NewMemory(size int, ttl time.Duration) *MemoryCache {
	return &MemoryCache{lru: expirable.NewLRU[string, []byte](size, nil, ttl)}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := c.lru.Get(key)
	return v, ok, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte) error {
	c.lru.Add(key, value)
	return nil
}

func (c *MemoryCache) Clear(_ context.Context) error {
	c.lru.Purge()
	return nil
}

// Len returns the number of live entries.
func (c *MemoryCache) Len() int {
	return c.lru.Len()
}
