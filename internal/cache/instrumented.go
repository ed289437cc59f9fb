package cache

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

// Instrumented counts hits and misses of the wrapped cache.
type Instrumented struct {
	next   Cache
	hits   prometheus.Counter
	misses prometheus.Counter
}

// NewInstrumented wraps next.
func NewInstrumented(next Cache, hits, misses prometheus.Counter) *Instrumented {
	return &Instrumented{next: next, hits: hits, misses: misses}
}

func (c *Instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, ok, err := c.next.Get(ctx, key)
	if ok {
		c.hits.Inc()
	} else {
		c.misses.Inc()
	}
	return v, ok, err
}

func (c *Instrumented) Set(ctx context.Context, key string, value []byte) error {
	return c.next.Set(ctx, key, value)
}

func (c *Instrumented) Clear(ctx context.Context) error {
	return c.next.Clear(ctx)
}
