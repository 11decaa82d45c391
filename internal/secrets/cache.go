package secrets

import (
	"context"
	"sync"
	"time"
)

// Cache is a TTL cache over a Source, injected into consumers as an explicit
// collaborator rather than held as process-global state so tests can
// substitute a deterministic source.
//
// A fetch failure is always surfaced; the cache never answers from an entry
// past its TTL and never converts an unavailable store into a stale success.
type Cache struct {
	source Source
	ttl    time.Duration
	clock  func() time.Time

	mu        sync.Mutex
	value     string
	fetchedAt time.Time
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithClock overrides the cache clock. For tests.
func WithClock(clock func() time.Time) CacheOption {
	return func(c *Cache) {
		c.clock = clock
	}
}

// NewCache wraps source with a TTL cache. A non-positive ttl disables
// caching entirely; every Fetch hits the source.
func NewCache(source Source, ttl time.Duration, opts ...CacheOption) *Cache {
	c := &Cache{source: source, ttl: ttl, clock: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) Fetch(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock()
	if c.value != "" && c.ttl > 0 && now.Sub(c.fetchedAt) < c.ttl {
		return c.value, nil
	}

	value, err := c.source.Fetch(ctx)
	if err != nil {
		// Drop whatever we held; the next call retries the source.
		c.value = ""
		return "", err
	}
	c.value = value
	c.fetchedAt = now
	return value, nil
}

// Invalidate discards the cached value so the next Fetch hits the source.
// Consumers call this when a verification failure may be due to a rotated
// secret.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = ""
	c.fetchedAt = time.Time{}
}
