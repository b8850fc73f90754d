// Package catalog implements the time-bounded model-list cache shared by
// all provider adapters.
package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTTL is the freshness window after which a cached model list is
// considered stale and refreshed.
const DefaultTTL = time.Hour

// Cache holds a provider's live-fetched model identifiers with a fetch
// timestamp. An entry older than the freshness window is treated as
// absent. A failed refresh never clears an existing entry.
type Cache struct {
	mu        sync.Mutex
	ttl       time.Duration
	now       func() time.Time
	models    []string
	fetchedAt time.Time
	log       zerolog.Logger
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL overrides the freshness window.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		c.ttl = ttl
	}
}

// WithClock injects a clock, used by tests to control freshness.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// WithLogger sets the logger used for fetch-failure diagnostics.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Cache) {
		c.log = log
	}
}

// New creates a cache with a one-hour freshness window.
func New(opts ...Option) *Cache {
	c := &Cache{
		ttl: DefaultTTL,
		now: time.Now,
		log: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached model list if present and fresh.
func (c *Cache) Get() ([]string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.models) == 0 {
		return nil, false
	}
	if c.now().Sub(c.fetchedAt) >= c.ttl {
		return nil, false
	}
	return append([]string(nil), c.models...), true
}

// Put stores a freshly fetched model list and stamps the current time.
// Empty lists are not cached.
func (c *Cache) Put(models []string) {
	if len(models) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.models = append([]string(nil), models...)
	c.fetchedAt = c.now()
}

// Fetch returns the freshness-checked cache if valid, otherwise runs the
// live query. A successful fetch overwrites the cache; a failure logs a
// diagnostic, leaves any existing (stale) entry intact, and returns the
// static fallback instead of an error.
func (c *Cache) Fetch(ctx context.Context, provider string, live func(context.Context) ([]string, error), fallback []string) []string {
	if models, ok := c.Get(); ok {
		return models
	}

	models, err := live(ctx)
	if err != nil || len(models) == 0 {
		c.log.Warn().
			Str("provider", provider).
			Err(err).
			Msg("model list fetch failed, using static catalog")
		return fallback
	}

	c.Put(models)
	return models
}
