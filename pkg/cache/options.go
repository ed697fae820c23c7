package cache

import (
	"log/slog"
	"time"
)

// Option configures a Cache.
type Option func(*Cache)

// WithClock replaces time.Now as the source of the current time.
// The clock is used by the evictor when scoring entries.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// WithEvictCallback sets a function called with every evicted entry.
// It runs after the cache lock is released.
func WithEvictCallback(fn func(Entry)) Option {
	return func(c *Cache) {
		c.onEvict = fn
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Cache) {
		if l != nil {
			c.logger = l
		}
	}
}
