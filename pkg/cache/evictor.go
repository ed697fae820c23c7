package cache

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// Evictor drains the capacity signals of a Cache in a dedicated goroutine,
// keeping eviction latency off the request path.
type Evictor struct {
	cache   *Cache
	logger  *slog.Logger
	running atomic.Bool
	runs    atomic.Int64
	evicted atomic.Int64
}

// EvictorOption configures an Evictor.
type EvictorOption func(*Evictor)

// WithEvictorLogger sets the logger for eviction events.
func WithEvictorLogger(l *slog.Logger) EvictorOption {
	return func(e *Evictor) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEvictor creates an evictor for c. Nothing happens until Run is called.
func NewEvictor(c *Cache, opts ...EvictorOption) *Evictor {
	if c == nil {
		panic("cache: nil cache passed to NewEvictor")
	}
	e := &Evictor{
		cache:  c,
		logger: c.logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run blocks, evicting whenever the cache signals it is full, until ctx is
// done. It returns nil on cancellation so it can be used in an errgroup.
func (e *Evictor) Run(ctx context.Context) error {
	if !e.running.CompareAndSwap(false, true) {
		return ErrEvictorRunning
	}
	defer e.running.Store(false)

	e.logger.InfoContext(ctx, "evictor started", slog.Int("capacity", e.cache.Capacity()))
	for {
		select {
		case <-ctx.Done():
			e.logger.InfoContext(ctx, "evictor stopped", slog.Int64("evicted", e.evicted.Load()))
			return nil
		case <-e.cache.Signals():
			e.runs.Add(1)
			victims := e.cache.shrink(e.cache.now())
			e.evicted.Add(int64(len(victims)))
		}
	}
}

// Running reports whether Run is currently active.
func (e *Evictor) Running() bool {
	return e.running.Load()
}

// EvictorStats reports evictor activity.
type EvictorStats struct {
	Runs    int64 `json:"runs"`
	Evicted int64 `json:"evicted"`
}

func (e *Evictor) Stats() EvictorStats {
	return EvictorStats{Runs: e.runs.Load(), Evicted: e.evicted.Load()}
}
