package cache

import (
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dmitrymomot/filehash/pkg/logger"
)

// Cache is a thread-safe map of content digests with a fixed capacity.
// Reaching the capacity signals the evictor rather than evicting inline.
type Cache struct {
	mu       sync.RWMutex
	entries  map[string]*Entry
	capacity int
	signal   chan struct{}
	now      func() time.Time
	onEvict  func(Entry)
	logger   *slog.Logger
}

// New creates an empty cache holding up to capacity entries.
// The capacity must be positive, otherwise it panics.
func New(capacity int, opts ...Option) *Cache {
	if capacity <= 0 {
		panic("cache capacity must be positive")
	}
	c := &Cache{
		entries:  make(map[string]*Entry, capacity),
		capacity: capacity,
		signal:   make(chan struct{}, 1),
		now:      time.Now,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Lookup returns a copy of the entry stored under key.
// A caller serving a hit is expected to follow up with RecordHit.
func (c *Cache) Lookup(key string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if e, ok := c.entries[key]; ok {
		return *e, true
	}
	return Entry{}, false
}

// RecordHit increments the hit counter of key and returns the new count.
// Returns ErrNotFound if the entry was evicted after the caller's Lookup.
func (c *Cache) RecordHit(key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return 0, ErrNotFound
	}
	e.Hits++
	return e.Hits, nil
}

// InsertIfAbsent stores a new entry for key with a hit count of one.
// It returns false without touching the cache when key is already present,
// which happens when two misses for the same key race each other.
// An insert that leaves the cache at or above capacity wakes the evictor.
func (c *Cache) InsertIfAbsent(key, hash string, size int64, now time.Time) bool {
	c.mu.Lock()
	if _, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return false
	}
	c.entries[key] = &Entry{
		Key:       key,
		Hash:      hash,
		CreatedAt: now,
		Size:      size,
		Hits:      1,
	}
	full := len(c.entries) >= c.capacity
	c.mu.Unlock()

	if full {
		c.notify()
	}
	return true
}

// EvictLowestValue removes the entry with the lowest Score at now and
// returns it. Reports false when the cache is empty.
func (c *Cache) EvictLowestValue(now time.Time) (Entry, bool) {
	c.mu.Lock()
	victim, ok := c.evictLocked(now)
	c.mu.Unlock()

	if ok {
		c.evicted(victim)
	}
	return victim, ok
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Capacity returns the configured capacity.
func (c *Cache) Capacity() int {
	return c.capacity
}

// Now returns the current time from the cache clock.
func (c *Cache) Now() time.Time {
	return c.now()
}

// Snapshot returns copies of all entries ordered by key.
func (c *Cache) Snapshot() []Entry {
	c.mu.RLock()
	out := make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, *e)
	}
	c.mu.RUnlock()

	slices.SortFunc(out, func(a, b Entry) int { return strings.Compare(a.Key, b.Key) })
	return out
}

// Signals exposes the channel raised when an insert fills the cache.
// It is consumed by the Evictor.
func (c *Cache) Signals() <-chan struct{} {
	return c.signal
}

// shrink evicts lowest-value entries until the cache is below capacity.
// The whole pass runs under one lock acquisition.
func (c *Cache) shrink(now time.Time) []Entry {
	c.mu.Lock()
	var victims []Entry
	for len(c.entries) >= c.capacity {
		victim, ok := c.evictLocked(now)
		if !ok {
			break
		}
		victims = append(victims, victim)
	}
	c.mu.Unlock()

	for _, v := range victims {
		c.evicted(v)
	}
	return victims
}

// Must be called with lock held.
// Ties go to the first minimum met during map iteration.
func (c *Cache) evictLocked(now time.Time) (Entry, bool) {
	var (
		victim *Entry
		lowest float64
	)
	for _, e := range c.entries {
		s := Score(*e, now)
		if victim == nil || s < lowest {
			victim, lowest = e, s
		}
	}
	if victim == nil {
		return Entry{}, false
	}
	delete(c.entries, victim.Key)
	return *victim, true
}

func (c *Cache) evicted(e Entry) {
	c.logger.Info("removed lowest value entry",
		logger.Key(e.Key),
		logger.Hits(e.Hits),
		logger.Size(e.Size),
	)
	if c.onEvict != nil {
		c.onEvict(e)
	}
}

// notify never blocks: a pending wake-up already covers this insert.
func (c *Cache) notify() {
	select {
	case c.signal <- struct{}{}:
	default:
	}
}
