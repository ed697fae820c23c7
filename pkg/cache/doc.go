// Package cache provides the bounded, thread-safe store of computed content
// digests used by filehash, together with its value-scored eviction.
//
// Each Entry records the digest of one key along with the moment it was
// computed, the content size and how many times it has been requested. The
// cache exposes a deliberately small set of operations so that callers cannot
// bypass its locking:
//
//   - Lookup returns a copy of an entry
//   - RecordHit atomically bumps the hit counter of an entry
//   - InsertIfAbsent stores a new entry unless the key is already present
//   - EvictLowestValue removes the entry with the lowest Score
//
// # Eviction
//
// Eviction does not run on the request path. When an insert leaves the cache
// at or above its capacity, the cache raises a signal that is consumed by an
// Evictor running in its own goroutine. Signals coalesce: while a wake-up is
// pending, further inserts do not queue additional ones. Once woken, the
// evictor removes the lowest-value entries until the cache is below capacity.
//
//	c := cache.New(3, cache.WithLogger(log))
//	ev := cache.NewEvictor(c)
//	go ev.Run(ctx)
//
// The keep value of an entry is
//
//	Score = Hits * Size / age in seconds
//
// so entries that are requested often, large and young are protected, while
// rarely requested, small and stale entries go first. An entry whose age is
// zero scores +Inf.
//
// # Thread Safety
//
// All mutations are serialized through a single lock. Lookup uses the read
// side of the same lock and never observes a partially built entry.
package cache
