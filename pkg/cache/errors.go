package cache

import "errors"

var (
	// ErrNotFound is returned when an operation targets a key that is not cached.
	ErrNotFound = errors.New("cache: key not found")

	// ErrEvictorRunning is returned when Run is called on an evictor that is already running.
	ErrEvictorRunning = errors.New("cache: evictor already running")
)
