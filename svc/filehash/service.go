package filehash

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dmitrymomot/filehash/pkg/async"
	"github.com/dmitrymomot/filehash/pkg/cache"
	"github.com/dmitrymomot/filehash/pkg/file"
	"github.com/dmitrymomot/filehash/pkg/hasher"
	"github.com/dmitrymomot/filehash/pkg/logger"
	"github.com/dmitrymomot/filehash/pkg/workerpool"
)

// Service resolves file keys to their digests. It is safe for concurrent use.
type Service struct {
	cache   *cache.Cache
	pool    *workerpool.Pool
	storage file.Storage
	evictor *cache.Evictor
	logger  *slog.Logger
}

// New wires a Service over its collaborators. It panics on nil dependencies.
func New(c *cache.Cache, p *workerpool.Pool, s file.Storage, opts ...Option) *Service {
	if c == nil || p == nil || s == nil {
		panic("filehash: cache, pool and storage are required")
	}
	svc := &Service{
		cache:   c,
		pool:    p,
		storage: s,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Hash returns the digest of the file named key. The whole pipeline runs
// inside a worker pool slot.
func (s *Service) Hash(ctx context.Context, key string) (Result, error) {
	var res Result
	err := s.pool.Do(ctx, func(ctx context.Context) error {
		var err error
		res, err = s.process(ctx, key)
		return err
	})
	if err == nil {
		return res, nil
	}

	var he HTTPError
	if errors.As(err, &he) {
		return Result{}, err
	}
	if errors.Is(err, workerpool.ErrAdmissionTimeout) {
		return Result{}, errors.Join(ErrAdmissionTimeout, err)
	}
	return Result{}, errors.Join(ErrInternal, err)
}

func (s *Service) process(ctx context.Context, key string) (Result, error) {
	if err := ValidateKey(key); err != nil {
		return Result{}, err
	}

	if entry, ok := s.cache.Lookup(key); ok {
		hits, err := s.cache.RecordHit(key)
		if err == nil {
			s.logger.DebugContext(ctx, "cache hit", logger.Key(key), logger.Hits(hits))
			return Result{Key: key, Hash: entry.Hash, Cached: true, Hits: hits}, nil
		}
		// Evicted between lookup and hit: recompute.
		s.logger.DebugContext(ctx, "entry evicted during hit", logger.Key(key))
	}

	start := time.Now()

	data, err := s.storage.Read(ctx, key)
	if err != nil {
		return Result{}, storageError(err)
	}

	hash, size, err := compute(ctx, data)
	if err != nil {
		return Result{}, errors.Join(ErrInternal, err)
	}

	if !s.cache.InsertIfAbsent(key, hash, size, s.cache.Now()) {
		s.logger.DebugContext(ctx, "concurrent insert won", logger.Key(key))
	}

	s.logger.InfoContext(ctx, "hash computed",
		logger.Key(key),
		logger.Hash(hash),
		logger.Size(size),
		logger.Duration(time.Since(start)),
	)
	return Result{Key: key, Hash: hash, Hits: 1}, nil
}

// compute derives the digest and the size of data concurrently.
func compute(ctx context.Context, data []byte) (string, int64, error) {
	hashF := async.Go(ctx, func(context.Context) (string, error) {
		return hasher.Digest(data), nil
	})
	sizeF := async.Go(ctx, func(context.Context) (int64, error) {
		return int64(len(data)), nil
	})
	return async.Join2(hashF, sizeF)
}

func storageError(err error) error {
	switch {
	case errors.Is(err, file.ErrFileNotFound), errors.Is(err, file.ErrIsDirectory):
		return errors.Join(ErrNotFound, err)
	case errors.Is(err, file.ErrInvalidPath):
		return errors.Join(ErrInvalidQuery, err)
	default:
		return errors.Join(ErrInternal, err)
	}
}

// Ready reports whether the storage backend is reachable.
func (s *Service) Ready(ctx context.Context) error {
	return s.storage.Ping(ctx)
}

// Stats is a point-in-time view of the service internals.
type Stats struct {
	Cache   CacheStats          `json:"cache"`
	Pool    workerpool.Stats    `json:"pool"`
	Evictor *cache.EvictorStats `json:"evictor,omitempty"`
}

// CacheStats describes the cache contents.
type CacheStats struct {
	Capacity int           `json:"capacity"`
	Len      int           `json:"len"`
	Entries  []cache.Entry `json:"entries"`
}

func (s *Service) Stats() Stats {
	entries := s.cache.Snapshot()
	st := Stats{
		Cache: CacheStats{
			Capacity: s.cache.Capacity(),
			Len:      len(entries),
			Entries:  entries,
		},
		Pool: s.pool.Stats(),
	}
	if s.evictor != nil {
		es := s.evictor.Stats()
		st.Evictor = &es
	}
	return st
}
