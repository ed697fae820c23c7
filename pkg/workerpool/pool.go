package workerpool

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/dmitrymomot/filehash/pkg/logger"
)

// Pool is a fixed-size admission gate. It is safe for concurrent use.
type Pool struct {
	sem              *semaphore.Weighted
	capacity         int
	admissionTimeout time.Duration
	logger           *slog.Logger

	inFlight atomic.Int64
	admitted atomic.Int64
	rejected atomic.Int64
}

// New creates a pool admitting at most maxConcurrent units of work at once.
// Values below one are raised to one.
func New(maxConcurrent int, opts ...Option) *Pool {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	p := &Pool{
		sem:      semaphore.NewWeighted(int64(maxConcurrent)),
		capacity: maxConcurrent,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Acquire blocks until a slot is free. It fails with ErrAdmissionTimeout when
// the admission timeout expires first, or with the context error when ctx is
// done. A successful Acquire must be paired with exactly one Release.
func (p *Pool) Acquire(ctx context.Context) error {
	waitCtx := ctx
	if p.admissionTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, p.admissionTimeout)
		defer cancel()
	}

	if err := p.sem.Acquire(waitCtx, 1); err != nil {
		p.rejected.Add(1)
		// The caller's own cancellation wins over our deadline.
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if errors.Is(err, context.DeadlineExceeded) {
			p.logger.WarnContext(ctx, "admission timed out",
				logger.Duration(p.admissionTimeout),
				slog.Int("capacity", p.capacity),
			)
			return ErrAdmissionTimeout
		}
		return err
	}

	p.admitted.Add(1)
	p.inFlight.Add(1)
	return nil
}

// TryAcquire takes a slot only if one is free right now.
func (p *Pool) TryAcquire() bool {
	if !p.sem.TryAcquire(1) {
		return false
	}
	p.admitted.Add(1)
	p.inFlight.Add(1)
	return true
}

// Release returns a slot. Releasing more slots than were acquired panics.
func (p *Pool) Release() {
	p.inFlight.Add(-1)
	p.sem.Release(1)
}

// Do runs fn while holding a slot. The slot is released on every return path
// of fn, including a panic.
func (p *Pool) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := p.Acquire(ctx); err != nil {
		return err
	}
	defer p.Release()
	return fn(ctx)
}

// Capacity returns the maximum number of concurrent slots.
func (p *Pool) Capacity() int {
	return p.capacity
}

// Stats is a point-in-time view of pool usage.
type Stats struct {
	Capacity  int   `json:"capacity"`
	InFlight  int64 `json:"in_flight"`
	Available int64 `json:"available"`
	Admitted  int64 `json:"admitted"`
	Rejected  int64 `json:"rejected"`
}

func (p *Pool) Stats() Stats {
	inFlight := p.inFlight.Load()
	return Stats{
		Capacity:  p.capacity,
		InFlight:  inFlight,
		Available: max(int64(p.capacity)-inFlight, 0),
		Admitted:  p.admitted.Load(),
		Rejected:  p.rejected.Load(),
	}
}
