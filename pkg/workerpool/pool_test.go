package workerpool_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/filehash/pkg/workerpool"
)

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 4, workerpool.New(4).Capacity())
	assert.Equal(t, 1, workerpool.New(0).Capacity())
	assert.Equal(t, 1, workerpool.New(-3).Capacity())
}

func TestPool_AcquireRelease(t *testing.T) {
	t.Parallel()
	pool := workerpool.New(2)
	ctx := context.Background()

	require.NoError(t, pool.Acquire(ctx))
	require.NoError(t, pool.Acquire(ctx))
	assert.False(t, pool.TryAcquire(), "pool should be saturated")

	stats := pool.Stats()
	assert.Equal(t, int64(2), stats.InFlight)
	assert.Equal(t, int64(0), stats.Available)

	pool.Release()
	assert.True(t, pool.TryAcquire())

	pool.Release()
	pool.Release()
	stats = pool.Stats()
	assert.Equal(t, int64(0), stats.InFlight)
	assert.Equal(t, int64(2), stats.Available)
	assert.Equal(t, int64(3), stats.Admitted)
}

func TestPool_AcquireBlocksUntilRelease(t *testing.T) {
	t.Parallel()
	pool := workerpool.New(1)
	ctx := context.Background()
	require.NoError(t, pool.Acquire(ctx))

	acquired := make(chan struct{})
	go func() {
		if err := pool.Acquire(ctx); err == nil {
			close(acquired)
		}
	}()

	select {
	case <-acquired:
		t.Fatal("acquire should block while the pool is saturated")
	case <-time.After(50 * time.Millisecond):
	}

	pool.Release()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("acquire did not proceed after release")
	}
	pool.Release()
}

func TestPool_AdmissionTimeout(t *testing.T) {
	t.Parallel()
	pool := workerpool.New(1, workerpool.WithAdmissionTimeout(20*time.Millisecond))
	ctx := context.Background()
	require.NoError(t, pool.Acquire(ctx))
	defer pool.Release()

	start := time.Now()
	err := pool.Acquire(ctx)
	assert.ErrorIs(t, err, workerpool.ErrAdmissionTimeout)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	assert.Equal(t, int64(1), pool.Stats().Rejected)
}

func TestPool_AcquireContextCancelled(t *testing.T) {
	t.Parallel()
	pool := workerpool.New(1, workerpool.WithAdmissionTimeout(time.Minute))
	require.NoError(t, pool.Acquire(context.Background()))
	defer pool.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := pool.Acquire(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotErrorIs(t, err, workerpool.ErrAdmissionTimeout)
}

func TestPool_DoReleasesOnEveryPath(t *testing.T) {
	t.Parallel()
	pool := workerpool.New(1)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		err := pool.Do(ctx, func(context.Context) error { return nil })
		require.NoError(t, err)
		assert.Equal(t, int64(1), pool.Stats().Available)
	})

	t.Run("error", func(t *testing.T) {
		want := errors.New("failed")
		err := pool.Do(ctx, func(context.Context) error { return want })
		assert.ErrorIs(t, err, want)
		assert.Equal(t, int64(1), pool.Stats().Available)
	})

	t.Run("panic", func(t *testing.T) {
		assert.Panics(t, func() {
			_ = pool.Do(ctx, func(context.Context) error { panic("boom") })
		})
		assert.Equal(t, int64(1), pool.Stats().Available)
		assert.True(t, pool.TryAcquire())
		pool.Release()
	})
}

func TestPool_NeverExceedsCapacity(t *testing.T) {
	t.Parallel()
	const (
		capacity = 4
		jobs     = 40
	)
	pool := workerpool.New(capacity)
	ctx := context.Background()

	var (
		current atomic.Int64
		peak    atomic.Int64
		wg      sync.WaitGroup
	)
	wg.Add(jobs)
	for range jobs {
		go func() {
			defer wg.Done()
			err := pool.Do(ctx, func(context.Context) error {
				n := current.Add(1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				current.Add(-1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, peak.Load(), int64(capacity))
	assert.Equal(t, int64(capacity), peak.Load(), "pool should be fully used under load")
	assert.Equal(t, int64(jobs), pool.Stats().Admitted)
	assert.Equal(t, int64(0), pool.Stats().InFlight)
}

func TestPool_ReleaseWithoutAcquirePanics(t *testing.T) {
	t.Parallel()
	pool := workerpool.New(1)
	assert.Panics(t, pool.Release)
}
