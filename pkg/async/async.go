package async

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Future represents the result of an asynchronous computation.
type Future[U any] struct {
	result U
	err    error
	done   chan struct{}
}

// Go runs fn in its own goroutine and returns a Future for its result.
func Go[U any](ctx context.Context, fn func(context.Context) (U, error)) *Future[U] {
	f := &Future[U]{done: make(chan struct{})}

	go func() {
		defer close(f.done)
		defer func() {
			if r := recover(); r != nil {
				var zero U
				f.result = zero
				f.err = fmt.Errorf("%w: %v", ErrPanic, r)
			}
		}()

		// Skip the work entirely when the caller already gave up.
		if err := ctx.Err(); err != nil {
			f.err = err
			return
		}

		f.result, f.err = fn(ctx)
	}()

	return f
}

// Async is Go with an explicit parameter passed to fn.
func Async[T any, U any](ctx context.Context, param T, fn func(context.Context, T) (U, error)) *Future[U] {
	return Go(ctx, func(ctx context.Context) (U, error) {
		return fn(ctx, param)
	})
}

// Await blocks until the computation completes and returns its result.
func (f *Future[U]) Await() (U, error) {
	<-f.done
	return f.result, f.err
}

// AwaitContext is Await that gives up when ctx is done. The computation
// itself keeps running; only the wait is abandoned.
func (f *Future[U]) AwaitContext(ctx context.Context) (U, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		var zero U
		return zero, ctx.Err()
	}
}

// AwaitWithTimeout is Await bounded by timeout, returning ErrTimeout when it expires.
func (f *Future[U]) AwaitWithTimeout(timeout time.Duration) (U, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-f.done:
		return f.result, f.err
	case <-timer.C:
		var zero U
		return zero, ErrTimeout
	}
}

// IsComplete reports whether the computation has finished, without blocking.
func (f *Future[U]) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// WaitAll waits for every future and returns their results in order.
// All futures are joined even when some fail; the errors are joined together.
func WaitAll[U any](futures ...*Future[U]) ([]U, error) {
	results := make([]U, len(futures))
	var errs []error

	for i, future := range futures {
		result, err := future.Await()
		results[i] = result
		if err != nil {
			errs = append(errs, err)
		}
	}

	return results, errors.Join(errs...)
}

// Join2 waits for two futures of possibly different types.
// Both are always awaited, so neither goroutine outlives the call.
func Join2[A any, B any](fa *Future[A], fb *Future[B]) (A, B, error) {
	a, errA := fa.Await()
	b, errB := fb.Await()
	return a, b, errors.Join(errA, errB)
}
