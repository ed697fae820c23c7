// Package async provides small generic helpers for running computations
// concurrently and joining their results.
//
// A Future is the eventual result of a function started with Go or Async.
// The caller joins it with Await, or with AwaitContext to stop waiting when a
// context ends. WaitAll joins a set of futures of the same type; Join2 joins
// two futures of different types, which is the common "compute two
// independent things, then continue" shape:
//
//	hash := async.Go(ctx, func(ctx context.Context) (string, error) { return digest(data), nil })
//	size := async.Go(ctx, func(ctx context.Context) (int64, error) { return int64(len(data)), nil })
//	h, n, err := async.Join2(hash, size)
//
// A panic inside the function does not crash the process: it completes the
// future with an error wrapping ErrPanic.
//
// If the context is already done when the goroutine starts, the function is
// not called and the future completes with the context error.
package async
