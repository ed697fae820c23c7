// Package workerpool provides a counting admission gate that bounds how many
// units of work execute at the same time.
//
// A Pool holds a fixed number of slots. Acquire blocks until a slot is free
// and Release hands it back. Do wraps both around a function so that every
// exit path, including panics, returns the slot:
//
//	pool := workerpool.New(10)
//	err := pool.Do(ctx, func(ctx context.Context) error {
//		return handle(ctx)
//	})
//
// By default admission waits indefinitely (or until ctx is done). With
// WithAdmissionTimeout, a caller that cannot get a slot in time receives
// ErrAdmissionTimeout instead.
package workerpool
