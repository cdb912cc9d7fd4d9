// Package async provides simple, generic helpers for running computations asynchronously and
// waiting for their completion.
//
// The package is centred around the generic type Future that represents the eventual result of an
// asynchronous operation.  A Future can be obtained by calling Async, which starts the supplied
// function in its own goroutine and immediately returns a *Future instance.  The caller can then
// wait for completion with Await, block with a timeout using AwaitWithTimeout, or poll the state
// with IsComplete.
//
// For coordinating multiple concurrent tasks, WaitAll collects every result and stops at the first
// error, while WaitAllSettled always drains every future and reports per-future errors — the shape
// needed for fan-out work where one recipient's failure must not mask the others.
//
// All helpers are context-aware: if the provided context is cancelled before the computation
// starts, the underlying goroutine aborts early and the Future is completed with the context
// error.
//
// # Usage
//
//	ctx := context.Background()
//	future := async.Async(ctx, 42, func(_ context.Context, v int) (string, error) {
//	    time.Sleep(100 * time.Millisecond)
//	    return fmt.Sprintf("value is %d", v), nil
//	})
//
//	// do other work …
//	res, err := future.Await()
//
// Futures are lightweight wrappers around goroutines and channels.  The overhead is minimal but you
// should avoid spawning an excessive number of goroutines if the workload could be better handled
// by a worker pool or other means of limiting concurrency.
package async
