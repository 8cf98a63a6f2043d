// Package future provides a handle to a single asynchronous computation and
// the coordination primitives for observing many of them at once.
//
// A Future is created by an executor (or directly in tests) and driven
// through a small state machine: Pending -> Running -> Finished, with a
// cancellation branch Pending -> Cancelled -> CancelledAndNotified. The
// executor side of the contract is Start, SetResult, and SetError; the
// consumer side is Cancel, Result, Err, and OnDone.
//
// Future pattern:
//
//	f := future.New[int]()
//	go func() {
//	    if f.Start() {
//	        f.SetResult(compute())
//	    }
//	}()
//	v, err := f.ResultWithTimeout(time.Second)
//
// Coordinating several futures:
//
//	r := future.Wait(fs, future.AllCompleted)
//	// r.Done, r.NotDone
//
//	it := future.AsCompleted(fs)
//	defer it.Close()
//	for it.Next() {
//	    v, err := it.Future().Result()
//	    ...
//	}
package future
