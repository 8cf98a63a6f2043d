package future

import (
	"time"

	"github.com/everyday-items/futures/collection/set"
)

// AsCompleted returns an iterator over fs that produces each future exactly
// once, in the order completions are observed. Duplicates in fs are
// coalesced. The iterator blocks in Next until the next completion.
//
//	it := future.AsCompleted(fs)
//	defer it.Close()
//	for it.Next() {
//	    f := it.Future()
//	    ...
//	}
//	if err := it.Err(); err != nil {
//	    ...
//	}
func AsCompleted[V any](fs []*Future[V]) *AsCompletedIter[V] {
	return newAsCompleted(fs, 0, false)
}

// AsCompletedTimeout is AsCompleted bounded by an overall deadline computed
// once on entry. When the deadline passes before every input has been
// produced, Next returns false and Err reports a TimeoutError carrying the
// unfinished count.
func AsCompletedTimeout[V any](fs []*Future[V], timeout time.Duration) *AsCompletedIter[V] {
	return newAsCompleted(fs, timeout, true)
}

// AsCompletedIter streams futures as they complete. It is not safe for
// concurrent use by multiple goroutines.
type AsCompletedIter[V any] struct {
	waiter *asCompletedWaiter[V]

	// tracked holds every input still carrying the waiter; pending the
	// subset whose completion has not been observed yet. Futures leave both
	// sets before they are handed to the consumer, so the iterator retains
	// no reference to a future the consumer already owns.
	tracked *set.Set[*Future[V]]
	pending *set.Set[*Future[V]]

	// batch holds observed completions not yet handed out, earliest first.
	batch []*Future[V]

	total       int
	deadline    time.Time
	hasDeadline bool

	cur    *Future[V]
	err    error
	closed bool
}

func newAsCompleted[V any](fs []*Future[V], timeout time.Duration, hasTimeout bool) *AsCompletedIter[V] {
	all := set.FromSlice(fs)
	ordered := sortedByID(all)

	it := &AsCompletedIter[V]{
		waiter:  newAsCompletedWaiter[V](),
		tracked: all,
		pending: set.NewWithSize[*Future[V]](all.Len()),
		total:   all.Len(),
	}
	if hasTimeout {
		it.deadline = time.Now().Add(timeout)
		it.hasDeadline = true
	}

	acquireAll(ordered)
	for _, f := range ordered {
		if f.state.observedDone() {
			// Already terminal on entry: goes straight into the first
			// batch, in id order.
			it.batch = append(it.batch, f)
		} else {
			it.pending.Add(f)
		}
		f.waiters = append(f.waiters, it.waiter)
	}
	releaseAll(ordered)

	return it
}

// Next advances to the next completed future. It returns false when every
// input has been produced, the deadline passed, or the iterator is closed;
// consult Err to distinguish exhaustion from a timeout.
func (it *AsCompletedIter[V]) Next() bool {
	if it.closed {
		return false
	}

	for {
		if len(it.batch) > 0 {
			f := it.batch[0]
			it.batch[0] = nil
			it.batch = it.batch[1:]
			// Detach before yielding: once the consumer sees f, the
			// iterator must no longer reach it.
			f.detachWaiter(it.waiter)
			it.tracked.Remove(f)
			it.pending.Remove(f)
			it.cur = f
			return true
		}

		if it.pending.IsEmpty() {
			it.Close()
			return false
		}

		if it.hasDeadline {
			remaining := time.Until(it.deadline)
			if remaining < 0 {
				it.err = &TimeoutError{Unfinished: it.pending.Len(), Total: it.total}
				it.Close()
				return false
			}
			it.waiter.signal().WaitTimeout(remaining)
		} else {
			it.waiter.signal().Wait()
		}

		it.batch = append(it.batch, it.waiter.drain()...)
	}
}

// Future returns the future produced by the last successful Next.
func (it *AsCompletedIter[V]) Future() *Future[V] {
	return it.cur
}

// Err returns the deadline error, if the iteration timed out.
func (it *AsCompletedIter[V]) Err() error {
	return it.err
}

// Close detaches the waiter from every remaining input. It is idempotent
// and runs implicitly when the iterator is exhausted or times out; callers
// abandoning iteration early must invoke it.
func (it *AsCompletedIter[V]) Close() {
	if it.closed {
		return
	}
	it.closed = true

	it.tracked.Each(func(f *Future[V]) {
		f.detachWaiter(it.waiter)
	})
	it.tracked = set.New[*Future[V]]()
	it.pending = set.New[*Future[V]]()
	it.batch = nil
	it.cur = nil
}
