package future

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/everyday-items/futures/collection/set"
)

// ReturnWhen selects the completion policy of a bulk Wait.
type ReturnWhen int

const (
	// FirstCompleted returns as soon as any future finishes or has its
	// cancellation observed by its executor.
	FirstCompleted ReturnWhen = iota
	// FirstException returns as soon as any future finishes with an error;
	// if none does, it behaves like AllCompleted.
	FirstException
	// AllCompleted returns when every future has finished or had its
	// cancellation observed by its executor.
	AllCompleted
)

// String returns the policy name.
func (rw ReturnWhen) String() string {
	switch rw {
	case FirstCompleted:
		return "FIRST_COMPLETED"
	case FirstException:
		return "FIRST_EXCEPTION"
	case AllCompleted:
		return "ALL_COMPLETED"
	default:
		return "unknown"
	}
}

// DoneAndNotDone partitions the inputs of a Wait call.
type DoneAndNotDone[V any] struct {
	// Done holds the futures that finished, or whose cancellation an
	// executor had observed, before the wait returned. A cancelled future
	// no executor has observed yet is in NotDone.
	Done *set.Set[*Future[V]]
	// NotDone holds the rest.
	NotDone *set.Set[*Future[V]]
}

// sortedByID orders futures by their stable identity. Acquiring every lock
// in this order is what keeps overlapping multi-future operations from
// deadlocking against each other.
func sortedByID[V any](fs *set.Set[*Future[V]]) []*Future[V] {
	ordered := fs.ToSlice()
	slices.SortFunc(ordered, func(a, b *Future[V]) int {
		return cmp.Compare(a.id, b.id)
	})
	return ordered
}

// acquireAll locks every future. fs must be in id order.
func acquireAll[V any](fs []*Future[V]) {
	for _, f := range fs {
		f.mu.Lock()
	}
}

// releaseAll unlocks every future locked by acquireAll.
func releaseAll[V any](fs []*Future[V]) {
	for _, f := range fs {
		f.mu.Unlock()
	}
}

// newWaiterFor builds the waiter variant for rw and sizes it. Caller holds
// every future's lock.
//
// The pending count deliberately includes futures in the plain Cancelled
// state: their executor has yet to observe the cancellation and will notify
// the waiter when it does. Counting them as done instead would leave the
// all-completed event unset forever.
func newWaiterFor[V any](ordered []*Future[V], rw ReturnWhen) waiter[V] {
	switch rw {
	case FirstCompleted:
		return newFirstCompletedWaiter[V]()
	case FirstException, AllCompleted:
		pending := 0
		for _, f := range ordered {
			if !f.state.observedDone() {
				pending++
			}
		}
		return newAllCompletedWaiter[V](pending, rw == FirstException)
	default:
		panic(fmt.Sprintf("invalid return condition: %d", rw))
	}
}

// Wait blocks until the futures in fs satisfy the rw policy and returns the
// done / not-done partition. Duplicates in fs are coalesced.
func Wait[V any](fs []*Future[V], rw ReturnWhen) DoneAndNotDone[V] {
	return doWait(fs, -1, rw)
}

// WaitTimeout is Wait bounded by a deadline. On expiry it returns whatever
// partition holds at that moment. A zero timeout samples without blocking.
func WaitTimeout[V any](fs []*Future[V], timeout time.Duration, rw ReturnWhen) DoneAndNotDone[V] {
	if timeout < 0 {
		timeout = 0
	}
	return doWait(fs, timeout, rw)
}

func doWait[V any](fs []*Future[V], timeout time.Duration, rw ReturnWhen) DoneAndNotDone[V] {
	all := set.FromSlice(fs)
	ordered := sortedByID(all)

	acquireAll(ordered)

	done := set.NewWithSize[*Future[V]](len(ordered))
	for _, f := range ordered {
		if f.state.observedDone() {
			done.Add(f)
		}
	}

	// Early returns, decided while every lock is held.
	if rw == FirstCompleted && !done.IsEmpty() {
		defer releaseAll(ordered)
		return DoneAndNotDone[V]{Done: done, NotDone: all.Difference(done)}
	}
	if rw == FirstException && !done.IsEmpty() {
		failed := false
		done.Each(func(f *Future[V]) {
			if f.state == Finished && f.err != nil {
				failed = true
			}
		})
		if failed {
			defer releaseAll(ordered)
			return DoneAndNotDone[V]{Done: done, NotDone: all.Difference(done)}
		}
	}
	if done.Len() == all.Len() {
		defer releaseAll(ordered)
		return DoneAndNotDone[V]{Done: done, NotDone: all.Difference(done)}
	}

	w := newWaiterFor(ordered, rw)
	for _, f := range ordered {
		f.waiters = append(f.waiters, w)
	}
	releaseAll(ordered)

	if timeout < 0 {
		w.signal().Wait()
	} else {
		w.signal().WaitTimeout(timeout)
	}

	// The waiter is removed on every path, timed out or not.
	for _, f := range ordered {
		f.detachWaiter(w)
	}

	for _, f := range w.collect() {
		done.Add(f)
	}
	return DoneAndNotDone[V]{Done: done, NotDone: all.Difference(done)}
}
