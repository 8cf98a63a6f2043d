package future

import (
	"sync"
	"time"
)

// event is a manual-reset binary signal. Waiters set it; one consumer
// blocks on it and may clear it between drains.
type event struct {
	mu  sync.Mutex
	ch  chan struct{}
	set bool
}

func newEvent() *event {
	return &event{ch: make(chan struct{})}
}

// Set signals the event. Idempotent until Clear.
func (e *event) Set() {
	e.mu.Lock()
	if !e.set {
		e.set = true
		close(e.ch)
	}
	e.mu.Unlock()
}

// Clear resets the event to unsignalled.
func (e *event) Clear() {
	e.mu.Lock()
	if e.set {
		e.set = false
		e.ch = make(chan struct{})
	}
	e.mu.Unlock()
}

func (e *event) waitChan() <-chan struct{} {
	e.mu.Lock()
	ch := e.ch
	e.mu.Unlock()
	return ch
}

// Wait blocks until the event is set.
func (e *event) Wait() {
	<-e.waitChan()
}

// WaitTimeout blocks up to timeout and reports whether the event was set.
// A non-positive timeout polls without blocking.
func (e *event) WaitTimeout(timeout time.Duration) bool {
	ch := e.waitChan()
	if timeout <= 0 {
		select {
		case <-ch:
			return true
		default:
			return false
		}
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-ch:
		return true
	case <-timer.C:
		return false
	}
}

// waiter is the notification surface a completing future pushes to. All
// three entry points record the future; the variants differ in when the
// event fires. They are invoked while the future's lock is held, so the
// internal lock order is always future -> waiter, never the reverse.
type waiter[V any] interface {
	addResult(f *Future[V])
	addException(f *Future[V])
	addCancelled(f *Future[V])

	// signal is the event a consumer blocks on.
	signal() *event
	// collect snapshots the futures recorded so far.
	collect() []*Future[V]
}

// waiterBase carries the event and the finished list shared by every
// variant. The original guards the list with the interpreter lock; here
// each variant's mutations go through mu.
type waiterBase[V any] struct {
	mu       sync.Mutex
	event    *event
	finished []*Future[V]
}

func (w *waiterBase[V]) signal() *event {
	return w.event
}

func (w *waiterBase[V]) collect() []*Future[V] {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]*Future[V], len(w.finished))
	copy(out, w.finished)
	return out
}

// asCompletedWaiter feeds the AsCompleted iterator: every notification
// appends and sets the event under the same mutex the drain swaps under,
// so a completion arriving between a drain and the clear is never lost.
type asCompletedWaiter[V any] struct {
	waiterBase[V]
}

func newAsCompletedWaiter[V any]() *asCompletedWaiter[V] {
	return &asCompletedWaiter[V]{waiterBase[V]{event: newEvent()}}
}

func (w *asCompletedWaiter[V]) add(f *Future[V]) {
	w.mu.Lock()
	w.finished = append(w.finished, f)
	w.event.Set()
	w.mu.Unlock()
}

func (w *asCompletedWaiter[V]) addResult(f *Future[V])    { w.add(f) }
func (w *asCompletedWaiter[V]) addException(f *Future[V]) { w.add(f) }
func (w *asCompletedWaiter[V]) addCancelled(f *Future[V]) { w.add(f) }

// drain swaps out the finished list and clears the event in one critical
// section, returning the batch in notification order.
func (w *asCompletedWaiter[V]) drain() []*Future[V] {
	w.mu.Lock()
	batch := w.finished
	w.finished = nil
	w.event.Clear()
	w.mu.Unlock()
	return batch
}

// firstCompletedWaiter fires on the first notification; the event stays
// set and the consumer reads once.
type firstCompletedWaiter[V any] struct {
	waiterBase[V]
}

func newFirstCompletedWaiter[V any]() *firstCompletedWaiter[V] {
	return &firstCompletedWaiter[V]{waiterBase[V]{event: newEvent()}}
}

func (w *firstCompletedWaiter[V]) add(f *Future[V]) {
	w.mu.Lock()
	w.finished = append(w.finished, f)
	w.mu.Unlock()
	w.event.Set()
}

func (w *firstCompletedWaiter[V]) addResult(f *Future[V])    { w.add(f) }
func (w *firstCompletedWaiter[V]) addException(f *Future[V]) { w.add(f) }
func (w *firstCompletedWaiter[V]) addCancelled(f *Future[V]) { w.add(f) }

// allCompletedWaiter fires when the pending count reaches zero, or, when
// stopOnErr is set, on the first exception.
type allCompletedWaiter[V any] struct {
	waiterBase[V]
	pending   int
	stopOnErr bool
}

func newAllCompletedWaiter[V any](pending int, stopOnErr bool) *allCompletedWaiter[V] {
	w := &allCompletedWaiter[V]{
		waiterBase: waiterBase[V]{event: newEvent()},
		pending:    pending,
		stopOnErr:  stopOnErr,
	}
	if pending == 0 {
		w.event.Set()
	}
	return w
}

func (w *allCompletedWaiter[V]) decrement(f *Future[V]) {
	w.mu.Lock()
	w.finished = append(w.finished, f)
	w.pending--
	if w.pending == 0 {
		w.event.Set()
	}
	w.mu.Unlock()
}

func (w *allCompletedWaiter[V]) addResult(f *Future[V]) {
	w.decrement(f)
}

func (w *allCompletedWaiter[V]) addException(f *Future[V]) {
	if w.stopOnErr {
		w.mu.Lock()
		w.finished = append(w.finished, f)
		w.event.Set()
		w.mu.Unlock()
		return
	}
	w.decrement(f)
}

func (w *allCompletedWaiter[V]) addCancelled(f *Future[V]) {
	w.decrement(f)
}
