package executor

import (
	"errors"
	"fmt"

	"github.com/everyday-items/futures/future"
	"github.com/everyday-items/futures/logger"
)

var (
	// ErrNotImplemented is returned by Base.Schedule; concrete executors
	// override it.
	ErrNotImplemented = errors.New("executor: schedule not implemented")

	// ErrShutdown rejects submissions after Shutdown.
	ErrShutdown = errors.New("executor: shut down")

	// ErrNilTask rejects a nil task or function.
	ErrNilTask = errors.New("executor: nil task")
)

// log is the executor logging channel.
var log = logger.Named("executor")

// Task is a unit of work scheduled on an executor.
type Task func()

// Executor schedules tasks for asynchronous execution and drives the
// futures created by Submit.
type Executor interface {
	// Schedule enqueues task for execution by a worker. It returns an
	// error when the task cannot be accepted (for example after Shutdown).
	Schedule(task Task) error

	// Shutdown releases the executor's resources. It may be called any
	// number of times; after the first call no further submissions are
	// accepted. When wait is true it blocks until every accepted task has
	// finished.
	Shutdown(wait bool) error
}

// Base is a zero Executor suitable for embedding by implementations that
// only override part of the surface.
type Base struct{}

// Schedule implements Executor by rejecting every task.
func (Base) Schedule(Task) error { return ErrNotImplemented }

// Shutdown implements Executor as a no-op.
func (Base) Shutdown(bool) error { return nil }

// cancelObserver is implemented by executors that count starts refused by
// a cancelled future.
type cancelObserver interface {
	observeCancelled()
}

// Submit schedules fn on ex and returns the future that will carry its
// outcome. The worker follows the executor handshake: it calls Start and
// abandons the work on a cancelled future, otherwise it stores exactly one
// of the result or the error. A panic in fn is captured as the future's
// error.
func Submit[V any](ex Executor, fn func() (V, error)) (*future.Future[V], error) {
	if fn == nil {
		return nil, ErrNilTask
	}

	f := future.New[V]()
	task := func() {
		if !f.Start() {
			if o, ok := ex.(cancelObserver); ok {
				o.observeCancelled()
			}
			return
		}
		finish(f, fn)
	}
	if err := ex.Schedule(task); err != nil {
		return nil, err
	}
	return f, nil
}

// Run executes fn against f following the executor-to-future protocol. It
// is exported for executor implementations that schedule work themselves.
func Run[V any](f *future.Future[V], fn func() (V, error)) {
	if !f.Start() {
		return
	}
	finish(f, fn)
}

// finish stores fn's outcome into a running future.
func finish[V any](f *future.Future[V], fn func() (V, error)) {
	v, err := call(fn)
	if err != nil {
		f.SetError(err)
		return
	}
	f.SetResult(v)
}

// call invokes fn, converting a panic into an error.
func call[V any](fn func() (V, error)) (v V, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panic: %v", r)
		}
	}()
	return fn()
}

// With runs fn against ex and shuts the executor down on the way out,
// waiting for in-flight work. An error from fn is never masked by the
// shutdown; a shutdown error surfaces only when fn succeeded.
func With(ex Executor, fn func(Executor) error) (err error) {
	defer func() {
		serr := ex.Shutdown(true)
		if err == nil {
			err = serr
		}
	}()
	return fn(ex)
}
