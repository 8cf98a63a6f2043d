package executor

import (
	"time"

	"github.com/everyday-items/futures/future"
)

type mapConfig struct {
	timeout    time.Duration
	hasTimeout bool
	chunkSize  int
}

// MapOption configures Map.
type MapOption func(*mapConfig)

// WithTimeout bounds the whole iteration by a deadline computed when Map
// returns. Each step gets whatever time remains.
func WithTimeout(d time.Duration) MapOption {
	return func(c *mapConfig) {
		c.timeout = d
		c.hasTimeout = true
	}
}

// WithChunkSize is advisory: Map accepts it and ignores it, submitting every
// input as its own task on any executor.
func WithChunkSize(n int) MapOption {
	return func(c *mapConfig) {
		if n > 0 {
			c.chunkSize = n
		}
	}
}

// Map submits fn once per input, eagerly, and returns an iterator over the
// results in submission order. If any submission fails, the futures already
// submitted are cancelled and the error is returned.
func Map[T, V any](ex Executor, fn func(T) (V, error), inputs []T, opts ...MapOption) (*Results[V], error) {
	if fn == nil {
		return nil, ErrNilTask
	}

	cfg := mapConfig{chunkSize: 1}
	for _, opt := range opts {
		opt(&cfg)
	}

	// Every future is submitted before the first result is consumed.
	fs := make([]*future.Future[V], 0, len(inputs))
	for _, in := range inputs {
		f, err := Submit(ex, func() (V, error) { return fn(in) })
		if err != nil {
			for _, submitted := range fs {
				submitted.Cancel()
			}
			return nil, err
		}
		fs = append(fs, f)
	}

	r := &Results[V]{fs: fs}
	if cfg.hasTimeout {
		r.deadline = time.Now().Add(cfg.timeout)
		r.hasDeadline = true
	}
	return r, nil
}

// Results iterates the outcomes of a Map call in submission order. It is
// not safe for concurrent use.
//
//	r, err := executor.Map(ex, fn, inputs)
//	if err != nil { ... }
//	defer r.Close()
//	for r.Next() {
//	    use(r.Value())
//	}
//	if err := r.Err(); err != nil { ... }
type Results[V any] struct {
	fs  []*future.Future[V]
	idx int

	deadline    time.Time
	hasDeadline bool

	cur    V
	err    error
	closed bool
}

// Next blocks for the next result. It returns false when the results are
// exhausted or an error occurred; Err distinguishes the two. Any error
// (timeout, cancellation, or the first failing computation) stops the
// iteration and cancels the not-yet-consumed futures.
func (r *Results[V]) Next() bool {
	if r.closed || r.err != nil {
		return false
	}
	if r.idx >= len(r.fs) {
		r.Close()
		return false
	}

	f := r.fs[r.idx]
	// Drop the reference before blocking so a consumed future is never
	// reachable through the iterator.
	r.fs[r.idx] = nil
	r.idx++

	var v V
	var err error
	if r.hasDeadline {
		v, err = f.ResultWithTimeout(time.Until(r.deadline))
	} else {
		v, err = f.Result()
	}
	if err != nil {
		r.err = err
		f.Cancel()
		r.Close()
		return false
	}

	r.cur = v
	return true
}

// Value returns the result produced by the last successful Next.
func (r *Results[V]) Value() V {
	return r.cur
}

// Err returns the error that stopped the iteration, if any.
func (r *Results[V]) Err() error {
	return r.err
}

// Close cancels every not-yet-consumed future. It is idempotent and runs
// implicitly on exhaustion and on error; consumers abandoning the iterator
// early must call it.
func (r *Results[V]) Close() {
	if r.closed {
		return
	}
	r.closed = true

	for i := r.idx; i < len(r.fs); i++ {
		if r.fs[i] != nil {
			r.fs[i].Cancel()
			r.fs[i] = nil
		}
	}
}
