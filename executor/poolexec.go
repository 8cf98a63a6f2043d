package executor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/everyday-items/futures/future"
	"github.com/everyday-items/futures/logger"
	"github.com/everyday-items/futures/observe"
)

// Executor metric names. All carry an "executor" label with the instance
// name.
const (
	MetricTasksSubmitted = "futures_executor_tasks_submitted_total"
	MetricTasksCompleted = "futures_executor_tasks_completed_total"
	MetricTasksCancelled = "futures_executor_tasks_cancelled_total"
	MetricTasksRejected  = "futures_executor_tasks_rejected_total"
	MetricTasksInflight  = "futures_executor_tasks_inflight"
	MetricTaskDuration   = "futures_executor_task_duration_seconds"
)

// Config holds pool executor configuration.
type Config struct {
	Pool    Pool            // Backing goroutine pool
	Limit   int64           // Maximum in-flight tasks (0 = unlimited)
	Metrics observe.Metrics // Metrics sink
}

// Option is a configuration option function.
type Option func(*Config)

// WithPool sets the backing pool.
func WithPool(p Pool) Option {
	return func(c *Config) {
		c.Pool = p
	}
}

// WithLimit bounds the number of in-flight tasks. Schedule blocks while the
// limit is reached.
func WithLimit(n int64) Option {
	return func(c *Config) {
		c.Limit = n
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m observe.Metrics) Option {
	return func(c *Config) {
		c.Metrics = m
	}
}

// PoolExecutor runs tasks on a Pool. It is safe for concurrent use.
type PoolExecutor struct {
	name string
	id   string
	pool Pool
	sem  *semaphore.Weighted

	submitted observe.Counter
	completed observe.Counter
	cancelled observe.Counter
	rejected  observe.Counter
	inflight  observe.Gauge
	duration  observe.Histogram

	mu     sync.Mutex
	closed bool
	broken bool
	wg     sync.WaitGroup
}

var _ Executor = (*PoolExecutor)(nil)

// New creates a pool executor with the given name.
func New(name string, opts ...Option) *PoolExecutor {
	cfg := Config{
		Pool:    DefaultPool(),
		Metrics: observe.Nop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Pool == nil {
		cfg.Pool = DefaultPool()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = observe.Nop()
	}

	e := &PoolExecutor{
		name: name,
		id:   uuid.NewString(),
		pool: cfg.Pool,

		submitted: cfg.Metrics.Counter(MetricTasksSubmitted, "executor", name),
		completed: cfg.Metrics.Counter(MetricTasksCompleted, "executor", name),
		cancelled: cfg.Metrics.Counter(MetricTasksCancelled, "executor", name),
		rejected:  cfg.Metrics.Counter(MetricTasksRejected, "executor", name),
		inflight:  cfg.Metrics.Gauge(MetricTasksInflight, "executor", name),
		duration:  cfg.Metrics.Histogram(MetricTaskDuration, "executor", name),
	}
	if cfg.Limit > 0 {
		e.sem = semaphore.NewWeighted(cfg.Limit)
	}

	log.Debug("executor created",
		logger.String("name", name), logger.String("id", e.id))
	return e
}

// observeCancelled records a start refused by a cancelled future. Invoked
// by the Submit handshake when a worker abandons cancelled work.
func (e *PoolExecutor) observeCancelled() {
	e.cancelled.Inc()
}

// Name returns the executor name.
func (e *PoolExecutor) Name() string { return e.name }

// ID returns the unique instance id.
func (e *PoolExecutor) ID() string { return e.id }

// Schedule implements Executor. With a limit configured it blocks until an
// in-flight slot frees up.
func (e *PoolExecutor) Schedule(task Task) error {
	if task == nil {
		return ErrNilTask
	}

	e.mu.Lock()
	if e.broken {
		e.mu.Unlock()
		e.rejected.Inc()
		return future.ErrBrokenExecutor
	}
	if e.closed {
		e.mu.Unlock()
		e.rejected.Inc()
		return ErrShutdown
	}
	e.wg.Add(1)
	e.mu.Unlock()

	if e.sem != nil {
		// Background context: the only failure mode is ctx cancellation.
		_ = e.sem.Acquire(context.Background(), 1)
	}

	e.submitted.Inc()
	e.inflight.Inc()

	if err := e.dispatch(func() {
		start := time.Now()
		defer func() {
			e.duration.Observe(time.Since(start).Seconds())
			e.inflight.Dec()
			if e.sem != nil {
				e.sem.Release(1)
			}
			e.completed.Inc()
			e.wg.Done()
		}()
		task()
	}); err != nil {
		e.inflight.Dec()
		if e.sem != nil {
			e.sem.Release(1)
		}
		e.wg.Done()
		return err
	}
	return nil
}

// dispatch hands the wrapped task to the pool. A panicking pool marks the
// executor broken; later submissions fail fast with ErrBrokenExecutor.
func (e *PoolExecutor) dispatch(f func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			e.mu.Lock()
			e.broken = true
			e.mu.Unlock()
			log.Error("pool rejected task",
				logger.String("name", e.name), logger.String("id", e.id),
				logger.Any("panic", r))
			err = fmt.Errorf("%w: %v", future.ErrBrokenExecutor, r)
		}
	}()
	e.pool.Go(f)
	return nil
}

// Shutdown implements Executor. It is idempotent; with wait it blocks until
// every accepted task has finished.
func (e *PoolExecutor) Shutdown(wait bool) error {
	e.mu.Lock()
	if !e.closed {
		e.closed = true
		log.Debug("executor shut down",
			logger.String("name", e.name), logger.String("id", e.id))
	}
	e.mu.Unlock()

	if wait {
		e.wg.Wait()
	}
	return nil
}
