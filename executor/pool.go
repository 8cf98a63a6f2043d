package executor

import (
	"sync/atomic"

	"github.com/bytedance/gopkg/util/gopool"
	"github.com/gammazero/workerpool"
	"github.com/panjf2000/ants/v2"
	concpool "github.com/sourcegraph/conc/pool"
)

// Pool is the common surface over goroutine pool implementations. Any pool
// exposing fire-and-forget submission can back a PoolExecutor.
type Pool interface {
	// Go submits f for concurrent execution.
	Go(f func())
}

// defaultPool backs executors constructed without WithPool. The holder
// keeps the stored concrete type stable for atomic.Value.
var defaultPool atomic.Value

type poolHolder struct {
	pool Pool
}

func init() {
	defaultPool.Store(poolHolder{PoolOfGoroutines()})
}

// DefaultPool returns the pool used when an executor is built without an
// explicit one.
func DefaultPool() Pool {
	return defaultPool.Load().(poolHolder).pool
}

// SetDefaultPool replaces the default pool. A nil pool is ignored.
func SetDefaultPool(pool Pool) {
	if pool == nil {
		return
	}
	defaultPool.Store(poolHolder{pool})
}

// poolWrapper adapts a func(func()) into a Pool.
type poolWrapper func(f func())

// Go implements Pool.
func (p poolWrapper) Go(f func()) {
	p(f)
}

// PoolOfGoroutines returns a Pool that launches one goroutine per task,
// with panic recovery and no concurrency limit.
func PoolOfGoroutines() Pool {
	return poolWrapper(func(f func()) {
		go func() {
			defer func() {
				recover()
			}()
			f()
		}()
	})
}

// PoolOfAnts adapts a panjf2000/ants pool. It panics if pool is nil.
func PoolOfAnts(pool *ants.Pool) Pool {
	if pool == nil {
		panic("ants pool is nil")
	}
	return poolWrapper(func(f func()) {
		_ = pool.Submit(f)
	})
}

// PoolOfWorkerpool adapts a gammazero/workerpool pool. It panics if pool
// is nil.
func PoolOfWorkerpool(pool *workerpool.WorkerPool) Pool {
	if pool == nil {
		panic("worker pool is nil")
	}
	return poolWrapper(func(f func()) {
		pool.Submit(f)
	})
}

// PoolOfConc adapts a sourcegraph/conc pool. It panics if pool is nil.
func PoolOfConc(pool *concpool.Pool) Pool {
	if pool == nil {
		panic("conc pool is nil")
	}
	return poolWrapper(func(f func()) {
		pool.Go(f)
	})
}

// PoolOfGopool adapts a bytedance/gopkg gopool. It panics if pool is nil.
func PoolOfGopool(pool gopool.Pool) Pool {
	if pool == nil {
		panic("gopool is nil")
	}
	return poolWrapper(func(f func()) {
		pool.Go(f)
	})
}
