// Package executor provides the submission surface that drives futures, a
// unified interface over third-party goroutine pools, and a concrete
// pool-backed executor.
//
// Simple usage:
//
//	ex := executor.New("workers", executor.WithLimit(8))
//	defer ex.Shutdown(true)
//
//	f, err := executor.Submit(ex, func() (int, error) {
//	    return compute(), nil
//	})
//	v, err := f.Result()
//
// Mapping over inputs:
//
//	r, err := executor.Map(ex, fetch, urls, executor.WithTimeout(time.Second))
//	defer r.Close()
//	for r.Next() {
//	    use(r.Value())
//	}
//
// Scoped use:
//
//	err := executor.With(executor.New("batch"), func(ex executor.Executor) error {
//	    ...
//	    return nil
//	})
package executor
