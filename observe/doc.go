// Package observe provides the metrics surface of the futures library.
//
// Executors report through the Metrics interface; the library ships a
// prometheus/client_golang implementation for production and an in-memory
// implementation for tests. Nop() discards everything and is the default.
//
// Usage:
//
//	m := observe.NewPrometheus(nil) // default registerer
//	ex := executor.New("workers", executor.WithMetrics(m))
package observe
