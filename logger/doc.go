// Package logger provides the structured logging channel for the futures
// library.
//
// It is a thin wrapper around log/slog with leveled output, a JSON or text
// format, and typed attribute constructors. Library packages obtain a named
// sub-logger via Named, which derives from the default logger at the time of
// the call. SetDefault replaces the default for later Default and Named
// calls; loggers obtained before it, such as the package-level channels the
// library packages create at initialization, keep writing to the logger
// they were derived from.
//
// Basic usage:
//
//	log := logger.Named("futures")
//	log.Error("callback panicked", logger.Err(err))
package logger
