package logger

import (
	"log/slog"
	"time"
)

// Typed attribute constructors mirroring slog's Attr helpers.

// String creates a string attribute.
func String(key, value string) slog.Attr {
	return slog.String(key, value)
}

// Int creates an int attribute.
func Int(key string, value int) slog.Attr {
	return slog.Int(key, value)
}

// Uint64 creates a uint64 attribute.
func Uint64(key string, value uint64) slog.Attr {
	return slog.Uint64(key, value)
}

// Bool creates a bool attribute.
func Bool(key string, value bool) slog.Attr {
	return slog.Bool(key, value)
}

// Duration creates a duration attribute.
func Duration(key string, value time.Duration) slog.Attr {
	return slog.Duration(key, value)
}

// Any creates an attribute holding an arbitrary value.
func Any(key string, value any) slog.Attr {
	return slog.Any(key, value)
}

// Err creates an error attribute under the "error" key.
func Err(err error) slog.Attr {
	return slog.Any("error", err)
}

// Component creates a component attribute.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// State creates a state attribute, used in unexpected-state reports.
func State(state string) slog.Attr {
	return slog.String("state", state)
}
