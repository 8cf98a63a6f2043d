package future

import (
	"errors"
	"fmt"
)

var (
	// ErrCancelled is returned when a result is requested from a cancelled
	// future.
	ErrCancelled = errors.New("future cancelled")

	// ErrTimedOut is returned when a blocking operation exceeds its deadline.
	ErrTimedOut = errors.New("future timed out")

	// ErrBrokenExecutor is stored into futures abandoned by an executor that
	// has become non-functional.
	ErrBrokenExecutor = errors.New("executor is broken")

	// ErrInvalidState reports a protocol violation: Start, SetResult, or
	// SetError called in a state the executor contract forbids. It is used
	// as a panic value, not a return value.
	ErrInvalidState = errors.New("future in unexpected state")
)

// TimeoutError is the deadline error produced while iterating a set of
// futures. It carries the number of inputs that were still unfinished.
type TimeoutError struct {
	Unfinished int
	Total      int
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%d (of %d) futures unfinished", e.Unfinished, e.Total)
}

// Unwrap makes errors.Is(err, ErrTimedOut) hold for TimeoutError values.
func (e *TimeoutError) Unwrap() error {
	return ErrTimedOut
}
