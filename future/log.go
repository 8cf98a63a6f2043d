package future

import "github.com/everyday-items/futures/logger"

// log is the library logging channel. Callback panics and unexpected-state
// reports go here; it never affects future state.
var log = logger.Named("futures")
