//go:build !noassert

package assert

import (
	"fmt"
	"runtime"
	"sync/atomic"
)

var disabled atomic.Bool

// Disable turns off invariant checks globally.
// Prefer the 'noassert' build tag outside of tests.
func Disable() {
	disabled.Store(true)
}

// Enable turns invariant checks back on after [Disable].
func Enable() {
	disabled.Store(false)
}

func callerDetails() string {
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		return "unknown"
	}
	return fmt.Sprintf("'%s#%d'", file, line)
}

// True panics with the label and the caller's location if an internal invariant doesn't hold.
// Invariants guard against broken internal state, never against bad input from a caller.
func True(label string, result bool) {
	if disabled.Load() || result {
		return
	}
	panic(fmt.Sprintf("invariant '%s' violated at %s", label, callerDetails()))
}
