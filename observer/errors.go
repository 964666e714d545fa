package observer

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCallback    = errors.New("callback must be a function")
	ErrNotFound           = errors.New("subscription not found")
	ErrObserverInvocation = errors.New("observer invocation failed")
)

// InvocationError describes a failure of a single observer during a dispatch pass.
// It's always handled inside [Event.Dispatch], and is only visible to the logger and the configured [Stats].
type InvocationError struct {
	Event string
	ID    ID
	// Err is the error returned by the callback, or an error describing the recovered panic.
	Err error
	// Panicked is true if the callback panicked instead of returning an error.
	Panicked   bool
	PanicValue any
	Stack      []byte
}

func (e *InvocationError) Error() string {
	if e.Panicked {
		return fmt.Sprintf("observer %d of event '%s' panicked: %v", e.ID, e.Event, e.PanicValue)
	}
	return fmt.Sprintf("observer %d of event '%s' failed: %v", e.ID, e.Event, e.Err)
}

func (e *InvocationError) Is(err error) bool {
	return err == ErrObserverInvocation
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}

func invalidCallback(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidCallback, fmt.Sprintf(format, args...))
}
