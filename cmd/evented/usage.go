package main

import (
	"fmt"
)

// usageError signals that the flag usage should be shown along with the error.
type usageError struct {
	wrapped error
}

func (e *usageError) Error() string {
	if e.wrapped == nil {
		return "usage error"
	}
	return "usage error: " + e.wrapped.Error()
}

func (e *usageError) Is(err error) bool {
	_, ok := err.(*usageError)
	return ok
}

func (e *usageError) Unwrap() error {
	return e.wrapped
}

func newUsageError(format string, args ...any) error {
	return &usageError{wrapped: fmt.Errorf(format, args...)}
}
