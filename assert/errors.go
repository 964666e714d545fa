package assert

import (
	"fmt"
	"strings"
)

// Collector collects errors and joins their messages with a join string.
// A Collector is itself an error, and works with [errors.Is] and [errors.As] for any collected error.
//
// Note that a Collector is not concurrency safe.
type Collector struct {
	errs    []error
	joinStr string
}

// CollectErrors creates a new Collector, optionally with a join string that differs from the default of "\n".
func CollectErrors(joinString ...string) *Collector {
	joinStr := "\n"
	if len(joinString) > 0 {
		joinStr = joinString[0]
	}
	return &Collector{
		joinStr: joinStr,
	}
}

// Add adds err to the Collector if it's not nil.
func (c *Collector) Add(err error) *Collector {
	if err != nil {
		c.errs = append(c.errs, err)
	}
	return c
}

// Addf adds an error created with [fmt.Errorf], so "%w" may be used.
func (c *Collector) Addf(format string, args ...any) *Collector {
	return c.Add(fmt.Errorf(format, args...))
}

// Len returns the number of collected errors.
func (c *Collector) Len() int {
	return len(c.errs)
}

// Result returns nil if nothing was collected, and the Collector otherwise.
func (c *Collector) Result() error {
	if len(c.errs) > 0 {
		return c
	}
	return nil
}

func (c *Collector) Error() string {
	msgs := make([]string, len(c.errs))
	for i, err := range c.errs {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, c.joinStr)
}

func (c *Collector) Unwrap() []error {
	return c.errs
}
