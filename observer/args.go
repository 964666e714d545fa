package observer

import (
	"errors"
	"fmt"
)

var (
	ErrUnexpectedArgType = errors.New("unexpected argument type")
	ErrNotEnoughArgs     = errors.New("not enough arguments")
	ErrArgCount          = errors.New("argument count mismatch")
)

// ArgAssertion is a function that asserts constraints of a single argument passed to a [Callback].
// The pos parameter is the argument's position, and is mostly informational.
type ArgAssertion func(pos int, arg any) error

// And chains assertions into one [ArgAssertion], stopping at the first error.
func (a ArgAssertion) And(other ArgAssertion, more ...ArgAssertion) ArgAssertion {
	return func(pos int, arg any) error {
		if err := a(pos, arg); err != nil {
			return err
		}
		if err := other(pos, arg); err != nil {
			return err
		}
		for _, next := range more {
			if err := next(pos, arg); err != nil {
				return err
			}
		}
		return nil
	}
}

// AnyPass passes if any of the assertions pass, and returns all errors otherwise.
// This is most useful if an argument can have one of multiple types.
func AnyPass(assertions ...ArgAssertion) ArgAssertion {
	return func(pos int, arg any) error {
		var errs []error
		for _, assertion := range assertions {
			err := assertion(pos, arg)
			if err == nil {
				return nil
			}
			errs = append(errs, err)
		}
		return errors.Join(errs...)
	}
}

// IsType asserts that an argument is a T.
func IsType[T any]() ArgAssertion {
	return func(pos int, arg any) error {
		if _, ok := arg.(T); !ok {
			var expected T
			return fmt.Errorf("%w: argument %d expected %T, but got %T", ErrUnexpectedArgType, pos, expected, arg)
		}
		return nil
	}
}

func notNil() ArgAssertion {
	return func(pos int, arg any) error {
		if arg == nil {
			return fmt.Errorf("%w: argument %d is nil", ErrUnexpectedArgType, pos)
		}
		return nil
	}
}

// AssertAndStore asserts that an argument is a non-nil T, and stores it in target.
func AssertAndStore[T any](target *T) ArgAssertion {
	if target == nil {
		return func(pos int, _ any) error {
			return fmt.Errorf("target for argument %d is a nil pointer", pos)
		}
	}
	return notNil().And(IsType[T](), func(_ int, arg any) error {
		*target = arg.(T)
		return nil
	})
}

// Optional applies ifNotNil only when the argument isn't nil.
func Optional(ifNotNil ArgAssertion) ArgAssertion {
	return func(pos int, arg any) error {
		if arg == nil {
			return nil
		}
		return ifNotNil(pos, arg)
	}
}

// ArgSpec creates a function that applies the assertion at each position to the argument at the same position.
// Nil assertions are skipped, and extra arguments or assertions are ignored.
// If fewer than minArgs arguments are given, then an error matching [ErrNotEnoughArgs] is returned without running any assertion.
func ArgSpec(minArgs int, assertions ...ArgAssertion) func(args []any) error {
	return func(args []any) error {
		if len(args) < minArgs {
			return fmt.Errorf("%w: expected at least %d, got %d", ErrNotEnoughArgs, minArgs, len(args))
		}
		var errs []error
		for i := 0; i < len(assertions) && i < len(args); i++ {
			if assertions[i] == nil {
				continue
			}
			if err := assertions[i](i, args[i]); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}
}

// MapArg maps the first argument to target, which is the most common case for simple observers.
func MapArg[T any](target *T, args []any) error {
	return ArgSpec(1, AssertAndStore(target))(args)
}
