package observer

import (
	"fmt"
	"reflect"
)

// Callback is the normalized form of every observer registered with an [Event].
// Dispatch arguments come first, followed by the bound arguments given at registration.
// A returned error is reported as an observer failure, and doesn't stop the dispatch pass.
type Callback func(args ...any) error

var errorType = reflect.TypeFor[error]()

// Func adapts fn to a [Callback].
//
// Functions of type Callback, func(...any) error, and func(...any) are used directly.
// Functions of type func() and func() error ignore any arguments.
// Any other function is called with reflection: each argument is assigned to the matching parameter, and the trailing arguments are passed to a variadic parameter if present.
// If the last result of fn is an error, then it's returned from the Callback.
// Argument mismatches are reported as errors when the Callback is called, not here.
//
// An error matching [ErrInvalidCallback] is returned if fn is nil or not a function.
func Func(fn any) (Callback, error) {
	switch f := fn.(type) {
	case nil:
		return nil, invalidCallback("nil callback")
	case Callback:
		if f == nil {
			return nil, invalidCallback("nil %T", fn)
		}
		return f, nil
	case func(...any) error:
		if f == nil {
			return nil, invalidCallback("nil %T", fn)
		}
		return f, nil
	case func(...any):
		if f == nil {
			return nil, invalidCallback("nil %T", fn)
		}
		return func(args ...any) error {
			f(args...)
			return nil
		}, nil
	case func():
		if f == nil {
			return nil, invalidCallback("nil %T", fn)
		}
		return func(args ...any) error {
			f()
			return nil
		}, nil
	case func() error:
		if f == nil {
			return nil, invalidCallback("nil %T", fn)
		}
		return func(args ...any) error {
			return f()
		}, nil
	}
	val := reflect.ValueOf(fn)
	if val.Kind() != reflect.Func {
		return nil, invalidCallback("%T is not a function", fn)
	}
	if val.IsNil() {
		return nil, invalidCallback("nil %T", fn)
	}
	return reflectCallback(val), nil
}

func reflectCallback(fn reflect.Value) Callback {
	typ := fn.Type()
	returnsErr := typ.NumOut() > 0 && typ.Out(typ.NumOut()-1) == errorType
	return func(args ...any) error {
		in, err := callArgs(typ, args)
		if err != nil {
			return err
		}
		out := fn.Call(in)
		if !returnsErr {
			return nil
		}
		last := out[len(out)-1]
		if last.IsNil() {
			return nil
		}
		return last.Interface().(error)
	}
}

func callArgs(typ reflect.Type, args []any) ([]reflect.Value, error) {
	numIn := typ.NumIn()
	fixed := numIn
	if typ.IsVariadic() {
		fixed--
	}
	if len(args) < fixed || (!typ.IsVariadic() && len(args) > numIn) {
		return nil, fmt.Errorf("%w: %s called with %d arguments", ErrArgCount, typ, len(args))
	}
	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		var paramType reflect.Type
		if i < fixed {
			paramType = typ.In(i)
		} else {
			paramType = typ.In(numIn - 1).Elem()
		}
		val, err := argValue(paramType, arg)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		in[i] = val
	}
	return in, nil
}

func argValue(paramType reflect.Type, arg any) (reflect.Value, error) {
	if arg == nil {
		switch paramType.Kind() {
		case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
			return reflect.Zero(paramType), nil
		default:
			return reflect.Value{}, fmt.Errorf("%w: nil can't be used as %s", ErrUnexpectedArgType, paramType)
		}
	}
	val := reflect.ValueOf(arg)
	if !val.Type().AssignableTo(paramType) {
		return reflect.Value{}, fmt.Errorf("%w: expected %s, but got %s", ErrUnexpectedArgType, paramType, val.Type())
	}
	return val, nil
}
