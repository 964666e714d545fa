package observer

import (
	"reflect"
	"weak"
)

// AddWeakObserver registers method for target without keeping target alive.
// The method is a method expression (or any function) whose first parameter is *T, for example (*Client).Connected.
// It's called with target followed by the dispatch and bound arguments.
//
// Once target has been collected, the next dispatch pass drops the subscription instead of calling it.
// Bound arguments are held strongly, so they shouldn't reference target.
func AddWeakObserver[T any](evt *Event, target *T, method any, boundArgs ...any) (ID, error) {
	return RegisterWeak(evt, target, method, 0, boundArgs...)
}

// RegisterWeak is the same as [AddWeakObserver], but allows overriding the subscription ID.
// An id of zero generates one.
func RegisterWeak[T any](evt *Event, target *T, method any, id ID, boundArgs ...any) (ID, error) {
	if target == nil {
		return 0, invalidCallback("nil weak target")
	}
	fn := reflect.ValueOf(method)
	if method == nil || fn.Kind() != reflect.Func || fn.IsNil() {
		return 0, invalidCallback("%T is not a function", method)
	}
	targetType := reflect.TypeFor[*T]()
	if fn.Type().NumIn() == 0 || !targetType.AssignableTo(fn.Type().In(0)) {
		return 0, invalidCallback("%s doesn't accept %s as its first parameter", fn.Type(), targetType)
	}
	cb := reflectCallback(fn)
	ref := weak.Make(target)
	sub := &subscription{
		mode:  Weak,
		bound: boundArgs,
		resolve: func() (Callback, bool) {
			target := ref.Value()
			if target == nil {
				return nil, false
			}
			return func(args ...any) error {
				return cb(append([]any{target}, args...)...)
			}, true
		},
		owns: func(owner any) bool {
			ptr, ok := owner.(*T)
			return ok && ptr != nil && weak.Make(ptr) == ref
		},
	}
	return evt.store(id, sub), nil
}
