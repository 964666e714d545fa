package observer

import (
	"context"
	"fmt"
	"github.com/saylorsolutions/evented/assert"
	"github.com/saylorsolutions/evented/syncx"
	"log/slog"
	"reflect"
	"runtime/debug"
	"sync"
)

// Event is a fan-out point for zero or more observers.
// All methods are safe for concurrent use.
type Event struct {
	nameMux sync.RWMutex
	name    string

	reg   *registry
	log   *slog.Logger
	stats Stats
}

// Option configures an [Event] created with [New].
type Option func(*Event)

// WithName sets the diagnostic name of the [Event].
func WithName(name string) Option {
	return func(e *Event) {
		e.name = name
	}
}

// WithLogger sets the logger used to report dropped and failing observers.
// Defaults to [slog.Default].
func WithLogger(log *slog.Logger) Option {
	if log == nil {
		panic("nil logger")
	}
	return func(e *Event) {
		e.log = log
	}
}

// WithIDSource overrides the per-event [Sequence] used to generate subscription IDs.
func WithIDSource(src IDSource) Option {
	if src == nil {
		panic("nil id source")
	}
	return func(e *Event) {
		e.reg.ids = src
	}
}

// WithStats reports dispatch activity to stats.
func WithStats(stats Stats) Option {
	if stats == nil {
		panic("nil stats")
	}
	return func(e *Event) {
		e.stats = stats
	}
}

// New creates an [Event] with no observers.
func New(opts ...Option) *Event {
	e := &Event{
		reg:   newRegistry(new(Sequence)),
		log:   slog.Default(),
		stats: NoStats{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name returns the diagnostic name of the [Event].
func (e *Event) Name() string {
	return syncx.RLockFuncT(&e.nameMux, func() string {
		return e.name
	})
}

// SetName changes the diagnostic name of the [Event].
func (e *Event) SetName(name string) {
	syncx.LockFunc(&e.nameMux, func() {
		e.name = name
	})
}

// Registration describes an observer to add with [Event.Register].
type Registration struct {
	// Callback is any function accepted by [Func].
	Callback any
	// BoundArgs are appended after the dispatch arguments on every call.
	BoundArgs []any
	// ID overrides the generated subscription ID if non-zero.
	// The caller is responsible for its uniqueness, an existing subscription with the same ID is replaced.
	ID ID
	// Owner is the object the observer was registered for, if any.
	// It's compared with == in [Event.RemoveObserverOf], so pointers match by identity while struct values match any equal value.
	// An Owner that can't be compared is rejected, use a pointer instead.
	Owner any
}

// Register adds a strong subscription described by reg, and returns its ID.
func (e *Event) Register(reg Registration) (ID, error) {
	cb, err := Func(reg.Callback)
	if err != nil {
		return 0, err
	}
	owns := identityOf(reg.Owner)
	if reg.Owner != nil && owns == nil {
		return 0, invalidCallback("owner of type %T can't be compared, register a pointer to it instead", reg.Owner)
	}
	sub := &subscription{
		mode:  Strong,
		bound: reg.BoundArgs,
		resolve: func() (Callback, bool) {
			return cb, true
		},
		owns: owns,
	}
	return e.store(reg.ID, sub), nil
}

func (e *Event) store(id ID, sub *subscription) ID {
	if id == 0 {
		return e.reg.add(sub)
	}
	return e.reg.addID(id, sub)
}

// AddObserver registers callback with optional bound arguments, and returns the ID needed to remove it later.
// See [Func] for the functions that may be used as a callback.
func (e *Event) AddObserver(callback any, boundArgs ...any) (ID, error) {
	return e.Register(Registration{Callback: callback, BoundArgs: boundArgs})
}

// AddObserverID is the same as [Event.AddObserver], but uses the given id instead of generating one.
// An id of zero generates one as usual.
func (e *Event) AddObserverID(id ID, callback any, boundArgs ...any) (ID, error) {
	return e.Register(Registration{Callback: callback, BoundArgs: boundArgs, ID: id})
}

// RemoveObserver removes the subscription with the given ID.
// An error matching [ErrNotFound] is returned if it's not registered.
func (e *Event) RemoveObserver(id ID) error {
	if err := e.reg.remove(id); err != nil {
		return fmt.Errorf("event '%s': %w", e.Name(), err)
	}
	return nil
}

// RemoveObserverOf removes every subscription registered for owner, and returns how many were removed.
// An error matching [ErrNotFound] is returned if none were.
func (e *Event) RemoveObserverOf(owner any) (int, error) {
	removed := e.reg.removeOwned(owner)
	if removed == 0 {
		return 0, fmt.Errorf("event '%s': %w: no subscription for %T", e.Name(), ErrNotFound, owner)
	}
	return removed, nil
}

// Clear removes all subscriptions.
func (e *Event) Clear() {
	e.reg.clear()
}

// Len returns the number of live subscriptions.
func (e *Event) Len() int {
	return e.reg.len()
}

// Snapshot returns the current subscriptions in dispatch order.
func (e *Event) Snapshot() []Subscription {
	subs := e.reg.snapshot()
	views := make([]Subscription, len(subs))
	for i, sub := range subs {
		views[i] = Subscription{ID: sub.id, Mode: sub.mode, BoundArgs: sub.bound}
	}
	return views
}

// Dispatch calls every observer registered when the pass starts, in registration order.
// Observers added or removed while the pass is running only affect later passes.
//
// Errors and panics from observers are logged and never returned, so one failing observer can't stop the others from being called.
func (e *Event) Dispatch(args ...any) {
	var (
		name     = e.Name()
		snapshot = e.reg.snapshot()
		log      = e.log.With("event", name)
	)
	e.stats.Dispatched(name)
	if log.Enabled(context.Background(), slog.LevelDebug) {
		log.Debug("Dispatching event", "observers", len(snapshot), "args", len(args))
	}
	for _, sub := range snapshot {
		assert.True("subscription has a resolver", sub.resolve != nil)
		cb, alive := sub.resolve()
		if !alive {
			if e.reg.drop(sub) {
				e.stats.Dropped(name)
				log.Warn("Observer target was collected, dropping subscription", "id", sub.id)
			}
			continue
		}
		if err := invoke(name, sub, cb, args); err != nil {
			e.stats.Failed(name)
			attrs := []any{"id", sub.id, "error", err.Err}
			if err.Panicked {
				attrs = append(attrs, "stack", string(err.Stack))
			}
			log.Error("Observer failed", attrs...)
			continue
		}
		e.stats.Invoked(name)
	}
}

// Call is shorthand for [Event.Dispatch].
func (e *Event) Call(args ...any) {
	e.Dispatch(args...)
}

// Observer returns a [Callback] that dispatches this [Event], so it can observe another one.
func (e *Event) Observer() Callback {
	return func(args ...any) error {
		e.Dispatch(args...)
		return nil
	}
}

func invoke(name string, sub *subscription, cb Callback, args []any) (invErr *InvocationError) {
	defer func() {
		if r := recover(); r != nil {
			invErr = &InvocationError{
				Event:      name,
				ID:         sub.id,
				Err:        fmt.Errorf("panic: %v", r),
				Panicked:   true,
				PanicValue: r,
				Stack:      debug.Stack(),
			}
		}
	}()
	callArgs := make([]any, 0, len(args)+len(sub.bound))
	callArgs = append(callArgs, args...)
	callArgs = append(callArgs, sub.bound...)
	if err := cb(callArgs...); err != nil {
		return &InvocationError{Event: name, ID: sub.id, Err: err}
	}
	return nil
}

// identityOf returns a matcher for owner, or nil if owner is nil or can't be compared.
func identityOf(owner any) func(any) bool {
	if owner == nil {
		return nil
	}
	ownerVal := reflect.ValueOf(owner)
	if !ownerVal.Comparable() {
		return nil
	}
	return func(other any) bool {
		if other == nil {
			return false
		}
		otherVal := reflect.ValueOf(other)
		if otherVal.Type() != ownerVal.Type() || !otherVal.Comparable() {
			return false
		}
		return other == owner
	}
}
