package dispatcher

import (
	"fmt"
	"github.com/saylorsolutions/evented/assert"
	"github.com/saylorsolutions/evented/observer"
	"log/slog"
	"reflect"
	"slices"
	"unicode"
	"unicode/utf8"
)

// HandlerProvider lets a subscriber supply its observer for an event name directly, instead of relying on method names.
// Returning false falls back to method lookup.
type HandlerProvider interface {
	Handler(event string) (any, bool)
}

// Dispatcher groups one [observer.Event] per declared name, and registers subscribers with all of them at once.
// The set of events is fixed at construction, so a Dispatcher is safe for concurrent use.
type Dispatcher struct {
	names []string
	slots map[string]*observer.Event
	log   *slog.Logger
}

type presetSlot struct {
	name string
	evt  *observer.Event
}

type config struct {
	log       *slog.Logger
	preset    []presetSlot
	eventOpts []observer.Option
}

// Option configures a [Dispatcher] created with [New].
type Option func(*config)

// WithLogger sets the logger for the Dispatcher and the events it creates. Defaults to [slog.Default].
func WithLogger(log *slog.Logger) Option {
	if log == nil {
		panic("nil logger")
	}
	return func(c *config) {
		c.log = log
	}
}

// WithEvent provides an existing [observer.Event] for a declared name.
// The Dispatcher uses it instead of creating one, and logs a warning, but otherwise leaves the Event as is.
// Events for names that aren't declared are ignored.
func WithEvent(name string, evt *observer.Event) Option {
	if evt == nil {
		panic("nil event")
	}
	return func(c *config) {
		c.preset = append(c.preset, presetSlot{name: name, evt: evt})
	}
}

// WithEventOptions are applied to every [observer.Event] the Dispatcher creates.
func WithEventOptions(opts ...observer.Option) Option {
	return func(c *config) {
		c.eventOpts = append(c.eventOpts, opts...)
	}
}

// New creates a [Dispatcher] with an [observer.Event] for each unique name, in the order given.
// Declaring a name twice, or declaring a name with an existing slot from [WithEvent], logs a warning and keeps the existing slot.
func New(names []string, opts ...Option) *Dispatcher {
	cfg := &config{log: slog.Default()}
	for _, opt := range opts {
		opt(cfg)
	}
	preset := map[string]*observer.Event{}
	for _, slot := range cfg.preset {
		preset[slot.name] = slot.evt
	}

	d := &Dispatcher{
		slots: map[string]*observer.Event{},
		log:   cfg.log,
	}
	for _, name := range names {
		if _, ok := d.slots[name]; ok {
			d.log.Warn("Event declared more than once, keeping the existing slot", "event", name)
			continue
		}
		d.names = append(d.names, name)
		if evt, ok := preset[name]; ok {
			d.log.Warn("Event slot already exists, keeping it", "event", name)
			d.slots[name] = evt
			continue
		}
		evtOpts := append([]observer.Option{observer.WithLogger(d.log)}, cfg.eventOpts...)
		d.slots[name] = observer.New(append(evtOpts, observer.WithName(name))...)
	}
	return d
}

// Names returns the declared event names in declaration order.
func (d *Dispatcher) Names() []string {
	return slices.Clone(d.names)
}

// Event returns the [observer.Event] for a declared name.
func (d *Dispatcher) Event(name string) (*observer.Event, bool) {
	evt, ok := d.slots[name]
	return evt, ok
}

// AddObserver registers the subscriber's handler for every declared event it has one for.
//
// The handler for an event is found by asking a [HandlerProvider], then by looking for an exported method or func field named exactly like the event, and finally one with the first letter upper-cased.
// A subscriber without a handler for some event is logged and skipped, so partial registration is normal.
// Handlers that can't be used as an observer are collected and returned as an error after all events were tried.
func (d *Dispatcher) AddObserver(subscriber any, boundArgs ...any) error {
	return d.AddObserverID(0, subscriber, boundArgs...)
}

// AddObserverID is the same as [Dispatcher.AddObserver], but registers every handler with the given subscription ID.
func (d *Dispatcher) AddObserverID(id observer.ID, subscriber any, boundArgs ...any) error {
	errs := assert.CollectErrors()
	for _, name := range d.names {
		handler, ok := lookupHandler(subscriber, name)
		if !ok {
			d.missingHandler(subscriber, name)
			continue
		}
		_, err := d.slots[name].Register(observer.Registration{
			Callback:  handler,
			BoundArgs: boundArgs,
			ID:        id,
			Owner:     subscriber,
		})
		if err != nil {
			errs.Addf("event '%s': %w", name, err)
		}
	}
	return errs.Result()
}

// AddWeakObserver is the same as [Dispatcher.AddObserver], but the subscriptions don't keep the subscriber alive.
// Only methods of *T are considered, since a [HandlerProvider] or func field would capture the subscriber.
func AddWeakObserver[T any](d *Dispatcher, subscriber *T, boundArgs ...any) error {
	return AddWeakObserverID(d, 0, subscriber, boundArgs...)
}

// AddWeakObserverID is the same as [AddWeakObserver], but registers every handler with the given subscription ID.
func AddWeakObserverID[T any](d *Dispatcher, id observer.ID, subscriber *T, boundArgs ...any) error {
	if subscriber == nil {
		return fmt.Errorf("%w: nil subscriber", observer.ErrInvalidCallback)
	}
	errs := assert.CollectErrors()
	subType := reflect.TypeFor[*T]()
	for _, name := range d.names {
		method, ok := lookupMethod(subType, name)
		if !ok {
			d.missingHandler(subscriber, name)
			continue
		}
		if _, err := observer.RegisterWeak(d.slots[name], subscriber, method.Func.Interface(), id, boundArgs...); err != nil {
			errs.Addf("event '%s': %w", name, err)
		}
	}
	return errs.Result()
}

// RemoveObserver removes the subscriber's subscriptions from every declared event it has a handler for.
// Subscriptions are matched with ==, so a pointer subscriber matches only itself, while a struct value matches every equal value registered.
// Subscribers that can't be compared, such as struct values with slice fields, are rejected by AddObserver.
// A subscriber without a handler for some event is logged and skipped, and events it was never registered with are collected into the returned error.
func (d *Dispatcher) RemoveObserver(subscriber any) error {
	errs := assert.CollectErrors()
	for _, name := range d.names {
		if _, ok := lookupHandler(subscriber, name); !ok {
			d.missingHandler(subscriber, name)
			continue
		}
		if _, err := d.slots[name].RemoveObserverOf(subscriber); err != nil {
			errs.Add(err)
		}
	}
	return errs.Result()
}

// Clear removes all subscriptions from every event.
func (d *Dispatcher) Clear() {
	for _, name := range d.names {
		d.slots[name].Clear()
	}
}

// Dispatch dispatches the named event with args.
// Names that weren't declared are silently ignored.
func (d *Dispatcher) Dispatch(name string, args ...any) {
	evt, ok := d.slots[name]
	if !ok {
		return
	}
	evt.Dispatch(args...)
}

func (d *Dispatcher) missingHandler(subscriber any, name string) {
	d.log.Warn("Subscriber has no handler for event", "event", name, "subscriber", fmt.Sprintf("%T", subscriber))
}

func handlerNames(event string) []string {
	r, size := utf8.DecodeRuneInString(event)
	if r == utf8.RuneError || unicode.IsUpper(r) {
		return []string{event}
	}
	return []string{event, string(unicode.ToUpper(r)) + event[size:]}
}

func lookupHandler(subscriber any, event string) (any, bool) {
	if provider, ok := subscriber.(HandlerProvider); ok {
		if handler, ok := provider.Handler(event); ok {
			return handler, true
		}
	}
	val := reflect.ValueOf(subscriber)
	if !val.IsValid() {
		return nil, false
	}
	for _, name := range handlerNames(event) {
		if method := val.MethodByName(name); method.IsValid() {
			return method.Interface(), true
		}
		if field, ok := funcField(val, name); ok {
			return field, true
		}
	}
	return nil, false
}

func funcField(val reflect.Value, name string) (any, bool) {
	for val.Kind() == reflect.Pointer {
		if val.IsNil() {
			return nil, false
		}
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return nil, false
	}
	sf, ok := val.Type().FieldByName(name)
	if !ok || !sf.IsExported() || sf.Type.Kind() != reflect.Func {
		return nil, false
	}
	field, err := val.FieldByIndexErr(sf.Index)
	if err != nil || field.IsNil() {
		return nil, false
	}
	return field.Interface(), true
}

func lookupMethod(typ reflect.Type, event string) (reflect.Method, bool) {
	for _, name := range handlerNames(event) {
		if method, ok := typ.MethodByName(name); ok {
			return method, true
		}
	}
	return reflect.Method{}, false
}
