package observer

// Stats receives counts of dispatch activity, keyed by event name.
// Implementations must be safe for concurrent use.
type Stats interface {
	Dispatched(event string) // A dispatch pass started.
	Invoked(event string)    // An observer returned without error.
	Failed(event string)     // An observer returned an error or panicked.
	Dropped(event string)    // A weak observer's target was collected.
}

// NoStats discards everything, and is the default [Stats].
type NoStats struct{}

func (NoStats) Dispatched(string) {}
func (NoStats) Invoked(string)    {}
func (NoStats) Failed(string)     {}
func (NoStats) Dropped(string)    {}
