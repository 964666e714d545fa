/*
Package dispatcher groups many named events into one [Dispatcher], so a subscriber can be registered with all of them at once.

A Dispatcher is created from an ordered list of event names, either in code or loaded from YAML with [LoadNames].
Each name gets its own [observer.Event].

	d := dispatcher.New([]string{"connected", "disconnected"})
	client := &Client{}
	err := d.AddObserver(client) // registers client.Connected and client.Disconnected
	d.Dispatch("connected", "db.local")
	d.Dispatch("unknown") // not declared, does nothing

Subscribers don't need to handle every event. A missing handler is logged as a warning, and registration continues with the next event.
Subscribers that want to choose handlers themselves can implement [HandlerProvider].
*/
package dispatcher
