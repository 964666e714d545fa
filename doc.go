/*
Package evented is an in-process observer registry.

An observer.Event holds a set of subscriptions and invokes each of them, in registration order, when the event is dispatched.
Subscriptions may hold their callback strongly, or hold only a weak reference to a target object so the registry never keeps it alive.
A failing or panicking observer is logged and skipped, so the rest of the pass still runs.

The dispatcher package groups a fixed set of named events, and registers a subscriber's handlers with all of them at once.
Diagnostics are reported through log/slog, configured by the env and slogx packages, and counters can be exported to Prometheus with the metrics package.
*/
package evented
