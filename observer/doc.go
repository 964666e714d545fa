/*
Package observer provides a synchronous, in-process [Event] that fans out to registered observers.

# Registering observers

Any function may observe an [Event]. Functions with the [Callback] signature, func(...any), and func() are called directly, while other signatures are adapted with reflection by [Func].
Arguments given at registration are bound to the observer and appended after the dispatch arguments.

	evt := observer.New(observer.WithName("connected"))
	id, err := evt.AddObserver(func(host string, attempt int) {
		fmt.Println("connected to", host, "after", attempt, "attempts")
	}, 3)
	evt.Dispatch("db.local") // connected to db.local after 3 attempts
	err = evt.RemoveObserver(id)

Every subscription gets an [ID] that is never reused by the same [Event], so removing an observer can't remove a newer one by accident.

# Dispatch semantics

A dispatch pass operates over a snapshot taken when it starts, so observers that add or remove subscriptions while they run only change what the next pass sees.
Observers are called one after another on the dispatching goroutine, in registration order.

Errors returned by observers and panics raised in them are logged, and the pass continues with the next observer.
This is the central guarantee of the package: a misbehaving observer can't stop the others from being notified, and can't fail the dispatching code.

# Weak observers

[AddWeakObserver] registers a method of a target without keeping the target alive.
Once the target is collected, the next pass drops the subscription and logs a warning.

# Observer arguments

Since observers with the [Callback] signature receive untyped arguments, [ArgSpec] and friends help to validate them.

	var host string
	spec := observer.ArgSpec(1, observer.AssertAndStore(&host))
	evt.AddObserver(func(args ...any) error {
		if err := spec(args); err != nil {
			return err
		}
		...
	})
*/
package observer
