/*
Package assert supports the two kinds of checking done by the event packages.

  - [Collector] gathers the errors of a bulk operation, like registering one subscriber with many events, so every step is attempted before failing.
  - [True] checks internal invariants that only a bug could violate, and panics when they don't hold.

Invariant checks are removed entirely when building with the 'noassert' tag.
*/
package assert
