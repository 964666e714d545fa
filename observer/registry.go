package observer

import (
	"cmp"
	"fmt"
	"github.com/saylorsolutions/evented/syncx"
	"slices"
	"sync"
	"sync/atomic"
)

// ID identifies a subscription within the [Event] that issued it.
// IDs issued by an [Event] are never reused, even after the subscription is removed.
type ID uint64

// IDSource produces subscription IDs.
// Every call to Next must return a value strictly greater than the last one.
type IDSource interface {
	Next() ID
}

// Sequence is a concurrency-safe [IDSource] that starts at 1.
// A single Sequence may be shared by many events if IDs should be unique across all of them.
type Sequence struct {
	last atomic.Uint64
}

func (s *Sequence) Next() ID {
	return ID(s.last.Add(1))
}

// ReferenceMode determines whether a subscription keeps its target alive.
type ReferenceMode int

const (
	Strong ReferenceMode = iota // Strong subscriptions hold their callback, and with it any captured target.
	Weak                        // Weak subscriptions don't keep their target alive, and are dropped once it's collected.
)

func (m ReferenceMode) String() string {
	switch m {
	case Strong:
		return "strong"
	case Weak:
		return "weak"
	default:
		return fmt.Sprintf("ReferenceMode(%d)", int(m))
	}
}

// Subscription is a read-only view of a registered observer.
type Subscription struct {
	ID        ID
	Mode      ReferenceMode
	BoundArgs []any
}

type subscription struct {
	id    ID
	seq   uint64
	mode  ReferenceMode
	bound []any
	// resolve returns the callback to invoke, or false if a weak target has been collected.
	resolve func() (Callback, bool)
	// owns reports whether this subscription was registered for owner. May be nil.
	owns func(owner any) bool
}

type registry struct {
	mux    sync.Mutex
	ids    IDSource
	lastID ID
	seq    uint64
	subs   map[ID]*subscription
}

func newRegistry(ids IDSource) *registry {
	return &registry{
		ids:  ids,
		subs: map[ID]*subscription{},
	}
}

// add stores sub with a generated ID, skipping any ID that an explicit registration already uses.
func (r *registry) add(sub *subscription) ID {
	return syncx.LockFuncT(&r.mux, func() ID {
		for {
			id := r.ids.Next()
			if id <= r.lastID {
				panic(fmt.Sprintf("id source returned %d after %d, ids must be strictly increasing", id, r.lastID))
			}
			r.lastID = id
			if _, ok := r.subs[id]; ok {
				continue
			}
			r.put(id, sub)
			return id
		}
	})
}

// addID stores sub with the given ID, replacing anything registered with it.
func (r *registry) addID(id ID, sub *subscription) ID {
	syncx.LockFunc(&r.mux, func() {
		r.put(id, sub)
	})
	return id
}

func (r *registry) put(id ID, sub *subscription) {
	r.seq++
	sub.id = id
	sub.seq = r.seq
	r.subs[id] = sub
}

func (r *registry) remove(id ID) error {
	return syncx.LockFuncT(&r.mux, func() error {
		if _, ok := r.subs[id]; !ok {
			return fmt.Errorf("%w: id %d", ErrNotFound, id)
		}
		delete(r.subs, id)
		return nil
	})
}

// drop removes sub only if it's still the subscription registered under its ID.
func (r *registry) drop(sub *subscription) bool {
	return syncx.LockFuncT(&r.mux, func() bool {
		if r.subs[sub.id] != sub {
			return false
		}
		delete(r.subs, sub.id)
		return true
	})
}

func (r *registry) removeOwned(owner any) int {
	return syncx.LockFuncT(&r.mux, func() int {
		var removed int
		for id, sub := range r.subs {
			if sub.owns != nil && sub.owns(owner) {
				delete(r.subs, id)
				removed++
			}
		}
		return removed
	})
}

func (r *registry) clear() {
	syncx.LockFunc(&r.mux, func() {
		clear(r.subs)
	})
}

func (r *registry) len() int {
	return syncx.LockFuncT(&r.mux, func() int {
		return len(r.subs)
	})
}

// snapshot returns the live subscriptions in registration order.
func (r *registry) snapshot() []*subscription {
	subs := syncx.LockFuncT(&r.mux, func() []*subscription {
		subs := make([]*subscription, 0, len(r.subs))
		for _, sub := range r.subs {
			subs = append(subs, sub)
		}
		return subs
	})
	slices.SortFunc(subs, func(a, b *subscription) int {
		return cmp.Compare(a.seq, b.seq)
	})
	return subs
}
