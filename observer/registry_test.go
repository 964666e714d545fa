package observer

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func noop(...any) {}

func TestEvent_AddObserver_UniqueIDs(t *testing.T) {
	evt := New()
	seen := map[ID]bool{}
	var last ID
	for i := 0; i < 10; i++ {
		id, err := evt.AddObserver(noop)
		require.NoError(t, err)
		assert.False(t, seen[id], "ID %d was issued twice", id)
		assert.Greater(t, id, last)
		seen[id] = true
		last = id
		if i%2 == 0 {
			require.NoError(t, evt.RemoveObserver(id))
		}
	}
	assert.Equal(t, 5, evt.Len())
}

func TestEvent_AddObserver_Invalid(t *testing.T) {
	evt := New()
	var nilFunc func()
	tests := map[string]any{
		"Nil":          nil,
		"Not callable": 5,
		"Nil function": nilFunc,
		"String":       "connected",
	}
	for name, cb := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := evt.AddObserver(cb)
			assert.ErrorIs(t, err, ErrInvalidCallback)
		})
	}
	assert.Equal(t, 0, evt.Len())
}

func TestEvent_RemoveObserver_NotFound(t *testing.T) {
	evt := New(WithName("connected"))
	assert.ErrorIs(t, evt.RemoveObserver(42), ErrNotFound)

	id, err := evt.AddObserver(noop)
	require.NoError(t, err)
	assert.NoError(t, evt.RemoveObserver(id))
	assert.ErrorIs(t, evt.RemoveObserver(id), ErrNotFound, "Removing twice should fail")
}

func TestEvent_AddObserverID(t *testing.T) {
	evt := New()
	id, err := evt.AddObserverID(2, noop)
	require.NoError(t, err)
	assert.Equal(t, ID(2), id)

	first, err := evt.AddObserver(noop)
	require.NoError(t, err)
	second, err := evt.AddObserver(noop)
	require.NoError(t, err)
	assert.Equal(t, ID(1), first)
	assert.Equal(t, ID(3), second, "Generated IDs should skip the explicit ID")

	var calls int
	_, err = evt.AddObserverID(2, func() { calls++ })
	require.NoError(t, err)
	assert.Equal(t, 3, evt.Len(), "Explicit ID should replace the existing subscription")
	evt.Dispatch()
	assert.Equal(t, 1, calls)
}

func TestEvent_Clear(t *testing.T) {
	evt := New()
	var calls int
	for i := 0; i < 3; i++ {
		_, err := evt.AddObserver(func() { calls++ })
		require.NoError(t, err)
	}
	evt.Clear()
	assert.Equal(t, 0, evt.Len())
	evt.Dispatch()
	assert.Equal(t, 0, calls)

	id, err := evt.AddObserver(noop)
	require.NoError(t, err)
	assert.Equal(t, ID(4), id, "IDs shouldn't be reused after Clear")
}

func TestSequence_Shared(t *testing.T) {
	var seq Sequence
	a := New(WithIDSource(&seq))
	b := New(WithIDSource(&seq))
	idA, err := a.AddObserver(noop)
	require.NoError(t, err)
	idB, err := b.AddObserver(noop)
	require.NoError(t, err)
	assert.NotEqual(t, idA, idB)
}

func TestEvent_Snapshot(t *testing.T) {
	evt := New()
	_, err := evt.AddObserver(noop, "a", 1)
	require.NoError(t, err)
	_, err = evt.AddObserver(noop)
	require.NoError(t, err)

	subs := evt.Snapshot()
	require.Len(t, subs, 2)
	assert.Equal(t, Subscription{ID: 1, Mode: Strong, BoundArgs: []any{"a", 1}}, subs[0])
	assert.Equal(t, ID(2), subs[1].ID)
	assert.Equal(t, "strong", subs[1].Mode.String())
}

type stuckSource struct{}

func (stuckSource) Next() ID {
	return 1
}

func TestEvent_AddObserver_StuckIDSource(t *testing.T) {
	evt := New(WithIDSource(stuckSource{}))
	_, err := evt.AddObserver(noop)
	require.NoError(t, err)
	assert.PanicsWithValue(t, "id source returned 1 after 1, ids must be strictly increasing", func() {
		_, _ = evt.AddObserver(noop)
	})

	_, err = evt.AddObserverID(5, noop)
	assert.NoError(t, err, "Registry should still be usable after the panic")
	assert.Equal(t, 2, evt.Len())
}
