package observer

import (
	"errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"io"
	"testing"
)

func TestFunc(t *testing.T) {
	var called int
	tests := map[string]struct {
		fn       any
		args     []any
		expected error
	}{
		"Callback": {
			fn:   Callback(func(args ...any) error { called++; return nil }),
			args: []any{1, 2},
		},
		"Variadic any": {
			fn:   func(args ...any) { called++ },
			args: []any{"a"},
		},
		"No params": {
			fn: func() { called++ },
		},
		"No params with error": {
			fn: func() error {
				called++
				return nil
			},
			args: []any{"ignored", 1},
		},
		"Typed params": {
			fn: func(host string, port int) {
				called++
			},
			args: []any{"db.local", 5432},
		},
		"Typed variadic": {
			fn: func(host string, ports ...int) {
				called++
			},
			args: []any{"db.local", 1, 2, 3},
		},
		"Returns error": {
			fn: func(int) (int, error) {
				called++
				return 0, io.EOF
			},
			args:     []any{1},
			expected: io.EOF,
		},
		"Nil interface param": {
			fn: func(err error, m map[string]int) {
				called++
			},
			args: []any{nil, nil},
		},
		"Interface param": {
			fn: func(w io.Writer) {
				called++
			},
			args: []any{io.Discard},
		},
		"Not enough args": {
			fn:       func(host string, port int) {},
			args:     []any{"db.local"},
			expected: ErrArgCount,
		},
		"Too many args": {
			fn:       func(host string) {},
			args:     []any{"db.local", 1},
			expected: ErrArgCount,
		},
		"Wrong type": {
			fn:       func(port int) {},
			args:     []any{"5432"},
			expected: ErrUnexpectedArgType,
		},
		"Nil value param": {
			fn:       func(port int) {},
			args:     []any{nil},
			expected: ErrUnexpectedArgType,
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			called = 0
			cb, err := Func(tc.fn)
			require.NoError(t, err)
			err = cb(tc.args...)
			if tc.expected != nil {
				assert.ErrorIs(t, err, tc.expected)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, 1, called)
		})
	}
}

func TestFunc_Invalid(t *testing.T) {
	var (
		nilCallback Callback
		nilVariadic func(...any)
		nilTyped    func(string)
		nilNoParams func() error
	)
	for _, fn := range []any{nil, nilCallback, nilVariadic, nilTyped, nilNoParams, 5, struct{}{}} {
		_, err := Func(fn)
		assert.ErrorIs(t, err, ErrInvalidCallback, "%T should be invalid", fn)
	}
}

func TestInvocationError(t *testing.T) {
	cause := errors.New("cause")
	err := error(&InvocationError{Event: "connected", ID: 3, Err: cause})
	assert.ErrorIs(t, err, ErrObserverInvocation)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "observer 3 of event 'connected' failed: cause", err.Error())

	err = &InvocationError{Event: "connected", ID: 3, Err: cause, Panicked: true, PanicValue: "boom"}
	assert.Equal(t, "observer 3 of event 'connected' panicked: boom", err.Error())
}
