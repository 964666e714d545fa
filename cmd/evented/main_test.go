package main

import (
	"bytes"
	"github.com/saylorsolutions/evented/dispatcher"
	"github.com/saylorsolutions/evented/env"
	"github.com/saylorsolutions/evented/observer"
	flag "github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv(env.DebugKey, "")
	t.Setenv(env.LogFormatKey, "")
	t.Setenv(env.LogFileKey, "")
}

func TestRun(t *testing.T) {
	clearEnv(t)
	var stdout, stderr bytes.Buffer
	err := run([]string{"-e", "connected,disconnected", "--fire", "connected", "-n", "2", "--log-format", "json", "--metrics", "db.local"}, &stdout, &stderr)
	require.NoError(t, err)

	out := stdout.String()
	assert.Contains(t, out, "connected db.local\nconnected db.local\n")
	assert.NotContains(t, out, "disconnected db.local")
	assert.Contains(t, out, `evented_observer_dispatches_total{event="connected"} 2`)
	assert.Contains(t, out, `evented_observer_invocations_total{event="connected"} 2`)
	assert.Contains(t, stderr.String(), `"msg":"Dispatch complete"`)
	assert.Contains(t, stderr.String(), `"received":2`)
}

func TestRun_EventsFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "events.yaml")
	require.NoError(t, os.WriteFile(path, []byte("events:\n  - connected\n  - disconnected\n"), 0600))

	var stdout, stderr bytes.Buffer
	require.NoError(t, run([]string{"--events", path, "-e", "closed", "--log-format", "text"}, &stdout, &stderr))
	assert.Equal(t, "connected\ndisconnected\nclosed\n", stdout.String())
	assert.Contains(t, stderr.String(), "received=3")
}

func TestRun_UndeclaredFire(t *testing.T) {
	clearEnv(t)
	var stdout, stderr bytes.Buffer
	require.NoError(t, run([]string{"-e", "connected", "--fire", "closed", "--log-format", "text"}, &stdout, &stderr))
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "Event was not declared")
}

func TestRun_Errors(t *testing.T) {
	clearEnv(t)
	missing := filepath.Join(t.TempDir(), "missing.yaml")
	invalid := filepath.Join(t.TempDir(), "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("names: [connected]\n"), 0600))

	tests := map[string]struct {
		args     []string
		expected error
	}{
		"No events":      {args: []string{"--log-format", "text"}, expected: new(usageError)},
		"Negative count": {args: []string{"-e", "connected", "--count=-1"}, expected: new(usageError)},
		"Bad log format": {args: []string{"-e", "connected", "--log-format", "xml"}, expected: new(usageError)},
		"Missing file":   {args: []string{"--events", missing, "--log-format", "text"}, expected: os.ErrNotExist},
		"Invalid file":   {args: []string{"--events", invalid, "--log-format", "text"}, expected: dispatcher.ErrInvalidDeclaration},
		"Help":           {args: []string{"--help"}, expected: flag.ErrHelp},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			err := run(tc.args, &stdout, &stderr)
			assert.ErrorIs(t, err, tc.expected)
		})
	}
}

func TestLogFormat(t *testing.T) {
	clearEnv(t)
	var buf bytes.Buffer
	assert.Equal(t, env.FormatJSON, logFormat("", &buf), "Non-terminal output should default to JSON")
	assert.Equal(t, env.FormatText, logFormat("TEXT", &buf))

	t.Setenv(env.LogFormatKey, "text")
	assert.Equal(t, env.FormatText, logFormat("", &buf))
	t.Setenv(env.LogFormatKey, "bogus")
	assert.Equal(t, env.FormatText, logFormat("", &buf))
}

func TestPrintSubscriber(t *testing.T) {
	var out bytes.Buffer
	sub := &printSubscriber{out: &out}
	handler, ok := sub.Handler("connected")
	require.True(t, ok)
	cb, err := observer.Func(handler)
	require.NoError(t, err)

	assert.NoError(t, cb("db.local", new(strings.Builder)))
	assert.Equal(t, "connected db.local \n", out.String())
	assert.ErrorIs(t, cb("db.local", 5432), observer.ErrUnexpectedArgType)
	assert.Equal(t, 1, sub.received, "Rejected arguments should not be counted")
}
