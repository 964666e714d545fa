package slogx

import (
	"github.com/stretchr/testify/assert"
	"log/slog"
	"strings"
	"testing"
)

func TestMergeHandlers(t *testing.T) {
	var (
		bufA, bufB, bufC strings.Builder
	)
	log := slog.New(MergeHandlers(
		slog.NewTextHandler(&bufA, &slog.HandlerOptions{}),
		slog.NewTextHandler(&bufB, &slog.HandlerOptions{}),
		slog.NewTextHandler(&bufC, &slog.HandlerOptions{}),
	))
	log.Info("A message", "test", "test")
	a, b, c := bufA.String(), bufB.String(), bufC.String()
	assert.NotEmpty(t, a)
	assert.Equal(t, a, b)
	assert.Equal(t, b, c)
}

func TestMergeHandlers_Levels(t *testing.T) {
	var debug, warn strings.Builder
	log := slog.New(MergeHandlers(
		slog.NewTextHandler(&debug, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&warn, &slog.HandlerOptions{Level: slog.LevelWarn}),
	))
	log.Debug("Dispatching event")
	assert.Contains(t, debug.String(), "Dispatching event")
	assert.Empty(t, warn.String(), "Debug records should not reach a warn handler")
}

func TestMergeHandlers_WithAttrs(t *testing.T) {
	var bufA, bufB strings.Builder
	base := slog.New(MergeHandlers(
		slog.NewTextHandler(&bufA, nil),
		slog.NewTextHandler(&bufB, nil),
	))
	_ = base.With("event", "connected")
	base.Info("Base")
	assert.NotContains(t, bufA.String(), "event=connected", "Deriving a logger should not change its parent")
	assert.NotContains(t, bufB.String(), "event=connected")
}
