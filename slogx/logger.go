package slogx

import (
	"fmt"
	"github.com/saylorsolutions/evented/env"
	"io"
	"log/slog"
	"os"
)

// New builds the diagnostic logger described by settings, writing to w in the configured format.
// The level is [slog.LevelDebug] when [env.Settings.Debug] is set, and [slog.LevelInfo] otherwise.
//
// If [env.Settings.LogFile] is set, a JSON copy of every record is appended to that file, and the returned close function closes it.
// The close function is always safe to call.
func New(settings env.Settings, w io.Writer) (*slog.Logger, func() error, error) {
	level := slog.LevelInfo
	if settings.Debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch settings.LogFormat {
	case env.FormatJSON:
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}

	closer := func() error { return nil }
	if len(settings.LogFile) > 0 {
		f, err := os.OpenFile(settings.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, closer, fmt.Errorf("failed to open log file: %w", err)
		}
		handler = MergeHandlers(handler, slog.NewJSONHandler(f, opts))
		closer = f.Close
	}
	return slog.New(NewDedupeHandler(handler)), closer, nil
}
