// Package slogx provides [log/slog] handlers, and builds the diagnostic logger used by the event packages with [New].
package slogx
