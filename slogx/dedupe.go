package slogx

import (
	"context"
	"log/slog"
	"maps"
)

var _ slog.Handler = (*DedupeHandler)(nil)

// DedupeHandler keeps only the latest value of each attribute key added with WithAttrs or on a record.
// Loggers derived many times with the same key, like an event logger renamed after creation, produce each key once.
type DedupeHandler struct {
	group string
	keys  map[string]int
	attrs []slog.Attr
	impl  slog.Handler
}

func NewDedupeHandler(impl slog.Handler) slog.Handler {
	if impl == nil {
		panic("nil implementing handler")
	}
	return &DedupeHandler{
		impl: impl,
	}
}

func (s *DedupeHandler) prefix() string {
	if len(s.group) == 0 {
		return ""
	}
	return s.group + "."
}

func (s *DedupeHandler) dupe() *DedupeHandler {
	return &DedupeHandler{
		group: s.group,
		keys:  maps.Clone(s.keys),
		attrs: append([]slog.Attr(nil), s.attrs...),
		impl:  s.impl,
	}
}

func (s *DedupeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return s.impl.Enabled(ctx, level)
}

func (s *DedupeHandler) Handle(ctx context.Context, record slog.Record) error {
	h := s
	if record.NumAttrs() > 0 {
		attrs := make([]slog.Attr, 0, record.NumAttrs())
		record.Attrs(func(attr slog.Attr) bool {
			attrs = append(attrs, attr)
			return true
		})
		record = slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
		h = s.WithAttrs(attrs).(*DedupeHandler)
	}
	return h.impl.WithAttrs(h.attrs).Handle(ctx, record)
}

func (s *DedupeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return s
	}
	cp := s.dupe()
	if cp.keys == nil {
		cp.keys = map[string]int{}
	}
	prefix := cp.prefix()
	for _, attr := range attrs {
		attr.Key = prefix + attr.Key
		if i, ok := cp.keys[attr.Key]; ok {
			cp.attrs[i] = attr
			continue
		}
		cp.keys[attr.Key] = len(cp.attrs)
		cp.attrs = append(cp.attrs, attr)
	}
	return cp
}

func (s *DedupeHandler) WithGroup(name string) slog.Handler {
	cp := s.dupe()
	cp.group = cp.prefix() + name
	return cp
}
