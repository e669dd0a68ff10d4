package logging

import (
	"context"
	"errors"
	"log/slog"
)

// multiHandler fans a record out to every wrapped handler, so console,
// journal, and ring buffer output stay in sync.
type multiHandler []slog.Handler

func newMultiHandler(handlers ...slog.Handler) multiHandler {
	return multiHandler(handlers)
}

// Enabled reports whether any wrapped handler accepts the level.
func (m multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle delivers the record to every handler enabled for its level.
// Records are cloned per handler since handlers may retain them.
func (m multiHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range m {
		if h.Enabled(ctx, r.Level) {
			if err := h.Handle(ctx, r.Clone()); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// WithAttrs applies the attrs to every wrapped handler.
func (m multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(multiHandler, len(m))
	for i, h := range m {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

// WithGroup applies the group to every wrapped handler.
func (m multiHandler) WithGroup(name string) slog.Handler {
	out := make(multiHandler, len(m))
	for i, h := range m {
		out[i] = h.WithGroup(name)
	}
	return out
}
