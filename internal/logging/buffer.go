package logging

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// LogEntry is a single log line held in the ring buffer.
type LogEntry struct {
	Timestamp  time.Time      `json:"timestamp"`
	Level      string         `json:"level"`
	Module     string         `json:"module"`
	Message    string         `json:"message"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// RingBuffer is a thread-safe circular buffer of log entries.
type RingBuffer struct {
	mu      sync.RWMutex
	entries []LogEntry
	head    int
	count   int
}

// NewRingBuffer creates a ring buffer with the given capacity.
func NewRingBuffer(size int) *RingBuffer {
	return &RingBuffer{entries: make([]LogEntry, size)}
}

// Write appends an entry, overwriting the oldest when full.
func (rb *RingBuffer) Write(entry LogEntry) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	rb.entries[rb.head] = entry
	rb.head = (rb.head + 1) % len(rb.entries)
	if rb.count < len(rb.entries) {
		rb.count++
	}
}

// ReadAll returns all entries in chronological order.
func (rb *RingBuffer) ReadAll() []LogEntry {
	rb.mu.RLock()
	defer rb.mu.RUnlock()

	if rb.count == 0 {
		return nil
	}
	out := make([]LogEntry, 0, rb.count)
	if rb.count < len(rb.entries) {
		out = append(out, rb.entries[:rb.count]...)
	} else {
		out = append(out, rb.entries[rb.head:]...)
		out = append(out, rb.entries[:rb.head]...)
	}
	return out
}

// Count returns the number of buffered entries.
func (rb *RingBuffer) Count() int {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return rb.count
}

// BufferHandler is a slog.Handler that records entries into a RingBuffer.
type BufferHandler struct {
	buffer *RingBuffer
	level  slog.Leveler
	attrs  []slog.Attr
}

// NewBufferHandler creates a handler writing into the given buffer.
func NewBufferHandler(buffer *RingBuffer, level slog.Leveler) *BufferHandler {
	return &BufferHandler{buffer: buffer, level: level}
}

// Enabled implements slog.Handler.
func (h *BufferHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle implements slog.Handler.
func (h *BufferHandler) Handle(_ context.Context, r slog.Record) error {
	attrs := make(map[string]any)
	module := "app"

	collect := func(a slog.Attr) {
		if a.Key == "module" {
			module = a.Value.String()
			return
		}
		if err, ok := a.Value.Any().(error); ok {
			attrs[a.Key] = err.Error()
			return
		}
		attrs[a.Key] = a.Value.Any()
	}
	for _, a := range h.attrs {
		collect(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		collect(a)
		return true
	})

	h.buffer.Write(LogEntry{
		Timestamp:  r.Time,
		Level:      levelString(r.Level),
		Module:     module,
		Message:    r.Message,
		Attributes: attrs,
	})
	return nil
}

// WithAttrs implements slog.Handler.
func (h *BufferHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &BufferHandler{buffer: h.buffer, level: h.level, attrs: merged}
}

// WithGroup implements slog.Handler. Groups are not tracked; grouped
// attributes land under their own keys.
func (h *BufferHandler) WithGroup(string) slog.Handler {
	return h
}

func levelString(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "error"
	case level >= slog.LevelWarn:
		return "warn"
	case level >= slog.LevelInfo:
		return "info"
	default:
		return "debug"
	}
}
