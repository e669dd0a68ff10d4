// Package logging provides slog-based module loggers with per-module
// levels, text or JSON output, systemd journal integration when
// available, and an in-memory ring buffer of recent entries.
package logging

import (
	"log/slog"
	"os"
	"strings"
	"sync"
)

const defaultBufferSize = 500

// Logger is a duck-typed interface satisfied by *slog.Logger. Using the
// interface keeps packages decoupled from the concrete type.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Config represents logging configuration.
type Config struct {
	Level   string            `toml:"level"`
	Format  string            `toml:"format"` // "text" or "json"
	Modules map[string]string `toml:"modules"`
}

var (
	mu            sync.RWMutex
	globalConfig  Config
	initialized   bool
	moduleLoggers = make(map[string]*slog.Logger)
	moduleLevels  = make(map[string]*slog.LevelVar)
	logBuffer     = NewRingBuffer(defaultBufferSize)
)

// Initialize sets up the logging system. Module loggers created before
// Initialize are re-leveled and re-handled so their output follows the
// configured format.
func Initialize(config Config) {
	mu.Lock()
	defer mu.Unlock()

	globalConfig = config
	initialized = true

	base := parseLevel(config.Level, slog.LevelInfo)
	for module, levelVar := range moduleLevels {
		levelVar.Set(moduleLevel(module, base))
		moduleLoggers[module] = slog.New(newHandler(config.Format, levelVar)).With("module", module)
	}

	defaultVar := &slog.LevelVar{}
	defaultVar.Set(base)
	slog.SetDefault(slog.New(newHandler(config.Format, defaultVar)))
}

// Reconfigure applies new levels at runtime, e.g. on a config file
// reload. Existing logger handles stay valid.
func Reconfigure(config Config) {
	mu.Lock()
	defer mu.Unlock()

	globalConfig.Level = config.Level
	globalConfig.Modules = config.Modules

	base := parseLevel(config.Level, slog.LevelInfo)
	for module, levelVar := range moduleLevels {
		levelVar.Set(moduleLevel(module, base))
	}
}

// GetLogger returns the logger for the given module, creating it if
// needed.
func GetLogger(module string) *slog.Logger {
	mu.RLock()
	if logger, ok := moduleLoggers[module]; ok {
		mu.RUnlock()
		return logger
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if logger, ok := moduleLoggers[module]; ok {
		return logger
	}

	levelVar := &slog.LevelVar{}
	format := "text"
	base := slog.LevelInfo
	if initialized {
		format = globalConfig.Format
		base = parseLevel(globalConfig.Level, slog.LevelInfo)
	}
	levelVar.Set(moduleLevel(module, base))

	logger := slog.New(newHandler(format, levelVar)).With("module", module)
	moduleLoggers[module] = logger
	moduleLevels[module] = levelVar
	return logger
}

// GetBuffer returns the ring buffer of recent log entries.
func GetBuffer() *RingBuffer {
	return logBuffer
}

// moduleLevel resolves the effective level for a module. Callers hold mu.
func moduleLevel(module string, base slog.Level) slog.Level {
	if levelStr, ok := globalConfig.Modules[module]; ok {
		return parseLevel(levelStr, base)
	}
	return base
}

// newHandler builds the handler chain: stdout (text or json), journal
// when running under systemd, and the ring buffer.
func newHandler(format string, level slog.Leveler) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}

	var stdout slog.Handler
	if format == "json" {
		stdout = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		stdout = slog.NewTextHandler(os.Stdout, opts)
	}

	handlers := []slog.Handler{stdout}
	if IsJournalAvailable() {
		handlers = append(handlers, NewJournalHandler(level))
	}
	handlers = append(handlers, NewBufferHandler(logBuffer, level))

	return newMultiHandler(handlers...)
}

func parseLevel(level string, fallback slog.Level) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return fallback
	}
}
