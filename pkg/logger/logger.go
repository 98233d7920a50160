// Package logger builds the application's slog loggers, with optional
// ANSI coloring for terminal output.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// ANSI escape sequences used by the colored handler.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
)

// NewDefaultLogger creates a colored text logger writing to stderr.
func NewDefaultLogger(level slog.Level) *slog.Logger {
	return slog.New(newColorHandler(os.Stderr, level))
}

// New creates a logger from config values. format is "text" or "json";
// level is one of debug, info, warn, error.
func New(level, format string) *slog.Logger {
	lvl := ParseLevel(level)
	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	}
	return slog.New(newColorHandler(os.Stderr, lvl))
}

// ParseLevel maps a config string to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// colorHandler wraps a text handler and colors warnings yellow and
// errors red.
type colorHandler struct {
	inner slog.Handler
	out   io.Writer
	level slog.Level
}

func newColorHandler(out io.Writer, level slog.Level) *colorHandler {
	return &colorHandler{
		inner: slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}),
		out:   out,
		level: level,
	}
}

func (h *colorHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *colorHandler) Handle(ctx context.Context, record slog.Record) error {
	switch record.Level {
	case slog.LevelWarn:
		fmt.Fprint(h.out, colorYellow)
		defer fmt.Fprint(h.out, colorReset)
	case slog.LevelError:
		fmt.Fprint(h.out, colorRed)
		defer fmt.Fprint(h.out, colorReset)
	}
	return h.inner.Handle(ctx, record)
}

func (h *colorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &colorHandler{inner: h.inner.WithAttrs(attrs), out: h.out, level: h.level}
}

func (h *colorHandler) WithGroup(name string) slog.Handler {
	return &colorHandler{inner: h.inner.WithGroup(name), out: h.out, level: h.level}
}
