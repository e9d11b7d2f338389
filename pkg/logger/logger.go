package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/gnames/botdb/pkg/config"
)

// New creates a new slog.Logger based on the provided configuration.
// It respects the logging level, format and destination from the
// config. Invalid values default to Info level, JSON format and
// STDERR destination.
func New(cfg *config.LogConfig) *slog.Logger {
	level := ParseLevel(cfg.Level)

	var w io.Writer
	switch strings.ToLower(cfg.Destination) {
	case "stdout":
		w = os.Stdout
	default:
		w = os.Stderr
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{
		Level: level,
	}

	switch strings.ToLower(cfg.Format) {
	case "text":
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler)
}

// ParseLevel converts a string log level to slog.Level.
// Valid levels: "debug", "info", "warn", "error" (case-insensitive).
// Invalid levels default to Info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info", "": // Default to info if empty
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		// Invalid level, default to info
		return slog.LevelInfo
	}
}
