// Package logging configures structured logging with log/slog.
//
// Usage:
//
//	logging.Setup()                           // from LOG_LEVEL and LOG_FORMAT env
//	logging.SetupWithLevel(slog.LevelDebug)   // colored text at an explicit level
//	logging.Configure(os.Stderr, "debug", "json")
//
// Environment variables:
//
//	LOG_LEVEL: debug, info, warn, error (default: info)
//	LOG_FORMAT: text, json (default: text)
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup configures logging at the level and format given by LOG_LEVEL and
// LOG_FORMAT.
func Setup() {
	Configure(os.Stderr, os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
}

// SetupWithLevel configures colored logging at the given level.
func SetupWithLevel(level slog.Level) {
	slog.SetDefault(slog.New(NewHandler(os.Stderr, level, "text")))
}

// Configure installs a default logger writing to w.
func Configure(w io.Writer, level, format string) {
	slog.SetDefault(slog.New(NewHandler(w, ParseLevel(level), format)))
}

// NewHandler returns a JSON handler for format "json" and a tint handler
// otherwise.
func NewHandler(w io.Writer, level slog.Level, format string) slog.Handler {
	if strings.EqualFold(format, "json") {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:     level,
			AddSource: true,
		})
	}
	return tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  true,
	})
}

// ParseLevel maps a level name to a slog.Level, defaulting to INFO.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
