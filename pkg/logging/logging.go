// Package logging configures structured logging for log/slog.
//
// Usage:
//
//	logging.Setup("local")                          // colored output, LOG_LEVEL env
//	logging.SetupWithLevel("prod", slog.LevelDebug) // JSON output, explicit level
//
// Environment variables:
//
//	LOG_LEVEL: debug, info, warn, error (default: info)
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup installs the default logger for env at the level given by LOG_LEVEL.
func Setup(env string) {
	SetupWithLevel(env, LevelFromEnv())
}

// SetupWithLevel installs the default logger for env at the given level.
func SetupWithLevel(env string, level slog.Level) {
	slog.SetDefault(slog.New(NewHandler(os.Stderr, env, level)))
}

// NewHandler returns a colored tint handler for local development and a
// JSON handler everywhere else.
func NewHandler(w io.Writer, env string, level slog.Level) slog.Handler {
	if env == "local" {
		return tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		})
	}
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
}

// LevelFromEnv parses LOG_LEVEL.
func LevelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
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
