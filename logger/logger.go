// ABOUTME: Structured logging configuration using log/slog.
// ABOUTME: Provides Init(service) to configure the default logger from the environment.

package logger

import (
	"log/slog"
	"os"
	"strings"
)

// Init configures the default slog logger and tags every record with the
// given service name, so web and CLI logs stay distinguishable when they
// land in the same aggregate.
// LOG_LEVEL: debug, info, warn, error (default: info)
// LOG_FORMAT: text, json (default: text)
func Init(service string) {
	level := parseLevel(os.Getenv("LOG_LEVEL"))

	opts := &slog.HandlerOptions{
		Level: level,
		// Source positions are only worth the noise when debugging
		AddSource: level == slog.LevelDebug,
	}

	var handler slog.Handler
	switch strings.ToLower(os.Getenv("LOG_FORMAT")) {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, opts)
	default:
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	log := slog.New(handler)
	if service != "" {
		log = log.With("service", service)
	}
	slog.SetDefault(log)
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
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
