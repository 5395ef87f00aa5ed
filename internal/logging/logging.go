// Package logging builds the process slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Options selects handler format and level.
type Options struct {
	Level  string // debug, info, warn, error
	Format string // text or json
	Debug  bool   // forces debug level and source locations
	Output io.Writer
}

// New returns a logger for opt and installs it as the slog default.
func New(opt Options) (*slog.Logger, error) {
	out := opt.Output
	if out == nil {
		out = os.Stderr
	}
	level := ParseLevel(opt.Level)
	if opt.Debug {
		level = slog.LevelDebug
	}
	hopts := &slog.HandlerOptions{Level: level, AddSource: opt.Debug}

	var h slog.Handler
	switch strings.ToLower(strings.TrimSpace(opt.Format)) {
	case "", "text":
		h = slog.NewTextHandler(out, hopts)
	case "json":
		h = slog.NewJSONHandler(out, hopts)
	default:
		return nil, fmt.Errorf("unsupported log format %q (expected text or json)", opt.Format)
	}
	logger := slog.New(h).With(slog.String("app", "dataprep"))
	slog.SetDefault(logger)
	return logger, nil
}

// ParseLevel maps a level name to slog.Level; unknown names mean info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

// Discard returns a logger that drops everything. Useful for tests and quiet hosts.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}
