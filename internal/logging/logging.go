// Package logging builds the process logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Options configures the logger
type Options struct {
	Level string
	// JSON selects structured output, used inside Lambda and in production
	JSON bool
	Out  io.Writer
}

// New returns a logger and installs it as the slog default
func New(opts Options) *slog.Logger {

	out := opts.Out
	if out == nil {
		out = os.Stderr
	}

	level := ParseLevel(opts.Level)

	var logger *slog.Logger
	if opts.JSON {
		logger = slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
			Level: level,
		}))
	} else {
		logger = slog.New(tint.NewHandler(out, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		}))
	}

	slog.SetDefault(logger)
	return logger
}

// ParseLevel maps debug, info, warn and error to slog levels, defaulting to info
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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
