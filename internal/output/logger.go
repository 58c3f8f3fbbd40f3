/*
PURPOSE:
  Provides a structured logger for Relevance Tuner.
  Wraps slog for consistent output.

REQUIREMENTS:
  User-specified:
  - "Sane" CLI output. Not spammy.

  Implementation-discovered:
  - Needs Debug for per-query lines, Info for per-cell lines.
  - JSON handler for non-interactive runs.
  - Logs go to stderr so the result table on stdout stays clean.

ARCHITECTURE INTEGRATION:
  - Used everywhere.

USAGE:
  output.Logger.Info("message", "key", "value")
  output.SetLogger(output.NewLogger("debug", "json", os.Stderr))
*/

package output

import (
	"io"
	"log/slog"
	"os"
)

var Logger *slog.Logger

func init() {
	Logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
}

// SetLogger allows overriding the default logger (e.g. for testing or config changes)
func SetLogger(l *slog.Logger) {
	Logger = l
}

// NewLogger builds a logger for the given level and format ("text" or "json").
func NewLogger(level, format string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// ParseLevel maps a level name to slog.Level, defaulting to Info.
func ParseLevel(level string) slog.Level {
	switch level {
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
