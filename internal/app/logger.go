package app

import (
	"io"
	"log/slog"
)

// newLogger creates a logger for the host. Unknown levels fall back to info
// and any format other than "json" produces text. The global logger is left
// untouched so that several apps can run side by side in tests.
func newLogger(levelStr, formatStr string, w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelStr)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level <= slog.LevelDebug,
	}
	var handler slog.Handler = slog.NewTextHandler(w, opts)
	if formatStr == "json" {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler).With("component", "exposing")
}
