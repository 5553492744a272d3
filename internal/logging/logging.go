package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

func Level(v string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
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

// New builds a logger writing to w. format is "json" or "text".
func New(level, format string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: Level(level)}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Open returns a logger for path, or a logger that discards output when path
// is empty. The TUI owns the terminal so nothing is written to stderr.
func Open(level, format, path string) (*slog.Logger, io.Closer, error) {
	if strings.TrimSpace(path) == "" {
		return New(level, format, io.Discard), io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, err
	}
	return New(level, format, f), f, nil
}
