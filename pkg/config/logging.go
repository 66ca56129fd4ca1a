package config

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// ParseLevel maps a config string onto a slog level, defaulting to info.
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

// NewLogger builds the process logger. When log.file is set the log goes
// there; otherwise it goes to fallback (stderr for the CLI, io.Discard for the
// full-screen UI). The returned closer releases the file.
func (c *Config) NewLogger(fallback io.Writer) (*slog.Logger, func() error, error) {
	out := fallback
	closer := func() error { return nil }
	if c.Log.File != "" {
		f, err := os.OpenFile(c.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		out = f
		closer = f.Close
	}
	if out == nil {
		out = io.Discard
	}
	h := slog.NewTextHandler(out, &slog.HandlerOptions{Level: ParseLevel(c.Log.Level)})
	return slog.New(h), closer, nil
}
