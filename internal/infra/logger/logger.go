package logger

import (
	"log/slog"
	"os"
)

// New returns the process logger. Interactive use gets readable text on
// stderr (stdout is reserved for command output); dev enables debug.
func New(env string) *slog.Logger {
	level := slog.LevelInfo
	if env == "dev" {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(h)
}
