package logger

import (
	"log/slog"
	"os"
	"strings"
)

// New returns the process-wide structured logger. JSON output on stdout;
// level comes from RELOMATE_LOG_LEVEL (debug, info, warn, error).
func New() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: levelFromEnv(),
	}))
}

// NewNop returns a logger that discards everything. Test helper.
func NewNop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("RELOMATE_LOG_LEVEL")) {
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
