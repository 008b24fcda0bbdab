package logging

import (
	"log/slog"
	"os"
	"strings"
)

// New initialises an slog.Logger with the provided level and format.
func New(levelStr, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(levelStr)}
	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}

func parseLevel(levelStr string) slog.Leveler {
	switch strings.ToLower(levelStr) {
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
