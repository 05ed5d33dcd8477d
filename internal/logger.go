package internal

import (
	"io"
	"log/slog"
	"time"
)

// parseLevel maps a LOG_LEVEL value to a slog level.
func parseLevel(level string) (slog.Level, bool) {
	switch level {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// NewLogger returns a JSON logger in prod and a text logger otherwise.
// Every record carries the service name.
func NewLogger(w io.Writer, env string, level string) *slog.Logger {
	var h slog.Handler

	l := new(slog.LevelVar)
	lvl, ok := parseLevel(level)
	if !ok {
		slog.Default().Warn("Invalid log level. Using default level: info", slog.String("value", level))
	}
	l.Set(lvl)

	switch env {
	case "prod":
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: l,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				if a.Key == slog.TimeKey {
					return slog.String("time", a.Value.Time().Format(time.RFC3339Nano))
				}
				return a
			},
		})
	default:
		h = slog.NewTextHandler(w, &slog.HandlerOptions{Level: l, AddSource: lvl == slog.LevelDebug})
	}

	return slog.New(h).With(slog.String("service", "labelbot"))
}
