// Package logging exposes the small Logf interface the services are
// written against, backed by log/slog.
package logging

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

type Logger interface {
	Logf(format string, v ...any)
}

type componentLogger struct {
	l *slog.Logger
}

func (c *componentLogger) Logf(format string, v ...any) {
	c.l.Info(fmt.Sprintf(format, v...))
}

// For returns a logger tagged with the given component name.
func For(component string) Logger {
	return &componentLogger{l: slog.Default().With("component", component)}
}

// Init installs the process-wide slog handler. Unknown levels fall back
// to info.
func Init(level string) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
