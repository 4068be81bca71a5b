// Package logging builds the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// New returns a text logger writing to w at the named level. Unknown levels
// fall back to info.
func New(level string, w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

// OrDefault returns l, or slog.Default() when l is nil.
func OrDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}

// HCLog returns an hclog logger for go-plugin at the same level as New.
// Plugin chatter below warn is dropped unless debug logging is on.
func HCLog(name, level string, w io.Writer) hclog.Logger {
	hcLevel := hclog.Warn
	switch ParseLevel(level) {
	case slog.LevelDebug:
		hcLevel = hclog.Debug
	case slog.LevelError:
		hcLevel = hclog.Error
	}
	return hclog.New(&hclog.LoggerOptions{Name: name, Output: w, Level: hcLevel})
}
