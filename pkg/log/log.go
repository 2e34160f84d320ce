// Package log configures the process-wide structured logger.
package log

import (
	"log/slog"
	"os"
)

// Setup installs a text logger on stderr as the slog default.
// Unknown levels fall back to info.
func Setup(logLevel string) {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: ParseLevel(logLevel),
	})))
}

// ParseLevel accepts debug, info, warn and error in any case.
func ParseLevel(logLevel string) slog.Level {
	var level slog.Level

	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return slog.LevelInfo
	}

	return level
}

// WithModule returns the default logger tagged with the component name.
func WithModule(module string) *slog.Logger {
	return slog.With("module", module)
}
