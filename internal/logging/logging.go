// Package logging builds the zerolog logger shared by every command.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// ParseLevel maps debug|info|warn|error to a zerolog level. Empty means def.
func ParseLevel(s string, def zerolog.Level) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return def, nil
	case "debug":
		return zerolog.DebugLevel, nil
	case "info":
		return zerolog.InfoLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	}
	return def, fmt.Errorf("unknown log level %q", s)
}

// New writes to w at level. Pretty selects zerolog's console format.
func New(w io.Writer, level zerolog.Level, pretty bool) zerolog.Logger {
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// ForTerminal logs to stderr, pretty when stderr is a terminal.
func ForTerminal(level zerolog.Level) zerolog.Logger {
	return New(os.Stderr, level, isatty.IsTerminal(os.Stderr.Fd()))
}
