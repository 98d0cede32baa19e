// Package logging builds the zerolog loggers used by the CLI.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Format represents the output encoding for logs
type Format string

const (
	// JSONFormat outputs one JSON object per line
	JSONFormat Format = "json"
	// ConsoleFormat outputs human-readable lines
	ConsoleFormat Format = "console"
)

// Config holds logger configuration
type Config struct {
	Format    Format
	Verbosity int       // 0 = warn, 1 = info, 2+ = debug
	Output    io.Writer // optional, defaults to stderr
}

// New creates the logger for a command invocation. Diff output owns
// stdout, so logs go to stderr unless an explicit writer is given.
func New(cfg Config) (zerolog.Logger, error) {
	w := cfg.Output
	if w == nil {
		w = os.Stderr
	}
	switch cfg.Format {
	case JSONFormat:
	case ConsoleFormat, "":
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	default:
		return zerolog.Nop(), fmt.Errorf("unsupported log format: %s (valid: console, json)", cfg.Format)
	}
	return zerolog.New(w).Level(Level(cfg.Verbosity)).With().Timestamp().Logger(), nil
}

// Level maps a counted -v flag to a zerolog level.
func Level(verbosity int) zerolog.Level {
	switch {
	case verbosity >= 2:
		return zerolog.DebugLevel
	case verbosity == 1:
		return zerolog.InfoLevel
	default:
		return zerolog.WarnLevel
	}
}
