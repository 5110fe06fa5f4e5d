// Package logs builds the loggers used by the compiler stages.
package logs

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// Field names attached to stage loggers.
const (
	CompilationField = "compilation"
	StageField       = "stage"
)

// New returns a JSON logger writing events at level or above to w.
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// NewConsole returns a human readable logger for terminals.
func NewConsole(w io.Writer, level zerolog.Level, color bool) zerolog.Logger {
	return zerolog.New(zerolog.NewConsoleWriter(func(cw *zerolog.ConsoleWriter) {
		cw.Out = w
		cw.NoColor = !color
		cw.TimeFormat = time.TimeOnly
	})).Level(level).With().Timestamp().Logger()
}

// Nop returns a logger that discards everything.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}

// Stage returns log with the stage field set.
func Stage(log zerolog.Logger, name string) zerolog.Logger {
	return log.With().Str(StageField, name).Logger()
}

// ParseLevel parses a level name. The empty string means info.
func ParseLevel(s string) (zerolog.Level, error) {
	if s == "" {
		return zerolog.InfoLevel, nil
	}
	return zerolog.ParseLevel(s)
}
