// Package logging wraps zerolog for gradesync. A run logs one line per
// pipeline stage; stages and datasets are attached through the context so
// library code never needs a logger argument.
//
// Example usage:
//
//	ctx := logging.WithStage(context.Background(), "match")
//	logging.FromContext(ctx).Info().Int("matched", 31).Msg("Matched students")
package logging

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Nop discards everything.
var Nop = zerolog.Nop()

var defaultLogger = NewLoggerFromConfig(ConfigFromEnv())

// Default returns the process-wide logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault replaces the process-wide logger, including zerolog's global one.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
	log.Logger = logger
}

// NewNopLogger returns a fresh logger that discards everything.
func NewNopLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// Debug logs through the default logger.
func Debug() *zerolog.Event { return defaultLogger.Debug() }

// Info logs through the default logger.
func Info() *zerolog.Event { return defaultLogger.Info() }

// Warn logs through the default logger.
func Warn() *zerolog.Event { return defaultLogger.Warn() }

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
