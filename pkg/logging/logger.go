// Package logging wraps zerolog for confkit. The package logger writes
// console output on terminals and JSON lines otherwise, and loggers carried
// in a context.Context pick up sync and request scoped fields.
//
//	ctx = logging.WithOperation(ctx, "sync")
//	logging.FromContext(ctx).Info().Int("sessions", n).Msg("Synchronized")
package logging

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var defaultLogger = NewLoggerFromConfig(envConfig())

// Default returns the package logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault replaces the package logger and the zerolog global logger.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
	log.Logger = logger
}

// Debug starts a debug event on the package logger.
func Debug() *zerolog.Event { return defaultLogger.Debug() }

// Info starts an info event on the package logger.
func Info() *zerolog.Event { return defaultLogger.Info() }

// Warn starts a warning event on the package logger.
func Warn() *zerolog.Event { return defaultLogger.Warn() }

// Error starts an error event on the package logger.
func Error() *zerolog.Event { return defaultLogger.Error() }

// Err starts an event carrying err, at error level when err is not nil.
func Err(err error) *zerolog.Event { return defaultLogger.Err(err) }

// envConfig reads the LOG_* environment. DEBUG alone turns on debug output.
func envConfig() *Config {
	cfg := DefaultConfig()
	cfg.Level = envOr("LOG_LEVEL", cfg.Level)
	if os.Getenv("LOG_LEVEL") == "" && os.Getenv("DEBUG") != "" {
		cfg.Level = "debug"
	}
	cfg.Format = envOr("LOG_FORMAT", cfg.Format)
	cfg.Output = envOr("LOG_OUTPUT", cfg.Output)
	cfg.TimeFormat = envOr("LOG_TIME_FORMAT", cfg.TimeFormat)
	cfg.AddCaller = os.Getenv("LOG_CALLER") == "true"
	cfg.Fields = parseFields(os.Getenv("LOG_FIELDS"))
	return cfg
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
