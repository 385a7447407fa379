package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/agentstation/confkit/pkg/logging"
)

// NewLogger builds the CLI logger. Debug and trace output carry the caller.
func NewLogger(config *Config) zerolog.Logger {
	level := determineLogLevel(config)
	return logging.NewLoggerFromConfig(&logging.Config{
		Level:      level,
		Format:     config.LogFormat,
		Output:     config.LogOutput,
		TimeFormat: "kitchen",
		NoColor:    config.NoColor || os.Getenv("NO_COLOR") != "",
		AddCaller:  logging.ParseLevel(level) <= zerolog.DebugLevel,
		Fields:     map[string]any{"event_id": config.Source.EventID},
	})
}

// determineLogLevel picks, in order: --log-level, -q, -v, LOG_LEVEL, info.
// Unknown names fall back to info with a warning.
func determineLogLevel(config *Config) string {
	switch {
	case config.LogLevel != "":
		return normalizeLevel(config.LogLevel, "--log-level")
	case config.Quiet:
		if config.Verbose {
			fmt.Fprintln(os.Stderr, "Warning: both --verbose and --quiet specified, using --quiet")
		}
		return zerolog.WarnLevel.String()
	case config.Verbose:
		return zerolog.DebugLevel.String()
	case os.Getenv("LOG_LEVEL") != "":
		return normalizeLevel(os.Getenv("LOG_LEVEL"), "LOG_LEVEL")
	}
	return zerolog.InfoLevel.String()
}

func normalizeLevel(name, from string) string {
	level := logging.ParseLevel(name).String()
	if !strings.EqualFold(level, strings.TrimSpace(name)) && name != "warning" && name != "off" && name != "none" {
		fmt.Fprintf(os.Stderr, "Warning: invalid %s %q, using %q\n", from, name, level)
	}
	return level
}
