// Package application provides the application interface for confkit commands
// and the HTTP server.
//
// Commands and the server accept this interface rather than the concrete App
// type so that tests can inject a client backed by in-memory stores.
package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/confkit"
)

// Application provides what commands need from the running program.
//
// Thread Safety: All methods must be safe for concurrent access.
type Application interface {
	// Client returns the lazily created confkit client.
	Client() (confkit.Client, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, json, yaml).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
