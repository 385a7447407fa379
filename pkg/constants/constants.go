// Package constants provides shared constants used throughout the confkit codebase.
// This includes timeouts, limits, file permissions, and the default values of
// the external collaborators.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests to the source
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultTimeout is the standard timeout for general operations
	DefaultTimeout = 10 * time.Second

	// SyncTimeout is the default timeout for a whole synchronization run
	SyncTimeout = 5 * time.Minute

	// StoreTimeout bounds a single store round trip when the caller sets no deadline
	StoreTimeout = 15 * time.Second

	// ShutdownTimeout is the grace period for the HTTP server and CLI
	ShutdownTimeout = 5 * time.Second

	// DefaultAutoSyncInterval is the period of background synchronization
	DefaultAutoSyncInterval = 1 * time.Hour
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-x---)
	DirPermissions = 0o750

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0o644
)

// Limit constants define various limits and capacities
const (
	// DefaultSyncWorkers processes entities sequentially
	DefaultSyncWorkers = 1

	// MaxSyncWorkers caps the sync worker pool
	MaxSyncWorkers = 32

	// MaxResponseSize caps the body read from the external source (32 MiB)
	MaxResponseSize = 32 << 20
)

// Defaults of the external collaborators
const (
	// DefaultConferenceHallURL is the public conference-hall instance
	DefaultConferenceHallURL = "https://conference-hall.io"

	// DefaultMongoURI is the local MongoDB instance
	DefaultMongoURI = "mongodb://localhost:27017/"

	// DefaultDatabase is the database name used by MongoDB and SQL stores
	DefaultDatabase = "devfest"

	// DefaultHTTPHost is the bind address of the REST server
	DefaultHTTPHost = "0.0.0.0"

	// DefaultHTTPPort is the port of the REST server
	DefaultHTTPPort = 8080

	// DefaultPathPrefix prefixes every REST route
	DefaultPathPrefix = "/api/v1"
)
