// Package emoji provides symbol constants for CLI output.
package emoji

// Symbols shared by the commands.
const (
	// Success marks a completed operation or an allowed decision.
	Success = "✓"

	// Error marks a failed operation or a denied decision.
	Error = "✗"

	// Stop marks a shutdown.
	Stop = "■"

	// Warning marks rejected or stale entities.
	Warning = "!"

	// Info marks informational lines.
	Info = "i"
)
