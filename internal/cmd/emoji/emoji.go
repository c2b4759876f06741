// Package emoji provides symbol constants for CLI output.
// These symbols create a consistent visual language across all commands.
package emoji

const (
	// Success marks an entity that was written, or would be in a dry run.
	Success = "✓"

	// Error marks an entity whose write failed.
	Error = "✗"

	// Warning marks a definition that was rejected before planning.
	Warning = "!"

	// Unchanged marks an entity that already matched the remote copy.
	Unchanged = "="

	// Planned marks a write held back by a dry run.
	Planned = "~"

	// Unknown represents unknown or indeterminate states.
	Unknown = "?"
)
