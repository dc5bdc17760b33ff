// Package emoji provides symbol constants for CLI output.
package emoji

// Status symbols shared by every command.
const (
	// Success marks a matched student or a written file.
	Success = "✓"

	// Error marks a failed operation.
	Error = "✗"

	// Warning marks an unmatched student or a non-fatal issue.
	Warning = "!"

	// Optional marks a skipped row, such as a blank identity.
	Optional = "-"

	// Info marks informational lines such as dry-run notices.
	Info = "i"
)
