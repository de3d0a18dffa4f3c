package export

import "errors"

// Export errors. They are reported as diagnostics, never returned to the
// comparison.
var (
	// ErrEmptyTool is returned when the diff tool command is blank.
	ErrEmptyTool = errors.New("diff tool command is empty")
)
