package reconciler

import (
	"fmt"
	"strings"
)

// UpdateApplyError records a failed label update for one task. It never aborts
// the other updates of the cycle; the next cycle recomputes and retries.
type UpdateApplyError struct {
	TaskID   string
	TaskName string
	Labels   []string
	Err      error
}

// Error implements the error interface
func (e *UpdateApplyError) Error() string {
	return fmt.Sprintf("failed to set labels [%s] on task %s (%q): %v",
		strings.Join(e.Labels, ", "), e.TaskID, e.TaskName, e.Err)
}

// Unwrap returns the underlying writer error.
func (e *UpdateApplyError) Unwrap() error {
	return e.Err
}
