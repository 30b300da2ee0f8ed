package orchestrator

import (
	"fmt"
)

// TransientFetchError wraps a failed fetch. The cycle is skipped and the loop
// continues after the usual delay.
type TransientFetchError struct {
	Err error
}

// Error implements the error interface
func (e *TransientFetchError) Error() string {
	return fmt.Sprintf("fetch failed, skipping cycle: %v", e.Err)
}

// Unwrap returns the collaborator error.
func (e *TransientFetchError) Unwrap() error {
	return e.Err
}
