package todoist

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx response from the Sync API.
type APIError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("todoist API returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("todoist API returned %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Body)
}

// IsUnauthorized reports whether err is an authentication failure.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
	}
	return false
}

// CommandError is a command rejected in the sync_status of a response.
type CommandError struct {
	Command string
	UUID    string
	Code    int
	Message string
}

// Error implements the error interface
func (e *CommandError) Error() string {
	return fmt.Sprintf("todoist rejected %s command %s: %s (code %d)", e.Command, e.UUID, e.Message, e.Code)
}
