package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/ShayHill/todoist-bot/internal/marker"
	"github.com/ShayHill/todoist-bot/pkg/logging"
)

// ValidationError represents a validation error with context
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	if ve.Field == "" {
		return ve.Message
	}
	return fmt.Sprintf("field '%s': %s", ve.Field, ve.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for multiple validation errors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}

	var messages []string
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// HasErrors returns true if there are any validation errors
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// Add adds a new validation error
func (ve *ValidationErrors) Add(field, message string, value ...interface{}) {
	var val interface{}
	if len(value) > 0 {
		val = value[0]
	}
	*ve = append(*ve, ValidationError{
		Field:   field,
		Value:   val,
		Message: message,
	})
}

// ValidateRequired checks if a required string field is not empty
func ValidateRequired(field, value, entityType string) error {
	if strings.TrimSpace(value) == "" {
		return ValidationError{
			Field:   field,
			Value:   value,
			Message: fmt.Sprintf("is required for %s", entityType),
		}
	}
	return nil
}

// ValidateOneOf checks if a value is in a list of allowed values
func ValidateOneOf(field, value string, allowed []string) error {
	for _, allowedValue := range allowed {
		if value == allowedValue {
			return nil
		}
	}
	return ValidationError{
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")),
	}
}

// Validate checks the whole configuration. It returns nil or ValidationErrors.
func (c BotConfig) Validate() error {
	errs := c.validate(true)
	if errs.HasErrors() {
		return errs
	}
	return nil
}

// ValidateOffline checks everything except the API token, for commands that
// never reach the network.
func (c BotConfig) ValidateOffline() error {
	errs := c.validate(false)
	if errs.HasErrors() {
		return errs
	}
	return nil
}

func (c BotConfig) validate(needToken bool) ValidationErrors {
	var errs ValidationErrors

	if needToken {
		if err := ValidateRequired("apiToken", c.APIToken, "todoist-bot (set it in config.yaml, "+EnvAPIToken+" or --api-key)"); err != nil {
			errs = append(errs, err.(ValidationError))
		}
	}

	if c.SyncURL != "" {
		if u, err := url.Parse(c.SyncURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs.Add("syncURL", "must be an absolute URL", c.SyncURL)
		}
	}

	if c.DelaySeconds < 0 {
		errs.Add("delaySeconds", "must not be negative", c.DelaySeconds)
	}
	if c.Apply.Concurrency < 0 {
		errs.Add("apply.concurrency", "must not be negative", c.Apply.Concurrency)
	}
	if c.Apply.Timeout < 0 {
		errs.Add("apply.timeout", "must not be negative", c.Apply.Timeout)
	}

	if c.Logging.Level != "" {
		if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
			errs.Add("logging.level", "must be one of: debug, info, warn, error", c.Logging.Level)
		}
	}
	if c.Logging.Format != "" {
		if err := ValidateOneOf("logging.format", c.Logging.Format, []string{string(logging.FormatText), string(logging.FormatJSON)}); err != nil {
			errs = append(errs, err.(ValidationError))
		}
	}

	errs = append(errs, ValidateMarkers(c.Markers)...)
	return errs
}

// ValidateMarkers checks that at least one marker is configured and that each
// has a known scheme, a label and a suffix.
func ValidateMarkers(markers []marker.Marker) ValidationErrors {
	var errs ValidationErrors

	if len(markers) == 0 {
		errs.Add("markers", "at least one marker is required (use --serial, --parallel or --all)")
		return errs
	}

	allowed := make([]string, 0, len(marker.Schemes))
	for _, s := range marker.Schemes {
		allowed = append(allowed, string(s))
	}

	for i, m := range markers {
		field := fmt.Sprintf("markers[%d]", i)
		if err := ValidateOneOf(field+".scheme", string(m.Scheme), allowed); err != nil {
			errs = append(errs, err.(ValidationError))
		}
		if strings.TrimSpace(m.Label) == "" {
			errs.Add(field+".label", "must not be empty", m.Label)
		}
		if strings.TrimSpace(m.Suffix) == "" {
			errs.Add(field+".suffix", "must not be empty", m.Suffix)
		}
	}
	return errs
}
