package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnprocessable marks a document that has no usable content
	// representation: text extraction yielded nothing and the selected
	// model cannot accept page uploads. Per-document, skip and continue.
	ErrUnprocessable = errors.New("document has no processable content")

	// ErrVisionUnsupported marks an attempt to send page uploads to a
	// model the capability registry reports as text-only.
	ErrVisionUnsupported = errors.New("model does not support vision upload")
)

// ConfigurationError is fatal: it aborts the run before any document is
// processed.
type ConfigurationError struct {
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration error: %s: %v", e.Reason, e.Err)
	}
	return "configuration error: " + e.Reason
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// NewConfigurationError builds a ConfigurationError from a format string.
func NewConfigurationError(format string, args ...interface{}) *ConfigurationError {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

// WrapConfigurationError attaches an underlying cause to a ConfigurationError.
func WrapConfigurationError(err error, format string, args ...interface{}) *ConfigurationError {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...), Err: err}
}
