// Package namer holds everything shared across the LLM provider variants:
// the factory registry, the provider error taxonomy, the vision capability
// registry, and the naming prompt templates.
package namer

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// ProviderError classifies a failed model call. Transient errors (rate
// limits, timeouts, 5xx) are worth retrying with backoff; permanent errors
// (auth, malformed request, unsupported content) are not.
type ProviderError struct {
	Provider   string
	Err        error
	Transient  bool
	RetryAfter time.Duration
}

func (e *ProviderError) Error() string {
	kind := "permanent"
	if e.Transient {
		kind = "transient"
	}
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s %s error (retry after %s): %v", e.Provider, kind, e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("%s %s error: %v", e.Provider, kind, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewTransientError wraps err as retryable. retryAfter of zero means the
// caller picks its own backoff.
func NewTransientError(provider string, err error, retryAfter time.Duration) *ProviderError {
	return &ProviderError{Provider: provider, Err: err, Transient: true, RetryAfter: retryAfter}
}

// NewPermanentError wraps err as non-retryable.
func NewPermanentError(provider string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Err: err}
}

// IsTransient reports whether err carries a retryable ProviderError.
// Unclassified errors are treated as permanent: retrying only what a
// provider explicitly marked retryable.
func IsTransient(err error) bool {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Transient
	}
	return false
}

// RetryAfterOf returns the provider-advertised retry delay, or zero.
func RetryAfterOf(err error) time.Duration {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.RetryAfter
	}
	return 0
}

// FromHTTPStatus translates a non-200 provider response into the taxonomy.
// 429 and 5xx are transient; everything else (auth failures, malformed
// requests, unknown models) is permanent.
func FromHTTPStatus(provider string, status int, body []byte, retryAfterHeader string) *ProviderError {
	baseErr := fmt.Errorf("API error (status %d): %s", status, truncate(string(body), 500))

	switch {
	case status == http.StatusTooManyRequests:
		secs := ParseRetryAfterHeader(retryAfterHeader)
		if secs <= 0 {
			secs = 60
		}
		return NewTransientError(provider, baseErr, time.Duration(secs)*time.Second)
	case status == http.StatusRequestTimeout || status >= 500:
		return NewTransientError(provider, baseErr, 0)
	default:
		return NewPermanentError(provider, baseErr)
	}
}

// ParseRetryAfterHeader parses a Retry-After header value into seconds.
// Returns 0 if the value is empty or not a valid integer.
func ParseRetryAfterHeader(val string) int {
	if val == "" {
		return 0
	}
	secs, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return secs
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
