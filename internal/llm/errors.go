package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"
)

// ErrRateBudgetExceeded is logged when a call has to wait for request or
// token budget. It never fails a call on its own.
var ErrRateBudgetExceeded = errors.New("reasoning rate budget exceeded")

// RateLimitError indicates a provider returned HTTP 429.
type RateLimitError struct {
	Err        error
	RetryAfter time.Duration
	Provider   string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s rate limited (retry after %s): %v", e.Provider, e.RetryAfter, e.Err)
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// NewRateLimitError creates a RateLimitError. If retryAfterSecs is 0, defaults to 60s.
func NewRateLimitError(provider string, err error, retryAfterSecs int) *RateLimitError {
	if retryAfterSecs <= 0 {
		retryAfterSecs = 60
	}
	return &RateLimitError{
		Err:        err,
		RetryAfter: time.Duration(retryAfterSecs) * time.Second,
		Provider:   provider,
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

// StatusError is a non-2xx provider response other than 429.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.StatusCode, e.Body)
}

// AuthError indicates the provider rejected the credentials. Never retried.
type AuthError struct {
	Provider string
	Err      error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s authentication failed: %v", e.Provider, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// StatusToError maps a non-2xx provider response to a typed error.
func StatusToError(provider string, resp *http.Response, body []byte) error {
	statusErr := &StatusError{Provider: provider, StatusCode: resp.StatusCode, Body: truncate(string(body), 500)}
	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		retryAfter := ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
		return NewRateLimitError(provider, statusErr, retryAfter)
	case http.StatusUnauthorized, http.StatusForbidden:
		return &AuthError{Provider: provider, Err: statusErr}
	default:
		return statusErr
	}
}

// TransientAnalysisError is returned once every retry of a transient
// failure has been used.
type TransientAnalysisError struct {
	Attempts int
	Err      error
}

func (e *TransientAnalysisError) Error() string {
	return fmt.Sprintf("reasoning call failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *TransientAnalysisError) Unwrap() error {
	return e.Err
}

// SchemaValidationError indicates a response that could not be turned into
// the expected record.
type SchemaValidationError struct {
	Err error
	Raw string
}

func (e *SchemaValidationError) Error() string {
	return fmt.Sprintf("response failed schema validation: %v", e.Err)
}

func (e *SchemaValidationError) Unwrap() error {
	return e.Err
}

// MalformedResponseError is a response that is not parseable JSON. It is
// retried; once retries run out it is reported as a SchemaValidationError.
type MalformedResponseError struct {
	Err error
	Raw string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response: %v (raw: %s)", e.Err, truncate(e.Raw, 200))
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err is worth retrying: timeouts, network
// failures, 5xx, 429 and malformed output.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return false
	}
	var schemaErr *SchemaValidationError
	if errors.As(err, &schemaErr) {
		return false
	}
	var rlErr *RateLimitError
	if errors.As(err, &rlErr) {
		return true
	}
	var malformed *MalformedResponseError
	if errors.As(err, &malformed) {
		return true
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= 500 || statusErr.StatusCode == http.StatusRequestTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var emptyErr *EmptyResponseError
	return errors.As(err, &emptyErr)
}

// EmptyResponseError indicates a 200 response with no usable content.
type EmptyResponseError struct {
	Provider string
	Reason   string
}

func (e *EmptyResponseError) Error() string {
	return fmt.Sprintf("empty response from %s: %s", e.Provider, e.Reason)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
