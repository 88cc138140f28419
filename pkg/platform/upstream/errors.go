// Package upstream normalizes failures of remote collaborators (sensor
// service, rules-engine bridge, model scorers) into a small taxonomy so
// callers can decide between fallback and abort without inspecting transports.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Category defines the normalized failure taxonomy.
type Category string

const (
	// CategoryTimeout indicates the collaborator took too long to respond
	CategoryTimeout Category = "timeout"

	// CategoryBadData indicates the collaborator answered with invalid/malformed data
	CategoryBadData Category = "bad_data"

	// CategoryOutage indicates the collaborator is unreachable or returned 5xx
	CategoryOutage Category = "outage"

	// CategoryRejected indicates a 4xx answer to our request
	CategoryRejected Category = "rejected"

	// CategoryContractMismatch indicates a schema version we do not understand
	CategoryContractMismatch Category = "contract_mismatch"

	// CategoryCircuitOpen indicates the call was skipped because the breaker is open
	CategoryCircuitOpen Category = "circuit_open"

	// CategoryInternal indicates an unexpected internal error
	CategoryInternal Category = "internal"
)

// Error wraps a collaborator failure with a normalized category.
type Error struct {
	Category   Category
	Source     string
	Message    string
	StatusCode int
	Underlying error
	Retryable  bool
}

func (e *Error) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("upstream %s [%s]: %s: %v", e.Source, e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("upstream %s [%s]: %s", e.Source, e.Category, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Underlying
}

// NewError creates a normalized upstream error.
func NewError(category Category, source, message string, underlying error) *Error {
	retryable := category == CategoryTimeout ||
		category == CategoryOutage

	return &Error{
		Category:   category,
		Source:     source,
		Message:    message,
		Underlying: underlying,
		Retryable:  retryable,
	}
}

// FromStatus categorizes a non-2xx HTTP answer.
func FromStatus(source string, status int) *Error {
	category := CategoryRejected
	if status >= 500 {
		category = CategoryOutage
	}
	e := NewError(category, source, fmt.Sprintf("unexpected status %d", status), nil)
	e.StatusCode = status
	return e
}

// FromTransport categorizes an error returned by an HTTP client or subprocess.
func FromTransport(source string, err error) *Error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NewError(CategoryTimeout, source, "deadline exceeded", err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return NewError(CategoryTimeout, source, "network timeout", err)
	}
	if errors.Is(err, context.Canceled) {
		return NewError(CategoryInternal, source, "request canceled", err)
	}
	return NewError(CategoryOutage, source, "request failed", err)
}

// IsRetryable checks if an error is worth retrying
func IsRetryable(err error) bool {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Retryable
	}
	return false
}

// CategoryOf extracts the category from an error
func CategoryOf(err error) Category {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Category
	}
	return CategoryInternal
}

// StatusOf returns the HTTP status carried by the error, or 0.
func StatusOf(err error) int {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.StatusCode
	}
	return 0
}
