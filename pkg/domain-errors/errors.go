// Package domainerrors defines the coded error type shared by services and
// transports. Services return these so handlers and the CLI can translate a
// failure into an HTTP status or exit code without string matching.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error.
type Code string

const (
	// CodeContractViolation means a payload crossing a boundary is missing
	// required fields or carries mistyped ones.
	CodeContractViolation Code = "contract_violation"

	// CodeUpstreamUnavailable means an optional collaborator (rules engine,
	// live sensors) failed. Normally recovered locally and never surfaced.
	CodeUpstreamUnavailable Code = "upstream_unavailable"

	// CodeUpstreamMandatory means a required collaborator (model scorer,
	// eligibility) failed and the pipeline cannot produce a decision.
	CodeUpstreamMandatory Code = "upstream_mandatory_failure"

	CodeBadRequest Code = "bad_request"
	CodeValidation Code = "validation_error"
	CodeNotFound   Code = "not_found"
	CodeInternal   Code = "internal_error"
)

// Error is a coded domain error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a domain error without an underlying cause.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Err: err}
}

// HasCode reports whether any error in the chain carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	for err != nil {
		if errors.As(err, &de) {
			if de.Code == code {
				return true
			}
			err = de.Err
			continue
		}
		return false
	}
	return false
}

// CodeOf returns the outermost domain code, or CodeInternal for foreign errors.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}
