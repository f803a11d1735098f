package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Error classes. Service-level sentinels wrap one of these so handlers can
// map any failure to a status code with errors.Is.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrStorage      = errors.New("storage failure")
)

// FieldError describes a single invalid input field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is a malformed or out-of-range input
type ValidationError struct {
	Message string
	Detail  string
	Fields  []FieldError
}

// NewValidationError creates a validation error with an optional detail
func NewValidationError(message, detail string) *ValidationError {
	return &ValidationError{Message: message, Detail: detail}
}

func (e *ValidationError) Error() string {
	if e.Detail == "" {
		return e.Message
	}
	return e.Message + ": " + e.Detail
}

// IsValidation reports whether err is (or wraps) a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// NotFoundError returns a sentinel for a missing entity of the given kind
func NotFoundError(kind string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, strings.ToLower(kind))
}

// storageError keeps the underlying cause for logging while rendering a
// generic message to callers.
type storageError struct {
	op    string
	cause error
}

// StorageError wraps an unexpected persistence or filesystem failure
func StorageError(op string, cause error) error {
	if cause == nil {
		return nil
	}
	return &storageError{op: op, cause: cause}
}

func (e *storageError) Error() string {
	return "failed to " + e.op + ": " + e.cause.Error()
}

func (e *storageError) Unwrap() []error {
	return []error{ErrStorage, e.cause}
}

// Summary returns the caller-facing text for a storage failure
func (e *storageError) Summary() string {
	return "Failed to " + e.op
}

// StorageSummary extracts the caller-facing message of a storage error
func StorageSummary(err error) (string, bool) {
	var se *storageError
	if errors.As(err, &se) {
		return se.Summary(), true
	}
	return "", false
}
