package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an application error for transport mapping.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindForbidden    Kind = "forbidden"
	KindUnauthorized Kind = "unauthorized"
	KindNoCandidates Kind = "no_candidates"
)

// AppError is the error type returned across service boundaries.
type AppError struct {
	Kind    Kind
	Message string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	return e.Message
}

// NewValidationError creates an error for invalid input.
func NewValidationError(msg string) *AppError {
	return &AppError{Kind: KindValidation, Message: msg}
}

// NewNotFoundError creates an error for a missing entity.
func NewNotFoundError(entity, id string) *AppError {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf("%s %s not found", entity, id)}
}

// NewConflictError creates an error for a concurrent-modification conflict.
func NewConflictError(msg string) *AppError {
	return &AppError{Kind: KindConflict, Message: msg}
}

// NewForbiddenError creates an error for an action the caller may not perform.
func NewForbiddenError(msg string) *AppError {
	return &AppError{Kind: KindForbidden, Message: msg}
}

// NewUnauthorizedError creates an error for a missing or invalid identity.
func NewUnauthorizedError(msg string) *AppError {
	return &AppError{Kind: KindUnauthorized, Message: msg}
}

// NoCandidatesError is the precondition failure raised when one or more
// requested categories resolve to zero venues. Planning never starts in
// that case.
type NoCandidatesError struct {
	Categories []string
}

// Error implements the error interface.
func (e *NoCandidatesError) Error() string {
	return fmt.Sprintf("no venues found for: %s", strings.Join(e.Categories, ", "))
}

// KindOf extracts the error kind, defaulting to an internal classification.
func KindOf(err error) (Kind, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind, true
	}
	var nc *NoCandidatesError
	if errors.As(err, &nc) {
		return KindNoCandidates, true
	}
	return "", false
}
