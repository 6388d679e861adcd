// Package apperrors defines the engine's error taxonomy. Every failure a
// caller can recover from is one of three categories: invalid input,
// missing entity, or a uniqueness conflict. Handlers translate these to
// HTTP statuses with errors.As; anything else is a 500.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validation builds a ValidationError from a format string.
func Validation(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

type NotFoundError struct {
	Resource string
	ID       uint
}

func (e *NotFoundError) Error() string {
	if e.ID == 0 {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// NotFound builds a NotFoundError for the named resource.
func NotFound(resource string, id uint) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// ConflictError marks uniqueness violations, such as creating a rule set
// whose name already exists in the jurisdiction. Seeding and apply-ruleset
// are idempotent instead of conflicting.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func Conflict(format string, args ...interface{}) error {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// HTTPStatus maps an error to the status code handlers should respond with.
func HTTPStatus(err error) int {
	switch {
	case IsValidation(err):
		return http.StatusBadRequest
	case IsNotFound(err):
		return http.StatusNotFound
	case IsConflict(err):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
