// Package apperr holds the error taxonomy shared by every training domain.
// Handlers translate these into HTTP statuses at the request boundary.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrValidation           = errors.New("validation failed")
	ErrNotFound             = errors.New("not found")
	ErrInvalidTransition    = errors.New("invalid transition")
	ErrAttemptLimitExceeded = errors.New("attempt limit exceeded")
	ErrDuplicateFeedback    = errors.New("feedback already submitted")
	ErrFeedbackWindowClosed = errors.New("feedback window closed")
	ErrForbidden            = errors.New("forbidden")
)

// ValidationError reports one invalid or missing field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + " " + e.Reason
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func Validation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFound builds an error such as "training not found" that matches ErrNotFound.
func NotFound(entity string) error {
	return fmt.Errorf("%s %w", entity, ErrNotFound)
}
