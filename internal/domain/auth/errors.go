package auth

import (
	"errors"

	"trainhub/internal/domain/apperr"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMFARequired        = errors.New("mfa code required")
	ErrInvalidMFACode     = errors.New("invalid mfa code")
	ErrMFAUnavailable     = errors.New("mfa requires encryption key")
	ErrMFANotSetUp        = errors.New("mfa setup required")
	ErrUserNotFound       = apperr.NotFound("user")
	ErrDuplicateEmail     = apperr.Validation("email", "is already registered")
	ErrInvalidRole        = apperr.Validation("role", "is not a known role")
	ErrEmailRequired      = apperr.Validation("email", "is required")
	ErrEmployeeMissing    = apperr.Validation("employeeId", "must reference an existing employee")
)
