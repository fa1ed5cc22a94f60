package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every specific error below wraps exactly one of them, so callers can
// match either the precise condition or its category with errors.Is.
var (
	ErrBadRequest         = errors.New("bad request")
	ErrConflict           = errors.New("conflict")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrNotFound           = errors.New("not found")
	ErrServiceUnavailable = errors.New("service unavailable")
)

var (
	ErrPasswordMismatch   = fmt.Errorf("%w: password and confirmation do not match", ErrBadRequest)
	ErrInvalidBirthDate   = fmt.Errorf("%w: birth date must be formatted as dd/mm/yyyy", ErrBadRequest)
	ErrInvalidTaxIDFormat = fmt.Errorf("%w: invalid CPF or CNPJ format", ErrBadRequest)
	ErrInvalidAddress     = fmt.Errorf("%w: invalid address", ErrBadRequest)
	ErrInvalidUserID      = fmt.Errorf("%w: invalid user id", ErrBadRequest)
	ErrEmailUndeliverable = fmt.Errorf("%w: invalid email address", ErrBadRequest)

	ErrEmailTaken = fmt.Errorf("%w: email is already in use", ErrConflict)
	ErrTaxIDTaken = fmt.Errorf("%w: CPF or CNPJ is already in use", ErrConflict)

	ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
	ErrInvalidToken       = fmt.Errorf("%w: invalid refresh token", ErrUnauthorized)
	ErrTokenRevoked       = fmt.Errorf("%w: refresh token has been revoked", ErrUnauthorized)
	ErrInvalidAccessToken = fmt.Errorf("%w: invalid or expired access token", ErrUnauthorized)

	ErrUserNotFound = fmt.Errorf("%w: user not found", ErrNotFound)

	ErrEmailVerifierUnavailable = fmt.Errorf("%w: email validation failed", ErrServiceUnavailable)
)
