package model

import "errors"

var (
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredentials is returned by login for both unknown identifiers
	// and wrong secrets.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrSessionMismatch    = errors.New("refresh token does not match session")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("forbidden")

	ErrEmailTaken = errors.New("email is already taken")
	ErrValidation = errors.New("validation failed")
)
