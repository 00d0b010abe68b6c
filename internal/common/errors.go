// Package common defines shared constants and sentinel errors used across
// the server and the CLI client. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")
	ErrRateLimited    = errors.New("rate limited")

	// Auth errors (invalid, forged or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

var (
	ErrAccountNotFound      = NewError(ErrorNotFound, "User not found")
	ErrNotInFavorites       = NewError(ErrorNotFound, "Book not in favorites")
	ErrAccountAlreadyExists = NewError(ErrorAlreadyExists, "User already exists")
	ErrInvalidCredentials   = NewError(ErrorUnauthorized, "Invalid credentials")
	ErrCredentialsRequired  = NewError(ErrorValidation, "Username and password required")
	ErrBookIDRequired       = NewError(ErrorValidation, "Book ID required")
)

// Error is a user-facing message attached to one of the category sentinels
// above. errors.Is(err, category) reports true for it.
type Error struct {
	category error
	message  string
}

// NewError returns an error in the given category carrying message.
func NewError(category error, message string) *Error {
	return &Error{category: category, message: message}
}

func (e *Error) Error() string { return e.message }

func (e *Error) Unwrap() error { return e.category }

// Message returns the user-facing part of err when it carries one.
func Message(err error) (string, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.message, true
	}
	return "", false
}
