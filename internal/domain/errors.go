package domain

import "errors"

// Validation errors are detected before any remote call is made.
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrDuplicateItem    = errors.New("item already in list")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrEmptyFeedback    = errors.New("feedback is empty")
	ErrInvalidItem      = errors.New("invalid item")
	ErrUnknownCategory  = errors.New("unknown category")
	ErrUnknownRoute     = errors.New("unknown route")
)

// Errors reported by the remote auth/document service.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountCreation    = errors.New("account creation failed")
	ErrSessionExpired     = errors.New("session expired")
	ErrNotFound           = errors.New("not found")
	ErrRemoteUnavailable  = errors.New("remote service unavailable")
)

// IsValidation reports whether err is a local validation failure.
func IsValidation(err error) bool {
	switch {
	case errors.Is(err, ErrNotAuthenticated),
		errors.Is(err, ErrDuplicateItem),
		errors.Is(err, ErrPasswordMismatch),
		errors.Is(err, ErrEmptyFeedback),
		errors.Is(err, ErrInvalidItem),
		errors.Is(err, ErrUnknownCategory),
		errors.Is(err, ErrUnknownRoute):
		return true
	}
	return false
}
