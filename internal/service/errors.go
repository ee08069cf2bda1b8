package service

import "errors"

// Domain failure taxonomy. Handlers translate these into HTTP statuses;
// anything not matching one of them is treated as an internal error,
// logged server-side and returned as a generic 500.
var (
	// ErrValidation marks missing or malformed input (400).
	ErrValidation = errors.New("validation failed")

	// ErrInvalidCredentials is deliberately non-specific: a missing user
	// and a wrong password look identical to the caller (400).
	ErrInvalidCredentials = errors.New("incorrect login details")

	// ErrDuplicateEmail marks signup with an already registered email (400).
	ErrDuplicateEmail = errors.New("email already exists")

	// ErrUnauthorized marks a missing credential (401).
	ErrUnauthorized = errors.New("unauthorized, please log in")

	// ErrInvalidSession marks a credential that is present but rejected:
	// expired, tampered or superseded by rotation (403).
	ErrInvalidSession = errors.New("invalid session")

	// ErrForbidden marks an authenticated caller without permission (403).
	ErrForbidden = errors.New("you do not have permission to access this resource")

	// ErrNotFound marks a missing entity (404).
	ErrNotFound = errors.New("resource not found")
)
