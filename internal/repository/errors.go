package repository

import "errors"

// Common repository errors
var (
	// ErrNotFound is returned when a record is not found
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEmail is returned when trying to create a user with an existing email
	ErrDuplicateEmail = errors.New("user with this email already exists")

	// ErrTokenMismatch is returned when a refresh-token compare-and-swap
	// finds a stored token different from the presented one. Exactly one
	// of several concurrent rotations with the same stale token can
	// succeed; the rest observe this error.
	ErrTokenMismatch = errors.New("stored refresh token does not match")
)
