package domain

import (
	"github.com/allisson/passvault/internal/errors"
)

// Account errors. Login failures never reveal whether the email exists.
var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.Wrap(errors.ErrNotFound, "user not found")

	// ErrUserAlreadyExists indicates a user with the same email already exists.
	ErrUserAlreadyExists = errors.Wrap(errors.ErrConflict, "user already exists")

	// ErrInvalidCredentials indicates a wrong email or master password.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")

	// ErrInvalidRecoveryKey indicates the recovery key does not match the active key.
	ErrInvalidRecoveryKey = errors.Wrap(errors.ErrUnauthorized, "invalid recovery key")

	// ErrRecoveryKeyNotFound indicates the user has no active recovery key.
	ErrRecoveryKeyNotFound = errors.Wrap(errors.ErrNotFound, "recovery key not found")

	// ErrSessionInvalid indicates an unknown or expired session token.
	ErrSessionInvalid = errors.Wrap(errors.ErrUnauthorized, "invalid or expired session")

	// ErrSessionLimitReached indicates the session store is full and nothing could be
	// evicted.
	ErrSessionLimitReached = errors.Wrap(errors.ErrConflict, "session limit reached")
)
