// Package errors provides standardized domain errors that express business intent
// rather than infrastructure details. Use cases return these (usually wrapped with a
// domain-specific message) and callers match them with Is.
package errors

import (
	"errors"
	"fmt"
)

// Standard domain errors that can be used across all domain modules.
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a conflict with existing data (e.g., duplicate key).
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates the input data is malformed, missing or fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates a failed authentication: wrong master password,
	// wrong recovery key or an AEAD tag that does not verify.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the caller does not own the requested resource.
	ErrForbidden = errors.New("forbidden")

	// ErrRateLimited indicates an external provider throttled the request.
	ErrRateLimited = errors.New("rate limited")

	// ErrProvider indicates an external provider failed or timed out.
	ErrProvider = errors.New("provider error")

	// ErrCrypto indicates an unexpected failure of a cryptographic primitive.
	ErrCrypto = errors.New("crypto error")
)

// New creates a new error with the given message.
// This is a convenience wrapper around errors.New for consistency.
func New(message string) error {
	return errors.New(message)
}

// Wrap wraps an error with additional context while preserving the error chain.
// Use this to add context at each layer without losing the original error type.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf is like Wrap but formats the message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's tree matches target.
// This is a convenience wrapper around errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
// This is a convenience wrapper around errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Join returns an error that wraps the given errors, discarding nils.
func Join(errs ...error) error {
	return errors.Join(errs...)
}
