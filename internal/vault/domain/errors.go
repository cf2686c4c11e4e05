package domain

import (
	"github.com/allisson/passvault/internal/errors"
)

// Vault errors.
var (
	// ErrCredentialNotFound indicates the credential does not exist or was deleted.
	ErrCredentialNotFound = errors.Wrap(errors.ErrNotFound, "credential not found")

	// ErrCredentialAccessDenied indicates the credential belongs to another user.
	ErrCredentialAccessDenied = errors.Wrap(errors.ErrForbidden, "credential belongs to another user")

	// ErrInvalidCredentialState indicates a lifecycle transition that is not allowed
	// from the current state.
	ErrInvalidCredentialState = errors.Wrap(errors.ErrInvalidInput, "invalid credential state transition")

	// ErrTotpNotFound indicates the credential has no TOTP secret.
	ErrTotpNotFound = errors.Wrap(errors.ErrNotFound, "totp secret not found")

	// ErrTotpAlreadyExists indicates the credential already has a TOTP secret.
	ErrTotpAlreadyExists = errors.Wrap(errors.ErrConflict, "totp secret already exists")

	// ErrPlaintextTotpSecret indicates a TOTP payload offered a plaintext secret.
	ErrPlaintextTotpSecret = errors.Wrap(errors.ErrInvalidInput, "plaintext totp secrets are not accepted")
)
