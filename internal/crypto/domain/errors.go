package domain

import (
	"github.com/allisson/passvault/internal/errors"
)

// Cryptographic operation errors.
//
// Verification failures never say which input was wrong: a bad master password and a
// tampered envelope both surface as ErrAuthenticationFailed.
var (
	// ErrInvalidKeySize indicates a key that is not exactly KeySize bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrInvalidEnvelope indicates an envelope field that cannot be decoded or has the
	// wrong length.
	ErrInvalidEnvelope = errors.Wrap(errors.ErrInvalidInput, "invalid envelope")

	// ErrMissingInput indicates an empty secret, key, password or salt.
	ErrMissingInput = errors.Wrap(errors.ErrInvalidInput, "missing cryptographic input")

	// ErrHashingFailed indicates the password could not be hashed because the input
	// was invalid.
	ErrHashingFailed = errors.Wrap(errors.ErrInvalidInput, "password hashing failed")

	// ErrAuthenticationFailed indicates an AEAD tag that does not verify: wrong
	// password, wrong key or tampered ciphertext.
	ErrAuthenticationFailed = errors.Wrap(errors.ErrUnauthorized, "authentication failed")

	// ErrRandomSource indicates the system CSPRNG failed.
	ErrRandomSource = errors.Wrap(errors.ErrCrypto, "random source failure")

	// ErrCipherInit indicates the AEAD cipher could not be constructed.
	ErrCipherInit = errors.Wrap(errors.ErrCrypto, "cipher initialization failed")
)
