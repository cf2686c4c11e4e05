// Package domain defines the cryptographic contract of the vault: key sizes, KDF
// parameters and the envelope types that are persisted next to a user or a TOTP
// secret.
//
// Every value in this file is part of the storage format. Changing any of them makes
// already-wrapped vault keys, recovery hashes and TOTP envelopes unreadable, so they
// are constants rather than configuration.
package domain

const (
	// KeySize is the size in bytes of vault keys and wrapping keys (AES-256).
	KeySize = 32

	// NonceSize is the AES-GCM IV size in bytes (96 bits).
	NonceSize = 12

	// TagSize is the AES-GCM authentication tag size in bytes (128 bits).
	TagSize = 16

	// DefaultSaltLength is the number of random bytes behind a generated salt.
	DefaultSaltLength = 32

	// WrappingKeyIterations is the PBKDF2-HMAC-SHA256 iteration count used to derive
	// the wrapping key from the master password and the vault salt.
	WrappingKeyIterations = 100000

	// RecoveryKeyIterations is the PBKDF2-HMAC-SHA512 iteration count for recovery
	// key hashes.
	RecoveryKeyIterations = 100000

	// RecoveryKeyHashLength is the PBKDF2-HMAC-SHA512 output length in bytes.
	RecoveryKeyHashLength = 64
)

// Argon2id cost parameters for master password hashes. The encoded hash embeds them,
// so verification never needs them from elsewhere.
const (
	Argon2Algorithm   = "argon2id"
	Argon2Version     = 19
	Argon2Memory      = 64 * 1024 // KiB
	Argon2Iterations  = 3
	Argon2Parallelism = 4
	Argon2KeyLength   = 32
)
