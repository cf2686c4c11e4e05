// Package service provides the cryptographic primitives of the vault: master password
// hashing, vault-key envelope wrapping, recovery key hashing and TOTP secret
// encryption. Nothing in this package persists or logs key material.
package service

import (
	cryptoDomain "github.com/allisson/passvault/internal/crypto/domain"
)

// PasswordHasher hashes master passwords with a memory-hard function.
type PasswordHasher interface {
	// Hash returns a self-describing encoded hash of password using salt.
	Hash(password, salt string) (string, error)

	// Verify reports whether password matches encoded. Malformed input yields false.
	Verify(password, encoded string) bool
}

// VaultKeyManager mints vault keys and wraps/unwraps them under a key derived from the
// master password and vault salt.
type VaultKeyManager interface {
	// Generate creates a fresh random 256-bit vault key and its envelope.
	Generate(masterPassword, vaultSalt string) (*cryptoDomain.GeneratedVaultKey, error)

	// Encrypt wraps an existing base64 vault key.
	Encrypt(plainKey, masterPassword, vaultSalt string) (*cryptoDomain.Envelope, error)

	// Decrypt unwraps an envelope and returns the base64 vault key.
	Decrypt(envelope *cryptoDomain.Envelope, masterPassword, vaultSalt string) (string, error)
}

// RecoveryKeyHasher hashes and verifies recovery keys.
type RecoveryKeyHasher interface {
	Hash(recoveryKey, salt string) (string, error)
	Verify(recoveryKey, hash, salt string) bool
}

// TotpCipher encrypts TOTP secrets under a caller-supplied vault key.
type TotpCipher interface {
	Encrypt(secret, vaultKey string) (*cryptoDomain.TotpEnvelope, error)
	Decrypt(envelope *cryptoDomain.TotpEnvelope, vaultKey string) (string, error)
}
