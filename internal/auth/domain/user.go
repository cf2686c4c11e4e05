// Package domain defines the account side of the vault: users, their wrapped vault
// keys, recovery keys and process-local sessions.
//
// None of these types ever carries a plaintext vault key or master password. The
// plaintext vault key only travels in use case outputs returned to the caller.
package domain

import (
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/passvault/internal/crypto/domain"
)

// User is an account with its master password hash and wrapped vault key.
type User struct {
	ID                 uuid.UUID
	Email              string
	KdfAlgorithm       string
	KdfMemory          int
	KdfIterations      int
	KdfParallelism     int
	MasterPasswordHash string
	Salt               string // argon2id salt for MasterPasswordHash
	VaultSalt          string // PBKDF2 salt for the wrapping key
	EncryptedVaultKey  string
	VaultKeyIV         string
	VaultKeyAuthTag    string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// VaultKeyEnvelope returns the stored vault-key envelope.
func (u *User) VaultKeyEnvelope() *cryptoDomain.Envelope {
	return &cryptoDomain.Envelope{
		Ciphertext: u.EncryptedVaultKey,
		IV:         u.VaultKeyIV,
		AuthTag:    u.VaultKeyAuthTag,
	}
}

// SetVaultKeyEnvelope replaces the stored vault-key envelope.
func (u *User) SetVaultKeyEnvelope(envelope *cryptoDomain.Envelope) {
	u.EncryptedVaultKey = envelope.Ciphertext
	u.VaultKeyIV = envelope.IV
	u.VaultKeyAuthTag = envelope.AuthTag
}

// SetKdfParams records the argon2id parameters used for MasterPasswordHash.
func (u *User) SetKdfParams() {
	u.KdfAlgorithm = cryptoDomain.Argon2Algorithm
	u.KdfMemory = cryptoDomain.Argon2Memory
	u.KdfIterations = cryptoDomain.Argon2Iterations
	u.KdfParallelism = cryptoDomain.Argon2Parallelism
}
