package domain

import (
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/passvault/internal/crypto/domain"
)

// RecoveryKeyStatus is the lifecycle state of a recovery key.
type RecoveryKeyStatus string

const (
	RecoveryKeyActive  RecoveryKeyStatus = "active"
	RecoveryKeyUsed    RecoveryKeyStatus = "used"
	RecoveryKeyRevoked RecoveryKeyStatus = "revoked"
)

// RecoveryKey is the stored form of a recovery key. A user has at most one active key.
//
// The vault-key envelope fields hold the vault key wrapped under the recovery key
// itself. They are empty for keys issued before envelopes were stored.
type RecoveryKey struct {
	ID                uuid.UUID
	UserID            uuid.UUID
	KeyHash           string
	Salt              string
	Status            RecoveryKeyStatus
	EncryptedVaultKey string
	VaultKeyIV        string
	VaultKeyAuthTag   string
	CreatedAt         time.Time
	UsedAt            *time.Time
	RevokedAt         *time.Time
}

// HasVaultKeyEnvelope reports whether the vault key can be recovered from this key.
func (k *RecoveryKey) HasVaultKeyEnvelope() bool {
	return k.EncryptedVaultKey != "" && k.VaultKeyIV != "" && k.VaultKeyAuthTag != ""
}

// VaultKeyEnvelope returns the vault key wrapped under the recovery key.
func (k *RecoveryKey) VaultKeyEnvelope() *cryptoDomain.Envelope {
	return &cryptoDomain.Envelope{
		Ciphertext: k.EncryptedVaultKey,
		IV:         k.VaultKeyIV,
		AuthTag:    k.VaultKeyAuthTag,
	}
}

// SetVaultKeyEnvelope stores the vault key wrapped under the recovery key.
func (k *RecoveryKey) SetVaultKeyEnvelope(envelope *cryptoDomain.Envelope) {
	k.EncryptedVaultKey = envelope.Ciphertext
	k.VaultKeyIV = envelope.IV
	k.VaultKeyAuthTag = envelope.AuthTag
}
