package service

import (
	"crypto/sha256"
	"encoding/base64"

	"golang.org/x/crypto/pbkdf2"

	cryptoDomain "github.com/allisson/passvault/internal/crypto/domain"
)

// vaultKeyManager wraps vault keys under PBKDF2-HMAC-SHA256(masterPassword, vaultSalt).
// Envelope fields are base64.
type vaultKeyManager struct{}

// NewVaultKeyManager creates a VaultKeyManager.
func NewVaultKeyManager() VaultKeyManager {
	return &vaultKeyManager{}
}

// Generate creates a random 256-bit vault key and wraps it.
func (m *vaultKeyManager) Generate(masterPassword, vaultSalt string) (*cryptoDomain.GeneratedVaultKey, error) {
	key, err := randomBytes(cryptoDomain.KeySize)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(key)

	plainKey := base64.StdEncoding.EncodeToString(key)

	envelope, err := m.Encrypt(plainKey, masterPassword, vaultSalt)
	if err != nil {
		return nil, err
	}

	return &cryptoDomain.GeneratedVaultKey{PlainKey: plainKey, Envelope: *envelope}, nil
}

// Encrypt wraps an existing base64 vault key under a fresh IV.
func (m *vaultKeyManager) Encrypt(plainKey, masterPassword, vaultSalt string) (*cryptoDomain.Envelope, error) {
	if plainKey == "" {
		return nil, cryptoDomain.ErrMissingInput
	}

	key, err := base64.StdEncoding.DecodeString(plainKey)
	if err != nil || len(key) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}
	defer cryptoDomain.Zero(key)

	return wrapKey(key, masterPassword, vaultSalt)
}

// Decrypt unwraps envelope. A wrong password, wrong salt or tampered field returns
// ErrAuthenticationFailed.
func (m *vaultKeyManager) Decrypt(
	envelope *cryptoDomain.Envelope,
	masterPassword, vaultSalt string,
) (string, error) {
	key, err := unwrapKey(envelope, masterPassword, vaultSalt)
	if err != nil {
		return "", err
	}
	defer cryptoDomain.Zero(key)

	return base64.StdEncoding.EncodeToString(key), nil
}

// deriveWrappingKey returns PBKDF2-HMAC-SHA256(secret, salt, 100000, 32). The salt is
// used as the bytes of its string form.
func deriveWrappingKey(secret, salt string) ([]byte, error) {
	if secret == "" || salt == "" {
		return nil, cryptoDomain.ErrMissingInput
	}
	return pbkdf2.Key(
		[]byte(secret),
		[]byte(salt),
		cryptoDomain.WrappingKeyIterations,
		cryptoDomain.KeySize,
		sha256.New,
	), nil
}

// wrapKey encrypts raw key bytes under a key derived from secret and salt and returns
// a base64 envelope.
func wrapKey(key []byte, secret, salt string) (*cryptoDomain.Envelope, error) {
	wrappingKey, err := deriveWrappingKey(secret, salt)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(wrappingKey)

	cipher, err := NewAESGCM(wrappingKey)
	if err != nil {
		return nil, err
	}

	ciphertext, iv, tag, err := cipher.Seal(key)
	if err != nil {
		return nil, err
	}

	return &cryptoDomain.Envelope{
		Ciphertext: base64.StdEncoding.EncodeToString(ciphertext),
		IV:         base64.StdEncoding.EncodeToString(iv),
		AuthTag:    base64.StdEncoding.EncodeToString(tag),
	}, nil
}

// unwrapKey is the inverse of wrapKey.
func unwrapKey(envelope *cryptoDomain.Envelope, secret, salt string) ([]byte, error) {
	if envelope == nil || envelope.Ciphertext == "" || envelope.IV == "" || envelope.AuthTag == "" {
		return nil, cryptoDomain.ErrInvalidEnvelope
	}

	ciphertext, err := base64.StdEncoding.DecodeString(envelope.Ciphertext)
	if err != nil {
		return nil, cryptoDomain.ErrInvalidEnvelope
	}
	iv, err := base64.StdEncoding.DecodeString(envelope.IV)
	if err != nil {
		return nil, cryptoDomain.ErrInvalidEnvelope
	}
	tag, err := base64.StdEncoding.DecodeString(envelope.AuthTag)
	if err != nil {
		return nil, cryptoDomain.ErrInvalidEnvelope
	}

	wrappingKey, err := deriveWrappingKey(secret, salt)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(wrappingKey)

	cipher, err := NewAESGCM(wrappingKey)
	if err != nil {
		return nil, err
	}

	return cipher.Open(ciphertext, iv, tag)
}
