package service

import (
	"encoding/base64"
	"encoding/hex"

	cryptoDomain "github.com/allisson/passvault/internal/crypto/domain"
)

// totpCipher encrypts TOTP secrets directly under the vault key. Envelope fields are
// lowercase hex.
type totpCipher struct{}

// NewTotpCipher creates a TotpCipher.
func NewTotpCipher() TotpCipher {
	return &totpCipher{}
}

// Encrypt seals secret under the base64 vault key.
func (c *totpCipher) Encrypt(secret, vaultKey string) (*cryptoDomain.TotpEnvelope, error) {
	if secret == "" {
		return nil, cryptoDomain.ErrMissingInput
	}

	cipher, key, err := c.cipher(vaultKey)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(key)

	ciphertext, iv, tag, err := cipher.Seal([]byte(secret))
	if err != nil {
		return nil, err
	}

	return &cryptoDomain.TotpEnvelope{
		IV:              hex.EncodeToString(iv),
		EncryptedSecret: hex.EncodeToString(ciphertext),
		AuthTag:         hex.EncodeToString(tag),
	}, nil
}

// Decrypt opens envelope. A wrong key or tampered field returns ErrAuthenticationFailed.
func (c *totpCipher) Decrypt(envelope *cryptoDomain.TotpEnvelope, vaultKey string) (string, error) {
	if envelope == nil || envelope.EncryptedSecret == "" || envelope.IV == "" || envelope.AuthTag == "" {
		return "", cryptoDomain.ErrInvalidEnvelope
	}

	iv, err := hex.DecodeString(envelope.IV)
	if err != nil {
		return "", cryptoDomain.ErrInvalidEnvelope
	}
	ciphertext, err := hex.DecodeString(envelope.EncryptedSecret)
	if err != nil {
		return "", cryptoDomain.ErrInvalidEnvelope
	}
	tag, err := hex.DecodeString(envelope.AuthTag)
	if err != nil {
		return "", cryptoDomain.ErrInvalidEnvelope
	}

	cipher, key, err := c.cipher(vaultKey)
	if err != nil {
		return "", err
	}
	defer cryptoDomain.Zero(key)

	plaintext, err := cipher.Open(ciphertext, iv, tag)
	if err != nil {
		return "", err
	}
	defer cryptoDomain.Zero(plaintext)

	return string(plaintext), nil
}

func (c *totpCipher) cipher(vaultKey string) (*AESGCMCipher, []byte, error) {
	if vaultKey == "" {
		return nil, nil, cryptoDomain.ErrMissingInput
	}
	key, err := base64.StdEncoding.DecodeString(vaultKey)
	if err != nil || len(key) != cryptoDomain.KeySize {
		return nil, nil, cryptoDomain.ErrInvalidKeySize
	}
	cipher, err := NewAESGCM(key)
	if err != nil {
		return nil, nil, err
	}
	return cipher, key, nil
}
