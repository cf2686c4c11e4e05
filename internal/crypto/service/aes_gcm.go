package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	cryptoDomain "github.com/allisson/passvault/internal/crypto/domain"
)

// AESGCMCipher implements AEAD using AES-256-GCM.
//
// Security properties:
//   - 256-bit key size
//   - 12-byte nonce, randomly generated per encryption
//   - 16-byte authentication tag, returned separately from the ciphertext
//
// Thread safety:
//
//	The cipher instance is stateless and safe for concurrent use from multiple
//	goroutines. Each encryption operation generates a unique nonce independently.
//
// Example usage:
//
//	cipher, err := NewAESGCM(key)
//	if err != nil {
//	    return err
//	}
//
//	ciphertext, nonce, tag, err := cipher.Seal(plaintext)
//	plaintext, err := cipher.Open(ciphertext, nonce, tag)
type AESGCMCipher struct {
	aead cipher.AEAD
}

// NewAESGCM creates a new AES-256-GCM cipher instance.
//
// The key must be exactly 32 bytes. Returns ErrInvalidKeySize otherwise.
func NewAESGCM(key []byte) (*AESGCMCipher, error) {
	if len(key) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrCipherInit, err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrCipherInit, err)
	}

	return &AESGCMCipher{aead: aead}, nil
}

// Seal encrypts plaintext under a fresh random 12-byte nonce.
//
// GCM appends the tag to the ciphertext; Seal splits it off so that ciphertext, nonce
// and tag can be stored as three fields.
func (a *AESGCMCipher) Seal(plaintext []byte) (ciphertext, nonce, tag []byte, err error) {
	nonce = make([]byte, a.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %v", cryptoDomain.ErrRandomSource, err)
	}

	sealed := a.aead.Seal(nil, nonce, plaintext, nil)
	split := len(sealed) - a.aead.Overhead()

	return sealed[:split], nonce, sealed[split:], nil
}

// Open verifies the tag and decrypts ciphertext.
//
// Returns ErrAuthenticationFailed whenever the envelope does not open, including a
// nonce or tag of the wrong length. No plaintext is returned on failure.
func (a *AESGCMCipher) Open(ciphertext, nonce, tag []byte) ([]byte, error) {
	if len(nonce) != a.aead.NonceSize() || len(tag) != a.aead.Overhead() {
		return nil, cryptoDomain.ErrAuthenticationFailed
	}

	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := a.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, cryptoDomain.ErrAuthenticationFailed
	}
	return plaintext, nil
}
