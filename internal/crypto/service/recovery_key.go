package service

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"strings"

	"golang.org/x/crypto/pbkdf2"

	cryptoDomain "github.com/allisson/passvault/internal/crypto/domain"
)

// recoveryKeyAlphabet is base32 without 0, 1, I and O.
const recoveryKeyAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const (
	recoveryKeyGroups    = 4
	recoveryKeyGroupSize = 4
)

// GenerateRecoveryKey returns a random recovery key formatted as XXXX-XXXX-XXXX-XXXX.
// Each character carries 5 bits, 80 bits in total.
func GenerateRecoveryKey() (string, error) {
	raw, err := randomBytes(recoveryKeyGroups * recoveryKeyGroupSize)
	if err != nil {
		return "", err
	}
	defer cryptoDomain.Zero(raw)

	var sb strings.Builder
	for i, b := range raw {
		if i > 0 && i%recoveryKeyGroupSize == 0 {
			sb.WriteByte('-')
		}
		// 256 is a multiple of 32, so the modulo is unbiased.
		sb.WriteByte(recoveryKeyAlphabet[int(b)%len(recoveryKeyAlphabet)])
	}
	return sb.String(), nil
}

// recoveryKeyHasher implements RecoveryKeyHasher with PBKDF2-HMAC-SHA512.
type recoveryKeyHasher struct{}

// NewRecoveryKeyHasher creates a RecoveryKeyHasher.
func NewRecoveryKeyHasher() RecoveryKeyHasher {
	return &recoveryKeyHasher{}
}

// Hash returns base64(PBKDF2-HMAC-SHA512(recoveryKey, salt, 100000, 64)).
func (h *recoveryKeyHasher) Hash(recoveryKey, salt string) (string, error) {
	if recoveryKey == "" || salt == "" {
		return "", cryptoDomain.ErrMissingInput
	}
	sum := h.derive(recoveryKey, salt)
	return base64.StdEncoding.EncodeToString(sum), nil
}

// Verify recomputes the hash and compares in constant time. Invalid base64 or an empty
// input returns false.
func (h *recoveryKeyHasher) Verify(recoveryKey, hash, salt string) bool {
	if recoveryKey == "" || salt == "" {
		return false
	}
	expected, err := base64.StdEncoding.DecodeString(hash)
	if err != nil || len(expected) != cryptoDomain.RecoveryKeyHashLength {
		return false
	}
	return subtle.ConstantTimeCompare(h.derive(recoveryKey, salt), expected) == 1
}

func (h *recoveryKeyHasher) derive(recoveryKey, salt string) []byte {
	return pbkdf2.Key(
		[]byte(recoveryKey),
		[]byte(salt),
		cryptoDomain.RecoveryKeyIterations,
		cryptoDomain.RecoveryKeyHashLength,
		sha512.New,
	)
}
