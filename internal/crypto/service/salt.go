package service

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	cryptoDomain "github.com/allisson/passvault/internal/crypto/domain"
)

// GenerateSalt returns length cryptographically secure random bytes, base64 encoded.
// A non-positive length selects DefaultSaltLength.
func GenerateSalt(length int) (string, error) {
	if length <= 0 {
		length = cryptoDomain.DefaultSaltLength
	}

	b, err := randomBytes(length)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

func randomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrRandomSource, err)
	}
	return b, nil
}
