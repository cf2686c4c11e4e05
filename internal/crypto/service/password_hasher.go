package service

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"

	cryptoDomain "github.com/allisson/passvault/internal/crypto/domain"
)

// argon2Hasher implements PasswordHasher with Argon2id and PHC string encoding:
//
//	$argon2id$v=19$m=65536,t=3,p=4$<salt>$<hash>
//
// The salt is the caller's salt string taken as bytes, so hashes stay reproducible
// from the stored salt column.
type argon2Hasher struct {
	memory      uint32
	iterations  uint32
	parallelism uint8
	keyLength   uint32
}

// NewPasswordHasher creates a PasswordHasher with the fixed Argon2id cost parameters.
func NewPasswordHasher() PasswordHasher {
	return &argon2Hasher{
		memory:      cryptoDomain.Argon2Memory,
		iterations:  cryptoDomain.Argon2Iterations,
		parallelism: cryptoDomain.Argon2Parallelism,
		keyLength:   cryptoDomain.Argon2KeyLength,
	}
}

// Hash hashes password with salt. Empty password or salt returns ErrHashingFailed.
func (h *argon2Hasher) Hash(password, salt string) (string, error) {
	if password == "" || salt == "" {
		return "", cryptoDomain.ErrHashingFailed
	}

	key := argon2.IDKey([]byte(password), []byte(salt), h.iterations, h.memory, h.parallelism, h.keyLength)

	return fmt.Sprintf(
		"$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		cryptoDomain.Argon2Algorithm,
		argon2.Version,
		h.memory,
		h.iterations,
		h.parallelism,
		base64.RawStdEncoding.EncodeToString([]byte(salt)),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify recomputes the hash with the parameters embedded in encoded and compares in
// constant time. Any parse failure returns false.
func (h *argon2Hasher) Verify(password, encoded string) bool {
	params, salt, expected, err := decodeArgon2Hash(encoded)
	if err != nil {
		return false
	}

	actual := argon2.IDKey(
		[]byte(password),
		salt,
		params.iterations,
		params.memory,
		params.parallelism,
		uint32(len(expected)),
	)

	return subtle.ConstantTimeCompare(actual, expected) == 1
}

func decodeArgon2Hash(encoded string) (*argon2Hasher, []byte, []byte, error) {
	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, hash
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != cryptoDomain.Argon2Algorithm {
		return nil, nil, nil, cryptoDomain.ErrInvalidEnvelope
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return nil, nil, nil, cryptoDomain.ErrInvalidEnvelope
	}

	params := &argon2Hasher{}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.memory, &params.iterations, &params.parallelism); err != nil {
		return nil, nil, nil, cryptoDomain.ErrInvalidEnvelope
	}
	if params.memory == 0 || params.iterations == 0 || params.parallelism == 0 {
		return nil, nil, nil, cryptoDomain.ErrInvalidEnvelope
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, nil, nil, cryptoDomain.ErrInvalidEnvelope
	}

	hash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(hash) == 0 {
		return nil, nil, nil, cryptoDomain.ErrInvalidEnvelope
	}

	return params, salt, hash, nil
}
