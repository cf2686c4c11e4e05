package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/passvault/internal/crypto/domain"
)

func TestPasswordHasher_Hash(t *testing.T) {
	hasher := NewPasswordHasher()

	t.Run("phc encoding", func(t *testing.T) {
		encoded, err := hasher.Hash("master-password", "c2FsdA==")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$m=65536,t=3,p=4$"))
		assert.Len(t, strings.Split(encoded, "$"), 6)
	})

	t.Run("deterministic for the same salt", func(t *testing.T) {
		a, err := hasher.Hash("master-password", "salt-value")
		require.NoError(t, err)
		b, err := hasher.Hash("master-password", "salt-value")
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("empty password", func(t *testing.T) {
		_, err := hasher.Hash("", "salt")
		assert.ErrorIs(t, err, cryptoDomain.ErrHashingFailed)
	})

	t.Run("empty salt", func(t *testing.T) {
		_, err := hasher.Hash("master-password", "")
		assert.ErrorIs(t, err, cryptoDomain.ErrHashingFailed)
	})
}

func TestPasswordHasher_Verify(t *testing.T) {
	hasher := NewPasswordHasher()

	encoded, err := hasher.Hash("master-password", "salt-value")
	require.NoError(t, err)

	t.Run("correct password", func(t *testing.T) {
		assert.True(t, hasher.Verify("master-password", encoded))
	})

	t.Run("wrong password", func(t *testing.T) {
		assert.False(t, hasher.Verify("master-passwore", encoded))
	})

	t.Run("malformed hashes", func(t *testing.T) {
		for _, bad := range []string{
			"",
			"not-a-hash",
			"$bcrypt$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA",
			"$argon2id$v=18$m=65536,t=3,p=4$c2FsdA$aGFzaA",
			"$argon2id$v=19$m=0,t=3,p=4$c2FsdA$aGFzaA",
			"$argon2id$v=19$m=65536,t=3,p=4$!!!$aGFzaA",
			"$argon2id$v=19$m=65536,t=3,p=4$c2FsdA$",
		} {
			assert.False(t, hasher.Verify("master-password", bad), bad)
		}
	})
}
