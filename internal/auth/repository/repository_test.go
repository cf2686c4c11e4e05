package repository

import (
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/passvault/internal/auth/domain"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

func newTestUser() *authDomain.User {
	now := time.Now().UTC()
	user := &authDomain.User{
		ID:                 uuid.Must(uuid.NewV7()),
		Email:              "alice@example.com",
		MasterPasswordHash: "$argon2id$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA",
		Salt:               "salt",
		VaultSalt:          "vault-salt",
		EncryptedVaultKey:  "ciphertext",
		VaultKeyIV:         "iv",
		VaultKeyAuthTag:    "tag",
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	user.SetKdfParams()
	return user
}

var userRowColumns = []string{
	"id", "email", "kdf_algorithm", "kdf_memory", "kdf_iterations", "kdf_parallelism",
	"master_password_hash", "salt", "vault_salt", "encrypted_vault_key", "vault_key_iv",
	"vault_key_auth_tag", "created_at", "updated_at",
}

func userRow(id any, user *authDomain.User) []driver.Value {
	return []driver.Value{
		id, user.Email, user.KdfAlgorithm, user.KdfMemory, user.KdfIterations, user.KdfParallelism,
		user.MasterPasswordHash, user.Salt, user.VaultSalt, user.EncryptedVaultKey, user.VaultKeyIV,
		user.VaultKeyAuthTag, user.CreatedAt, user.UpdatedAt,
	}
}

var recoveryKeyRowColumns = []string{
	"id", "user_id", "key_hash", "salt", "status", "encrypted_vault_key", "vault_key_iv",
	"vault_key_auth_tag", "created_at", "used_at", "revoked_at",
}
