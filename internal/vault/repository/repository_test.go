package repository

import (
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	vaultDomain "github.com/allisson/passvault/internal/vault/domain"
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

var credentialRowColumns = []string{
	"id", "user_id", "title", "type", "data_enc", "data_iv", "data_auth_tag", "password_strength",
	"compromised", "password_reused", "has_2fa", "password_last_changed", "state", "created_at", "updated_at",
}

var totpRowColumns = []string{
	"id", "credential_id", "encrypted_secret", "secret_iv", "secret_auth_tag", "algorithm", "digits",
	"period", "state", "created_at", "updated_at",
}

func newTestCredential() *vaultDomain.Credential {
	now := time.Now().UTC()
	strength := 72.5
	return &vaultDomain.Credential{
		ID:                  uuid.Must(uuid.NewV7()),
		UserID:              uuid.Must(uuid.NewV7()),
		Title:               "GitHub",
		Type:                vaultDomain.CredentialTypeLogin,
		Payload:             vaultDomain.Payload{DataEnc: "enc", DataIV: "iv", DataAuthTag: "tag"},
		PasswordStrength:    &strength,
		PasswordLastChanged: &now,
		State:               vaultDomain.CredentialActive,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

func credentialRow(id, userID any, cred *vaultDomain.Credential, strength any) []driver.Value {
	return []driver.Value{
		id, userID, cred.Title, string(cred.Type), cred.Payload.DataEnc, cred.Payload.DataIV,
		cred.Payload.DataAuthTag, strength, cred.Compromised, cred.PasswordReused, cred.Has2FA,
		*cred.PasswordLastChanged, string(cred.State), cred.CreatedAt, cred.UpdatedAt,
	}
}
