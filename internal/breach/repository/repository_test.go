package repository

import (
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	breachDomain "github.com/allisson/passvault/internal/breach/domain"
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

var alertRowColumns = []string{
	"id", "user_id", "credential_id", "affected_email", "breach_source", "breach_date", "affected_data",
	"severity", "status", "created_at", "updated_at",
}

func newTestAlert() *breachDomain.BreachAlert {
	now := time.Now().UTC()
	credentialID := uuid.Must(uuid.NewV7())
	return &breachDomain.BreachAlert{
		ID:            uuid.Must(uuid.NewV7()),
		UserID:        uuid.Must(uuid.NewV7()),
		CredentialID:  &credentialID,
		AffectedEmail: "alice@example.com",
		BreachSource:  "Adobe",
		BreachDate:    time.Date(2013, 10, 4, 0, 0, 0, 0, time.UTC),
		AffectedData:  []string{"Email addresses", "Passwords"},
		Severity:      breachDomain.SeverityCritical,
		Status:        breachDomain.StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func alertRow(id, userID, credentialID any, alert *breachDomain.BreachAlert, breachDate any) []driver.Value {
	return []driver.Value{
		id, userID, credentialID, alert.AffectedEmail, alert.BreachSource, breachDate,
		`["Email addresses","Passwords"]`, string(alert.Severity), string(alert.Status),
		alert.CreatedAt, alert.UpdatedAt,
	}
}

func TestAffectedDataCodec(t *testing.T) {
	encoded, err := encodeAffectedData(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", encoded)

	decoded, err := decodeAffectedData("")
	require.NoError(t, err)
	assert.Empty(t, decoded)

	_, err = decodeAffectedData("{broken")
	assert.Error(t, err)
}
