package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	breachDomain "github.com/allisson/passvault/internal/breach/domain"
)

func mustBinary(t *testing.T, id uuid.UUID) []byte {
	t.Helper()
	b, err := id.MarshalBinary()
	require.NoError(t, err)
	return b
}

func TestMySQLBreachAlertRepository_Create(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewMySQLBreachAlertRepository(db)
		alert := newTestAlert()

		mock.ExpectExec("INSERT INTO breach_alerts").
			WithArgs(mustBinary(t, alert.ID), mustBinary(t, alert.UserID), mustBinary(t, *alert.CredentialID),
				"alice@example.com", "Adobe", alert.BreachDate, `["Email addresses","Passwords"]`,
				"critical", "pending", alert.CreatedAt, alert.UpdatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Create(context.Background(), alert))
	})

	t.Run("Error_Duplicate", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewMySQLBreachAlertRepository(db)

		mock.ExpectExec("INSERT INTO breach_alerts").WillReturnError(&mysql.MySQLError{Number: 1062})

		err := repo.Create(context.Background(), newTestAlert())
		assert.ErrorIs(t, err, breachDomain.ErrBreachAlertExists)
	})
}

func TestMySQLBreachAlertRepository_GetByID(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewMySQLBreachAlertRepository(db)
		alert := newTestAlert()
		id := mustBinary(t, alert.ID)

		mock.ExpectQuery("SELECT (.+) FROM breach_alerts WHERE id = \\?").
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(alertRowColumns).AddRow(alertRow(
				id, mustBinary(t, alert.UserID), mustBinary(t, *alert.CredentialID), alert, alert.BreachDate,
			)...))

		got, err := repo.GetByID(context.Background(), alert.ID)
		require.NoError(t, err)
		assert.Equal(t, alert.ID, got.ID)
		assert.Equal(t, alert.UserID, got.UserID)
		require.NotNil(t, got.CredentialID)
		assert.Equal(t, *alert.CredentialID, *got.CredentialID)
		assert.Equal(t, alert.AffectedData, got.AffectedData)
	})

	t.Run("Success_NullCredential", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewMySQLBreachAlertRepository(db)
		alert := newTestAlert()
		id := mustBinary(t, alert.ID)

		mock.ExpectQuery("SELECT (.+) FROM breach_alerts").
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(alertRowColumns).AddRow(alertRow(
				id, mustBinary(t, alert.UserID), nil, alert, nil,
			)...))

		got, err := repo.GetByID(context.Background(), alert.ID)
		require.NoError(t, err)
		assert.Nil(t, got.CredentialID)
		assert.True(t, got.BreachDate.IsZero())
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewMySQLBreachAlertRepository(db)

		mock.ExpectQuery("SELECT (.+) FROM breach_alerts").WillReturnRows(sqlmock.NewRows(alertRowColumns))

		_, err := repo.GetByID(context.Background(), uuid.Must(uuid.NewV7()))
		assert.ErrorIs(t, err, breachDomain.ErrBreachAlertNotFound)
	})
}

func TestMySQLBreachAlertRepository_GetByIDForUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMySQLBreachAlertRepository(db)
	alert := newTestAlert()
	id := mustBinary(t, alert.ID)

	mock.ExpectQuery("SELECT (.+) FROM breach_alerts WHERE id = \\? FOR UPDATE").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(alertRowColumns).AddRow(alertRow(
			id, mustBinary(t, alert.UserID), mustBinary(t, *alert.CredentialID), alert, alert.BreachDate,
		)...))

	got, err := repo.GetByIDForUpdate(context.Background(), alert.ID)
	require.NoError(t, err)
	assert.Equal(t, alert.ID, got.ID)
}

func TestMySQLBreachAlertRepository_ListByUserID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMySQLBreachAlertRepository(db)
	alert := newTestAlert()
	userID := mustBinary(t, alert.UserID)

	mock.ExpectQuery("SELECT (.+) FROM breach_alerts\\s+WHERE user_id = \\?").
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows(alertRowColumns).
			AddRow(alertRow(mustBinary(t, alert.ID), userID, nil, alert, alert.BreachDate)...))

	alerts, err := repo.ListByUserID(context.Background(), alert.UserID)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, alert.ID, alerts[0].ID)
}

func TestMySQLBreachAlertRepository_UpdateStatus(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMySQLBreachAlertRepository(db)
	id := uuid.Must(uuid.NewV7())
	now := time.Now().UTC()

	mock.ExpectExec("UPDATE breach_alerts SET status").
		WithArgs("resolved", now, mustBinary(t, id)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateStatus(context.Background(), id, breachDomain.StatusResolved, now))
}
