package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	breachDomain "github.com/allisson/passvault/internal/breach/domain"
)

func TestPostgreSQLBreachAlertRepository_Create(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLBreachAlertRepository(db)
		alert := newTestAlert()

		mock.ExpectExec("INSERT INTO breach_alerts").
			WithArgs(alert.ID, alert.UserID, alert.CredentialID.String(), "alice@example.com", "Adobe",
				alert.BreachDate, `["Email addresses","Passwords"]`, "critical", "pending",
				alert.CreatedAt, alert.UpdatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Create(context.Background(), alert))
	})

	t.Run("Success_WithoutCredentialOrDate", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLBreachAlertRepository(db)
		alert := newTestAlert()
		alert.CredentialID = nil
		alert.BreachDate = time.Time{}
		alert.AffectedData = nil

		mock.ExpectExec("INSERT INTO breach_alerts").
			WithArgs(alert.ID, alert.UserID, nil, "alice@example.com", "Adobe",
				nil, "[]", "critical", "pending", alert.CreatedAt, alert.UpdatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Create(context.Background(), alert))
	})

	t.Run("Error_Duplicate", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLBreachAlertRepository(db)

		mock.ExpectExec("INSERT INTO breach_alerts").WillReturnError(&pq.Error{Code: "23505"})

		err := repo.Create(context.Background(), newTestAlert())
		assert.ErrorIs(t, err, breachDomain.ErrBreachAlertExists)
	})

	t.Run("Error_Database", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLBreachAlertRepository(db)

		mock.ExpectExec("INSERT INTO breach_alerts").WillReturnError(errors.New("connection reset"))

		err := repo.Create(context.Background(), newTestAlert())
		assert.Error(t, err)
		assert.NotErrorIs(t, err, breachDomain.ErrBreachAlertExists)
	})
}

func TestPostgreSQLBreachAlertRepository_GetByIDForUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgreSQLBreachAlertRepository(db)
	alert := newTestAlert()

	mock.ExpectQuery("SELECT (.+) FROM breach_alerts WHERE id = \\$1 FOR UPDATE").
		WithArgs(alert.ID).
		WillReturnRows(sqlmock.NewRows(alertRowColumns).AddRow(alertRow(
			alert.ID.String(), alert.UserID.String(), alert.CredentialID.String(), alert, alert.BreachDate,
		)...))

	got, err := repo.GetByIDForUpdate(context.Background(), alert.ID)
	require.NoError(t, err)
	assert.Equal(t, alert.ID, got.ID)
	assert.Equal(t, breachDomain.StatusPending, got.Status)
}

func TestPostgreSQLBreachAlertRepository_GetByID(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLBreachAlertRepository(db)
		alert := newTestAlert()

		mock.ExpectQuery("SELECT (.+) FROM breach_alerts WHERE id = \\$1").
			WithArgs(alert.ID).
			WillReturnRows(sqlmock.NewRows(alertRowColumns).AddRow(alertRow(
				alert.ID.String(), alert.UserID.String(), alert.CredentialID.String(), alert, alert.BreachDate,
			)...))

		got, err := repo.GetByID(context.Background(), alert.ID)
		require.NoError(t, err)
		assert.Equal(t, alert.ID, got.ID)
		assert.Equal(t, alert.UserID, got.UserID)
		require.NotNil(t, got.CredentialID)
		assert.Equal(t, *alert.CredentialID, *got.CredentialID)
		assert.Equal(t, alert.BreachDate, got.BreachDate)
		assert.Equal(t, alert.AffectedData, got.AffectedData)
		assert.Equal(t, breachDomain.SeverityCritical, got.Severity)
		assert.Equal(t, breachDomain.StatusPending, got.Status)
	})

	t.Run("Success_NullColumns", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLBreachAlertRepository(db)
		alert := newTestAlert()

		mock.ExpectQuery("SELECT (.+) FROM breach_alerts").
			WithArgs(alert.ID).
			WillReturnRows(sqlmock.NewRows(alertRowColumns).AddRow(alertRow(
				alert.ID.String(), alert.UserID.String(), nil, alert, nil,
			)...))

		got, err := repo.GetByID(context.Background(), alert.ID)
		require.NoError(t, err)
		assert.Nil(t, got.CredentialID)
		assert.True(t, got.BreachDate.IsZero())
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLBreachAlertRepository(db)

		mock.ExpectQuery("SELECT (.+) FROM breach_alerts").
			WillReturnRows(sqlmock.NewRows(alertRowColumns))

		_, err := repo.GetByID(context.Background(), uuid.Must(uuid.NewV7()))
		assert.ErrorIs(t, err, breachDomain.ErrBreachAlertNotFound)
	})
}

func TestPostgreSQLBreachAlertRepository_ListByUserID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgreSQLBreachAlertRepository(db)
	first, second := newTestAlert(), newTestAlert()
	second.UserID = first.UserID

	mock.ExpectQuery("SELECT (.+) FROM breach_alerts\\s+WHERE user_id = \\$1 ORDER BY created_at DESC").
		WithArgs(first.UserID).
		WillReturnRows(sqlmock.NewRows(alertRowColumns).
			AddRow(alertRow(first.ID.String(), first.UserID.String(), nil, first, first.BreachDate)...).
			AddRow(alertRow(second.ID.String(), second.UserID.String(), nil, second, nil)...))

	alerts, err := repo.ListByUserID(context.Background(), first.UserID)
	require.NoError(t, err)
	require.Len(t, alerts, 2)
	assert.Equal(t, first.ID, alerts[0].ID)
	assert.Equal(t, second.ID, alerts[1].ID)
}

func TestPostgreSQLBreachAlertRepository_UpdateStatus(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLBreachAlertRepository(db)
		id := uuid.Must(uuid.NewV7())
		now := time.Now().UTC()

		mock.ExpectExec("UPDATE breach_alerts SET status").
			WithArgs("dismissed", now, id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.UpdateStatus(context.Background(), id, breachDomain.StatusDismissed, now))
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLBreachAlertRepository(db)

		mock.ExpectExec("UPDATE breach_alerts SET status").WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateStatus(context.Background(), uuid.Must(uuid.NewV7()), breachDomain.StatusResolved, time.Now())
		assert.ErrorIs(t, err, breachDomain.ErrBreachAlertNotFound)
	})
}
