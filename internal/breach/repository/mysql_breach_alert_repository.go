package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	breachDomain "github.com/allisson/passvault/internal/breach/domain"
	"github.com/allisson/passvault/internal/database"
	apperrors "github.com/allisson/passvault/internal/errors"
)

// MySQLBreachAlertRepository implements BreachAlert persistence for MySQL using
// BINARY(16) UUIDs.
type MySQLBreachAlertRepository struct {
	db *sql.DB
}

// NewMySQLBreachAlertRepository creates a new MySQL BreachAlert repository.
func NewMySQLBreachAlertRepository(db *sql.DB) *MySQLBreachAlertRepository {
	return &MySQLBreachAlertRepository{db: db}
}

// Create inserts a new BreachAlert. The unique key on (user_id, breach_source,
// affected_email) turns a duplicate into ErrBreachAlertExists.
func (m *MySQLBreachAlertRepository) Create(ctx context.Context, alert *breachDomain.BreachAlert) error {
	querier := database.GetTx(ctx, m.db)

	id, err := alert.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal breach alert id")
	}
	userID, err := alert.UserID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal user id")
	}
	var credentialID []byte
	if alert.CredentialID != nil {
		credentialID, err = alert.CredentialID.MarshalBinary()
		if err != nil {
			return apperrors.Wrap(err, "failed to marshal credential id")
		}
	}
	affectedData, err := encodeAffectedData(alert.AffectedData)
	if err != nil {
		return err
	}

	query := `INSERT INTO breach_alerts (` + alertColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		userID,
		credentialID,
		alert.AffectedEmail,
		alert.BreachSource,
		nullDate(alert.BreachDate),
		affectedData,
		string(alert.Severity),
		string(alert.Status),
		alert.CreatedAt,
		alert.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return breachDomain.ErrBreachAlertExists
		}
		return apperrors.Wrap(err, "failed to create breach alert")
	}
	return nil
}

// GetByID retrieves a BreachAlert by ID.
func (m *MySQLBreachAlertRepository) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*breachDomain.BreachAlert, error) {
	return m.getByID(ctx, id, "")
}

// GetByIDForUpdate retrieves a BreachAlert by ID and locks its row until the
// surrounding transaction ends.
func (m *MySQLBreachAlertRepository) GetByIDForUpdate(
	ctx context.Context,
	id uuid.UUID,
) (*breachDomain.BreachAlert, error) {
	return m.getByID(ctx, id, " FOR UPDATE")
}

func (m *MySQLBreachAlertRepository) getByID(
	ctx context.Context,
	id uuid.UUID,
	lockClause string,
) (*breachDomain.BreachAlert, error) {
	querier := database.GetTx(ctx, m.db)

	binID, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal breach alert id")
	}

	query := `SELECT ` + alertColumns + ` FROM breach_alerts WHERE id = ?` + lockClause

	alert, err := scanMySQLAlert(querier.QueryRowContext(ctx, query, binID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, breachDomain.ErrBreachAlertNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get breach alert")
	}
	return alert, nil
}

// ListByUserID returns the user's alerts, newest first.
func (m *MySQLBreachAlertRepository) ListByUserID(
	ctx context.Context,
	userID uuid.UUID,
) ([]*breachDomain.BreachAlert, error) {
	querier := database.GetTx(ctx, m.db)

	binUserID, err := userID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal user id")
	}

	query := `SELECT ` + alertColumns + ` FROM breach_alerts
			  WHERE user_id = ? ORDER BY created_at DESC, id DESC`

	rows, err := querier.QueryContext(ctx, query, binUserID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list breach alerts")
	}
	defer func() { _ = rows.Close() }()

	alerts := make([]*breachDomain.BreachAlert, 0)
	for rows.Next() {
		alert, err := scanMySQLAlert(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan breach alert")
		}
		alerts = append(alerts, alert)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate breach alerts")
	}
	return alerts, nil
}

// UpdateStatus writes the status of a BreachAlert.
func (m *MySQLBreachAlertRepository) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	status breachDomain.Status,
	updatedAt time.Time,
) error {
	querier := database.GetTx(ctx, m.db)

	binID, err := id.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal breach alert id")
	}

	query := `UPDATE breach_alerts SET status = ?, updated_at = ? WHERE id = ?`

	result, err := querier.ExecContext(ctx, query, string(status), updatedAt, binID)
	if err != nil {
		return apperrors.Wrap(err, "failed to update breach alert status")
	}
	return requireAffected(result)
}

func scanMySQLAlert(row rowScanner) (*breachDomain.BreachAlert, error) {
	var alert breachDomain.BreachAlert
	var id, userID, credentialID []byte
	var breachDate sql.NullTime
	var affectedData, severity, status string

	err := row.Scan(
		&id,
		&userID,
		&credentialID,
		&alert.AffectedEmail,
		&alert.BreachSource,
		&breachDate,
		&affectedData,
		&severity,
		&status,
		&alert.CreatedAt,
		&alert.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := alert.ID.UnmarshalBinary(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal breach alert id")
	}
	if err := alert.UserID.UnmarshalBinary(userID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal user id")
	}
	if credentialID != nil {
		var cid uuid.UUID
		if err := cid.UnmarshalBinary(credentialID); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal credential id")
		}
		alert.CredentialID = &cid
	}
	if err := applyScanned(&alert, breachDate, affectedData, severity, status); err != nil {
		return nil, err
	}
	return &alert, nil
}
