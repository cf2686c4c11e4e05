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

// PostgreSQLBreachAlertRepository implements BreachAlert persistence for PostgreSQL.
type PostgreSQLBreachAlertRepository struct {
	db *sql.DB
}

// NewPostgreSQLBreachAlertRepository creates a new PostgreSQL BreachAlert repository.
func NewPostgreSQLBreachAlertRepository(db *sql.DB) *PostgreSQLBreachAlertRepository {
	return &PostgreSQLBreachAlertRepository{db: db}
}

// Create inserts a new BreachAlert. The (user_id, lower(breach_source),
// lower(affected_email)) unique index turns a duplicate into ErrBreachAlertExists.
func (p *PostgreSQLBreachAlertRepository) Create(ctx context.Context, alert *breachDomain.BreachAlert) error {
	querier := database.GetTx(ctx, p.db)

	affectedData, err := encodeAffectedData(alert.AffectedData)
	if err != nil {
		return err
	}

	var credentialID uuid.NullUUID
	if alert.CredentialID != nil {
		credentialID = uuid.NullUUID{UUID: *alert.CredentialID, Valid: true}
	}

	query := `INSERT INTO breach_alerts (` + alertColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err = querier.ExecContext(
		ctx,
		query,
		alert.ID,
		alert.UserID,
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
func (p *PostgreSQLBreachAlertRepository) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*breachDomain.BreachAlert, error) {
	return p.getByID(ctx, id, "")
}

// GetByIDForUpdate retrieves a BreachAlert by ID and locks its row until the
// surrounding transaction ends.
func (p *PostgreSQLBreachAlertRepository) GetByIDForUpdate(
	ctx context.Context,
	id uuid.UUID,
) (*breachDomain.BreachAlert, error) {
	return p.getByID(ctx, id, " FOR UPDATE")
}

func (p *PostgreSQLBreachAlertRepository) getByID(
	ctx context.Context,
	id uuid.UUID,
	lockClause string,
) (*breachDomain.BreachAlert, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + alertColumns + ` FROM breach_alerts WHERE id = $1` + lockClause

	alert, err := scanPostgreSQLAlert(querier.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, breachDomain.ErrBreachAlertNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get breach alert")
	}
	return alert, nil
}

// ListByUserID returns the user's alerts, newest first.
func (p *PostgreSQLBreachAlertRepository) ListByUserID(
	ctx context.Context,
	userID uuid.UUID,
) ([]*breachDomain.BreachAlert, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + alertColumns + ` FROM breach_alerts
			  WHERE user_id = $1 ORDER BY created_at DESC, id DESC`

	rows, err := querier.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list breach alerts")
	}
	defer func() { _ = rows.Close() }()

	alerts := make([]*breachDomain.BreachAlert, 0)
	for rows.Next() {
		alert, err := scanPostgreSQLAlert(rows)
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
func (p *PostgreSQLBreachAlertRepository) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	status breachDomain.Status,
	updatedAt time.Time,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE breach_alerts SET status = $1, updated_at = $2 WHERE id = $3`

	result, err := querier.ExecContext(ctx, query, string(status), updatedAt, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to update breach alert status")
	}
	return requireAffected(result)
}

func scanPostgreSQLAlert(row rowScanner) (*breachDomain.BreachAlert, error) {
	var alert breachDomain.BreachAlert
	var credentialID uuid.NullUUID
	var breachDate sql.NullTime
	var affectedData, severity, status string

	err := row.Scan(
		&alert.ID,
		&alert.UserID,
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

	if credentialID.Valid {
		id := credentialID.UUID
		alert.CredentialID = &id
	}
	if err := applyScanned(&alert, breachDate, affectedData, severity, status); err != nil {
		return nil, err
	}
	return &alert, nil
}
