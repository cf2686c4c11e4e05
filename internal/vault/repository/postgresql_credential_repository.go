// Package repository implements persistence for credentials and TOTP secrets.
//
// PostgreSQL implementations use native UUID columns, MySQL implementations use
// BINARY(16). All repositories join the ambient transaction via database.GetTx.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/passvault/internal/database"
	apperrors "github.com/allisson/passvault/internal/errors"
	vaultDomain "github.com/allisson/passvault/internal/vault/domain"
)

const credentialColumns = `id, user_id, title, type, data_enc, data_iv, data_auth_tag, password_strength,
	compromised, password_reused, has_2fa, password_last_changed, state, created_at, updated_at`

// PostgreSQLCredentialRepository implements Credential persistence for PostgreSQL.
type PostgreSQLCredentialRepository struct {
	db *sql.DB
}

// NewPostgreSQLCredentialRepository creates a new PostgreSQL Credential repository.
func NewPostgreSQLCredentialRepository(db *sql.DB) *PostgreSQLCredentialRepository {
	return &PostgreSQLCredentialRepository{db: db}
}

// Create inserts a new Credential.
func (p *PostgreSQLCredentialRepository) Create(ctx context.Context, cred *vaultDomain.Credential) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO credentials (` + credentialColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := querier.ExecContext(
		ctx,
		query,
		cred.ID,
		cred.UserID,
		cred.Title,
		string(cred.Type),
		cred.Payload.DataEnc,
		cred.Payload.DataIV,
		cred.Payload.DataAuthTag,
		cred.PasswordStrength,
		cred.Compromised,
		cred.PasswordReused,
		cred.Has2FA,
		cred.PasswordLastChanged,
		string(cred.State),
		cred.CreatedAt,
		cred.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create credential")
	}
	return nil
}

// Update persists the mutable fields of a Credential. has_2fa is owned by SetHas2FA.
func (p *PostgreSQLCredentialRepository) Update(ctx context.Context, cred *vaultDomain.Credential) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE credentials
			  SET title = $1,
				  data_enc = $2,
				  data_iv = $3,
				  data_auth_tag = $4,
				  password_strength = $5,
				  compromised = $6,
				  password_reused = $7,
				  password_last_changed = $8,
				  state = $9,
				  updated_at = $10
			  WHERE id = $11`

	result, err := querier.ExecContext(
		ctx,
		query,
		cred.Title,
		cred.Payload.DataEnc,
		cred.Payload.DataIV,
		cred.Payload.DataAuthTag,
		cred.PasswordStrength,
		cred.Compromised,
		cred.PasswordReused,
		cred.PasswordLastChanged,
		string(cred.State),
		cred.UpdatedAt,
		cred.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update credential")
	}
	return requireAffected(result, vaultDomain.ErrCredentialNotFound)
}

// GetByID retrieves a Credential by ID.
func (p *PostgreSQLCredentialRepository) GetByID(ctx context.Context, id uuid.UUID) (*vaultDomain.Credential, error) {
	querier := database.GetTx(ctx, p.db)
	query := `SELECT ` + credentialColumns + ` FROM credentials WHERE id = $1`
	return scanPostgreSQLCredential(querier.QueryRowContext(ctx, query, id))
}

// ListActiveByUserID retrieves the active credentials of a user ordered by creation.
func (p *PostgreSQLCredentialRepository) ListActiveByUserID(
	ctx context.Context,
	userID uuid.UUID,
) ([]*vaultDomain.Credential, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + credentialColumns + ` FROM credentials
			  WHERE user_id = $1 AND state = $2
			  ORDER BY created_at`

	rows, err := querier.QueryContext(ctx, query, userID, string(vaultDomain.CredentialActive))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list credentials")
	}
	defer func() { _ = rows.Close() }()

	creds := make([]*vaultDomain.Credential, 0)
	for rows.Next() {
		cred, err := scanPostgreSQLCredential(rows)
		if err != nil {
			return nil, err
		}
		creds = append(creds, cred)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate credentials")
	}
	return creds, nil
}

// CountByPayload counts active login credentials of the user with the exact payload
// tuple, excluding excludeID.
func (p *PostgreSQLCredentialRepository) CountByPayload(
	ctx context.Context,
	userID uuid.UUID,
	payload vaultDomain.Payload,
	excludeID uuid.UUID,
) (int, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT COUNT(*) FROM credentials
			  WHERE user_id = $1 AND state = $2 AND type = $3
				AND data_enc = $4 AND data_iv = $5 AND data_auth_tag = $6
				AND id <> $7`

	var n int
	err := querier.QueryRowContext(
		ctx,
		query,
		userID,
		string(vaultDomain.CredentialActive),
		string(vaultDomain.CredentialTypeLogin),
		payload.DataEnc,
		payload.DataIV,
		payload.DataAuthTag,
		excludeID,
	).Scan(&n)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count credentials by payload")
	}
	return n, nil
}

// SetReusedByPayload writes password_reused on every active login credential of the
// user with the exact payload tuple.
func (p *PostgreSQLCredentialRepository) SetReusedByPayload(
	ctx context.Context,
	userID uuid.UUID,
	payload vaultDomain.Payload,
	reused bool,
	updatedAt time.Time,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE credentials SET password_reused = $1, updated_at = $2
			  WHERE user_id = $3 AND state = $4 AND type = $5
				AND data_enc = $6 AND data_iv = $7 AND data_auth_tag = $8`

	_, err := querier.ExecContext(
		ctx,
		query,
		reused,
		updatedAt,
		userID,
		string(vaultDomain.CredentialActive),
		string(vaultDomain.CredentialTypeLogin),
		payload.DataEnc,
		payload.DataIV,
		payload.DataAuthTag,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update password reuse")
	}
	return nil
}

// SetHas2FA writes the has_2fa flag of one credential.
func (p *PostgreSQLCredentialRepository) SetHas2FA(
	ctx context.Context,
	id uuid.UUID,
	has2FA bool,
	updatedAt time.Time,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE credentials SET has_2fa = $1, updated_at = $2 WHERE id = $3`

	result, err := querier.ExecContext(ctx, query, has2FA, updatedAt, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to update has_2fa")
	}
	return requireAffected(result, vaultDomain.ErrCredentialNotFound)
}

// LockOwner locks the owning user row until the transaction ends.
func (p *PostgreSQLCredentialRepository) LockOwner(ctx context.Context, userID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	var id uuid.UUID
	err := querier.QueryRowContext(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.Wrap(apperrors.ErrNotFound, "credential owner not found")
		}
		return apperrors.Wrap(err, "failed to lock credential owner")
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPostgreSQLCredential(row rowScanner) (*vaultDomain.Credential, error) {
	var cred vaultDomain.Credential
	var credType, state string
	err := row.Scan(
		&cred.ID,
		&cred.UserID,
		&cred.Title,
		&credType,
		&cred.Payload.DataEnc,
		&cred.Payload.DataIV,
		&cred.Payload.DataAuthTag,
		&cred.PasswordStrength,
		&cred.Compromised,
		&cred.PasswordReused,
		&cred.Has2FA,
		&cred.PasswordLastChanged,
		&state,
		&cred.CreatedAt,
		&cred.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, vaultDomain.ErrCredentialNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get credential")
	}
	cred.Type = vaultDomain.CredentialType(credType)
	cred.State = vaultDomain.CredentialState(state)
	return &cred, nil
}

func requireAffected(result sql.Result, notFound error) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read affected rows")
	}
	if affected == 0 {
		return notFound
	}
	return nil
}
