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

const totpColumns = `id, credential_id, encrypted_secret, secret_iv, secret_auth_tag, algorithm, digits,
	period, state, created_at, updated_at`

// PostgreSQLTotpRepository implements TotpSecret persistence for PostgreSQL.
type PostgreSQLTotpRepository struct {
	db *sql.DB
}

// NewPostgreSQLTotpRepository creates a new PostgreSQL TotpSecret repository.
func NewPostgreSQLTotpRepository(db *sql.DB) *PostgreSQLTotpRepository {
	return &PostgreSQLTotpRepository{db: db}
}

// Create inserts a new TotpSecret. A second secret for the same credential returns
// ErrTotpAlreadyExists.
func (p *PostgreSQLTotpRepository) Create(ctx context.Context, totp *vaultDomain.TotpSecret) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO totp_secrets (` + totpColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := querier.ExecContext(
		ctx,
		query,
		totp.ID,
		totp.CredentialID,
		totp.EncryptedSecret,
		totp.SecretIV,
		totp.SecretAuthTag,
		totp.Algorithm,
		totp.Digits,
		totp.Period,
		string(totp.State),
		totp.CreatedAt,
		totp.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return vaultDomain.ErrTotpAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create totp secret")
	}
	return nil
}

// GetByCredentialID retrieves the TotpSecret of a credential.
func (p *PostgreSQLTotpRepository) GetByCredentialID(
	ctx context.Context,
	credentialID uuid.UUID,
) (*vaultDomain.TotpSecret, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + totpColumns + ` FROM totp_secrets WHERE credential_id = $1`

	var totp vaultDomain.TotpSecret
	var state string
	err := querier.QueryRowContext(ctx, query, credentialID).Scan(
		&totp.ID,
		&totp.CredentialID,
		&totp.EncryptedSecret,
		&totp.SecretIV,
		&totp.SecretAuthTag,
		&totp.Algorithm,
		&totp.Digits,
		&totp.Period,
		&state,
		&totp.CreatedAt,
		&totp.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, vaultDomain.ErrTotpNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get totp secret")
	}
	totp.State = vaultDomain.TotpState(state)
	return &totp, nil
}

// UpdateState writes the state of a TotpSecret.
func (p *PostgreSQLTotpRepository) UpdateState(
	ctx context.Context,
	id uuid.UUID,
	state vaultDomain.TotpState,
	updatedAt time.Time,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE totp_secrets SET state = $1, updated_at = $2 WHERE id = $3`

	result, err := querier.ExecContext(ctx, query, string(state), updatedAt, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to update totp secret state")
	}
	return requireAffected(result, vaultDomain.ErrTotpNotFound)
}

// Delete removes a TotpSecret.
func (p *PostgreSQLTotpRepository) Delete(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM totp_secrets WHERE id = $1`, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete totp secret")
	}
	return requireAffected(result, vaultDomain.ErrTotpNotFound)
}
