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

// MySQLTotpRepository implements TotpSecret persistence for MySQL using BINARY(16)
// UUIDs.
type MySQLTotpRepository struct {
	db *sql.DB
}

// NewMySQLTotpRepository creates a new MySQL TotpSecret repository.
func NewMySQLTotpRepository(db *sql.DB) *MySQLTotpRepository {
	return &MySQLTotpRepository{db: db}
}

// Create inserts a new TotpSecret. A second secret for the same credential returns
// ErrTotpAlreadyExists.
func (m *MySQLTotpRepository) Create(ctx context.Context, totp *vaultDomain.TotpSecret) error {
	querier := database.GetTx(ctx, m.db)

	id, err := totp.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal totp id")
	}
	credentialID, err := totp.CredentialID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal credential id")
	}

	query := `INSERT INTO totp_secrets (` + totpColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		credentialID,
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
func (m *MySQLTotpRepository) GetByCredentialID(
	ctx context.Context,
	credentialID uuid.UUID,
) (*vaultDomain.TotpSecret, error) {
	querier := database.GetTx(ctx, m.db)

	cid, err := credentialID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal credential id")
	}

	query := `SELECT ` + totpColumns + ` FROM totp_secrets WHERE credential_id = ?`

	var totp vaultDomain.TotpSecret
	var id, credID []byte
	var state string
	err = querier.QueryRowContext(ctx, query, cid).Scan(
		&id,
		&credID,
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

	if err := totp.ID.UnmarshalBinary(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal totp id")
	}
	if err := totp.CredentialID.UnmarshalBinary(credID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal credential id")
	}
	totp.State = vaultDomain.TotpState(state)
	return &totp, nil
}

// UpdateState writes the state of a TotpSecret.
func (m *MySQLTotpRepository) UpdateState(
	ctx context.Context,
	id uuid.UUID,
	state vaultDomain.TotpState,
	updatedAt time.Time,
) error {
	querier := database.GetTx(ctx, m.db)

	binID, err := id.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal totp id")
	}

	query := `UPDATE totp_secrets SET state = ?, updated_at = ? WHERE id = ?`

	result, err := querier.ExecContext(ctx, query, string(state), updatedAt, binID)
	if err != nil {
		return apperrors.Wrap(err, "failed to update totp secret state")
	}
	return requireAffected(result, vaultDomain.ErrTotpNotFound)
}

// Delete removes a TotpSecret.
func (m *MySQLTotpRepository) Delete(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	binID, err := id.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal totp id")
	}

	result, err := querier.ExecContext(ctx, `DELETE FROM totp_secrets WHERE id = ?`, binID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete totp secret")
	}
	return requireAffected(result, vaultDomain.ErrTotpNotFound)
}
