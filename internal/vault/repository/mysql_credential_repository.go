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

// MySQLCredentialRepository implements Credential persistence for MySQL using
// BINARY(16) UUIDs.
type MySQLCredentialRepository struct {
	db *sql.DB
}

// NewMySQLCredentialRepository creates a new MySQL Credential repository.
func NewMySQLCredentialRepository(db *sql.DB) *MySQLCredentialRepository {
	return &MySQLCredentialRepository{db: db}
}

// Create inserts a new Credential.
func (m *MySQLCredentialRepository) Create(ctx context.Context, cred *vaultDomain.Credential) error {
	querier := database.GetTx(ctx, m.db)

	id, err := cred.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal credential id")
	}
	userID, err := cred.UserID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal user id")
	}

	query := `INSERT INTO credentials (` + credentialColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		userID,
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
func (m *MySQLCredentialRepository) Update(ctx context.Context, cred *vaultDomain.Credential) error {
	querier := database.GetTx(ctx, m.db)

	id, err := cred.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal credential id")
	}

	query := `UPDATE credentials
			  SET title = ?,
				  data_enc = ?,
				  data_iv = ?,
				  data_auth_tag = ?,
				  password_strength = ?,
				  compromised = ?,
				  password_reused = ?,
				  password_last_changed = ?,
				  state = ?,
				  updated_at = ?
			  WHERE id = ?`

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
		id,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update credential")
	}
	return requireAffected(result, vaultDomain.ErrCredentialNotFound)
}

// GetByID retrieves a Credential by ID.
func (m *MySQLCredentialRepository) GetByID(ctx context.Context, id uuid.UUID) (*vaultDomain.Credential, error) {
	querier := database.GetTx(ctx, m.db)

	binID, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal credential id")
	}

	query := `SELECT ` + credentialColumns + ` FROM credentials WHERE id = ?`
	return scanMySQLCredential(querier.QueryRowContext(ctx, query, binID))
}

// ListActiveByUserID retrieves the active credentials of a user ordered by creation.
func (m *MySQLCredentialRepository) ListActiveByUserID(
	ctx context.Context,
	userID uuid.UUID,
) ([]*vaultDomain.Credential, error) {
	querier := database.GetTx(ctx, m.db)

	uid, err := userID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal user id")
	}

	query := `SELECT ` + credentialColumns + ` FROM credentials
			  WHERE user_id = ? AND state = ?
			  ORDER BY created_at`

	rows, err := querier.QueryContext(ctx, query, uid, string(vaultDomain.CredentialActive))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list credentials")
	}
	defer func() { _ = rows.Close() }()

	creds := make([]*vaultDomain.Credential, 0)
	for rows.Next() {
		cred, err := scanMySQLCredential(rows)
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
func (m *MySQLCredentialRepository) CountByPayload(
	ctx context.Context,
	userID uuid.UUID,
	payload vaultDomain.Payload,
	excludeID uuid.UUID,
) (int, error) {
	querier := database.GetTx(ctx, m.db)

	uid, err := userID.MarshalBinary()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to marshal user id")
	}
	exclude, err := excludeID.MarshalBinary()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to marshal credential id")
	}

	query := `SELECT COUNT(*) FROM credentials
			  WHERE user_id = ? AND state = ? AND type = ?
				AND data_enc = ? AND data_iv = ? AND data_auth_tag = ?
				AND id <> ?`

	var n int
	err = querier.QueryRowContext(
		ctx,
		query,
		uid,
		string(vaultDomain.CredentialActive),
		string(vaultDomain.CredentialTypeLogin),
		payload.DataEnc,
		payload.DataIV,
		payload.DataAuthTag,
		exclude,
	).Scan(&n)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count credentials by payload")
	}
	return n, nil
}

// SetReusedByPayload writes password_reused on every active login credential of the
// user with the exact payload tuple.
func (m *MySQLCredentialRepository) SetReusedByPayload(
	ctx context.Context,
	userID uuid.UUID,
	payload vaultDomain.Payload,
	reused bool,
	updatedAt time.Time,
) error {
	querier := database.GetTx(ctx, m.db)

	uid, err := userID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal user id")
	}

	query := `UPDATE credentials SET password_reused = ?, updated_at = ?
			  WHERE user_id = ? AND state = ? AND type = ?
				AND data_enc = ? AND data_iv = ? AND data_auth_tag = ?`

	_, err = querier.ExecContext(
		ctx,
		query,
		reused,
		updatedAt,
		uid,
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
func (m *MySQLCredentialRepository) SetHas2FA(
	ctx context.Context,
	id uuid.UUID,
	has2FA bool,
	updatedAt time.Time,
) error {
	querier := database.GetTx(ctx, m.db)

	binID, err := id.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal credential id")
	}

	query := `UPDATE credentials SET has_2fa = ?, updated_at = ? WHERE id = ?`

	result, err := querier.ExecContext(ctx, query, has2FA, updatedAt, binID)
	if err != nil {
		return apperrors.Wrap(err, "failed to update has_2fa")
	}
	return requireAffected(result, vaultDomain.ErrCredentialNotFound)
}

// LockOwner locks the owning user row until the transaction ends.
func (m *MySQLCredentialRepository) LockOwner(ctx context.Context, userID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	uid, err := userID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal user id")
	}

	var id []byte
	err = querier.QueryRowContext(ctx, `SELECT id FROM users WHERE id = ? FOR UPDATE`, uid).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.Wrap(apperrors.ErrNotFound, "credential owner not found")
		}
		return apperrors.Wrap(err, "failed to lock credential owner")
	}
	return nil
}

func scanMySQLCredential(row rowScanner) (*vaultDomain.Credential, error) {
	var cred vaultDomain.Credential
	var id, userID []byte
	var credType, state string
	err := row.Scan(
		&id,
		&userID,
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

	if err := cred.ID.UnmarshalBinary(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal credential id")
	}
	if err := cred.UserID.UnmarshalBinary(userID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal user id")
	}
	cred.Type = vaultDomain.CredentialType(credType)
	cred.State = vaultDomain.CredentialState(state)
	return &cred, nil
}
