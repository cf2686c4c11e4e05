package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/passvault/internal/auth/domain"
	"github.com/allisson/passvault/internal/database"
	apperrors "github.com/allisson/passvault/internal/errors"
)

// MySQLRecoveryKeyRepository implements RecoveryKey persistence for MySQL. MySQL has
// no partial indexes, so the one-active-key rule relies on revoke-then-insert inside
// the caller's transaction.
type MySQLRecoveryKeyRepository struct {
	db *sql.DB
}

// NewMySQLRecoveryKeyRepository creates a new MySQL RecoveryKey repository.
func NewMySQLRecoveryKeyRepository(db *sql.DB) *MySQLRecoveryKeyRepository {
	return &MySQLRecoveryKeyRepository{db: db}
}

// Create inserts a new RecoveryKey. Empty envelope fields are stored as NULL.
func (m *MySQLRecoveryKeyRepository) Create(ctx context.Context, key *authDomain.RecoveryKey) error {
	querier := database.GetTx(ctx, m.db)

	id, err := key.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal recovery key id")
	}
	userID, err := key.UserID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal user id")
	}

	query := `INSERT INTO recovery_keys (` + recoveryKeyColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		userID,
		key.KeyHash,
		key.Salt,
		string(key.Status),
		nullString(key.EncryptedVaultKey),
		nullString(key.VaultKeyIV),
		nullString(key.VaultKeyAuthTag),
		key.CreatedAt,
		key.UsedAt,
		key.RevokedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create recovery key")
	}
	return nil
}

// GetActiveByUserID retrieves the active RecoveryKey of a user.
func (m *MySQLRecoveryKeyRepository) GetActiveByUserID(
	ctx context.Context,
	userID uuid.UUID,
) (*authDomain.RecoveryKey, error) {
	querier := database.GetTx(ctx, m.db)

	uid, err := userID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal user id")
	}

	query := `SELECT ` + recoveryKeyColumns + ` FROM recovery_keys
			  WHERE user_id = ? AND status = ?
			  ORDER BY created_at DESC
			  LIMIT 1`

	var key authDomain.RecoveryKey
	var id, keyUserID []byte
	var status string
	var encrypted, iv, tag sql.NullString
	err = querier.QueryRowContext(ctx, query, uid, string(authDomain.RecoveryKeyActive)).Scan(
		&id,
		&keyUserID,
		&key.KeyHash,
		&key.Salt,
		&status,
		&encrypted,
		&iv,
		&tag,
		&key.CreatedAt,
		&key.UsedAt,
		&key.RevokedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrRecoveryKeyNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get recovery key")
	}

	if err := key.ID.UnmarshalBinary(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal recovery key id")
	}
	if err := key.UserID.UnmarshalBinary(keyUserID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal user id")
	}
	key.Status = authDomain.RecoveryKeyStatus(status)
	key.EncryptedVaultKey = encrypted.String
	key.VaultKeyIV = iv.String
	key.VaultKeyAuthTag = tag.String
	return &key, nil
}

// RevokeActive marks every active key of the user as revoked.
func (m *MySQLRecoveryKeyRepository) RevokeActive(ctx context.Context, userID uuid.UUID, revokedAt time.Time) error {
	querier := database.GetTx(ctx, m.db)

	uid, err := userID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal user id")
	}

	query := `UPDATE recovery_keys SET status = ?, revoked_at = ? WHERE user_id = ? AND status = ?`

	_, err = querier.ExecContext(
		ctx,
		query,
		string(authDomain.RecoveryKeyRevoked),
		revokedAt,
		uid,
		string(authDomain.RecoveryKeyActive),
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to revoke recovery keys")
	}
	return nil
}

// MarkUsed moves an active key to used.
func (m *MySQLRecoveryKeyRepository) MarkUsed(ctx context.Context, keyID uuid.UUID, usedAt time.Time) error {
	querier := database.GetTx(ctx, m.db)

	id, err := keyID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal recovery key id")
	}

	query := `UPDATE recovery_keys SET status = ?, used_at = ? WHERE id = ? AND status = ?`

	result, err := querier.ExecContext(
		ctx,
		query,
		string(authDomain.RecoveryKeyUsed),
		usedAt,
		id,
		string(authDomain.RecoveryKeyActive),
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to mark recovery key used")
	}
	return requireAffected(result, authDomain.ErrRecoveryKeyNotFound)
}
