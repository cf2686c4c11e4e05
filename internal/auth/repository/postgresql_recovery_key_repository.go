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

const recoveryKeyColumns = `id, user_id, key_hash, salt, status, encrypted_vault_key, vault_key_iv,
	vault_key_auth_tag, created_at, used_at, revoked_at`

// PostgreSQLRecoveryKeyRepository implements RecoveryKey persistence for PostgreSQL.
// A partial unique index on (user_id) WHERE status = 'active' backs the one-active-key
// rule.
type PostgreSQLRecoveryKeyRepository struct {
	db *sql.DB
}

// NewPostgreSQLRecoveryKeyRepository creates a new PostgreSQL RecoveryKey repository.
func NewPostgreSQLRecoveryKeyRepository(db *sql.DB) *PostgreSQLRecoveryKeyRepository {
	return &PostgreSQLRecoveryKeyRepository{db: db}
}

// Create inserts a new RecoveryKey. Empty envelope fields are stored as NULL.
func (p *PostgreSQLRecoveryKeyRepository) Create(ctx context.Context, key *authDomain.RecoveryKey) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO recovery_keys (` + recoveryKeyColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := querier.ExecContext(
		ctx,
		query,
		key.ID,
		key.UserID,
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
		if database.IsUniqueViolation(err) {
			return apperrors.Wrap(apperrors.ErrConflict, "user already has an active recovery key")
		}
		return apperrors.Wrap(err, "failed to create recovery key")
	}
	return nil
}

// GetActiveByUserID retrieves the active RecoveryKey of a user.
func (p *PostgreSQLRecoveryKeyRepository) GetActiveByUserID(
	ctx context.Context,
	userID uuid.UUID,
) (*authDomain.RecoveryKey, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + recoveryKeyColumns + ` FROM recovery_keys
			  WHERE user_id = $1 AND status = $2
			  ORDER BY created_at DESC
			  LIMIT 1`

	var key authDomain.RecoveryKey
	var status string
	var encrypted, iv, tag sql.NullString
	err := querier.QueryRowContext(ctx, query, userID, string(authDomain.RecoveryKeyActive)).Scan(
		&key.ID,
		&key.UserID,
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

	key.Status = authDomain.RecoveryKeyStatus(status)
	key.EncryptedVaultKey = encrypted.String
	key.VaultKeyIV = iv.String
	key.VaultKeyAuthTag = tag.String
	return &key, nil
}

// RevokeActive marks every active key of the user as revoked.
func (p *PostgreSQLRecoveryKeyRepository) RevokeActive(
	ctx context.Context,
	userID uuid.UUID,
	revokedAt time.Time,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE recovery_keys SET status = $1, revoked_at = $2 WHERE user_id = $3 AND status = $4`

	_, err := querier.ExecContext(
		ctx,
		query,
		string(authDomain.RecoveryKeyRevoked),
		revokedAt,
		userID,
		string(authDomain.RecoveryKeyActive),
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to revoke recovery keys")
	}
	return nil
}

// MarkUsed moves an active key to used.
func (p *PostgreSQLRecoveryKeyRepository) MarkUsed(ctx context.Context, keyID uuid.UUID, usedAt time.Time) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE recovery_keys SET status = $1, used_at = $2 WHERE id = $3 AND status = $4`

	result, err := querier.ExecContext(
		ctx,
		query,
		string(authDomain.RecoveryKeyUsed),
		usedAt,
		keyID,
		string(authDomain.RecoveryKeyActive),
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to mark recovery key used")
	}
	return requireAffected(result, authDomain.ErrRecoveryKeyNotFound)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
