// Package repository implements persistence for users and recovery keys.
//
// PostgreSQL implementations use native UUID columns, MySQL implementations use
// BINARY(16). All repositories join the ambient transaction via database.GetTx.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	authDomain "github.com/allisson/passvault/internal/auth/domain"
	"github.com/allisson/passvault/internal/database"
	apperrors "github.com/allisson/passvault/internal/errors"
)

const userColumns = `id, email, kdf_algorithm, kdf_memory, kdf_iterations, kdf_parallelism,
	master_password_hash, salt, vault_salt, encrypted_vault_key, vault_key_iv,
	vault_key_auth_tag, created_at, updated_at`

// PostgreSQLUserRepository implements User persistence for PostgreSQL.
type PostgreSQLUserRepository struct {
	db *sql.DB
}

// NewPostgreSQLUserRepository creates a new PostgreSQL User repository.
func NewPostgreSQLUserRepository(db *sql.DB) *PostgreSQLUserRepository {
	return &PostgreSQLUserRepository{db: db}
}

// Create inserts a new User. A duplicate email returns ErrUserAlreadyExists.
func (p *PostgreSQLUserRepository) Create(ctx context.Context, user *authDomain.User) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO users (` + userColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := querier.ExecContext(
		ctx,
		query,
		user.ID,
		user.Email,
		user.KdfAlgorithm,
		user.KdfMemory,
		user.KdfIterations,
		user.KdfParallelism,
		user.MasterPasswordHash,
		user.Salt,
		user.VaultSalt,
		user.EncryptedVaultKey,
		user.VaultKeyIV,
		user.VaultKeyAuthTag,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return authDomain.ErrUserAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create user")
	}
	return nil
}

// Update persists the password hash, salts and vault-key envelope of a User.
func (p *PostgreSQLUserRepository) Update(ctx context.Context, user *authDomain.User) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE users
			  SET kdf_algorithm = $1,
				  kdf_memory = $2,
				  kdf_iterations = $3,
				  kdf_parallelism = $4,
				  master_password_hash = $5,
				  salt = $6,
				  vault_salt = $7,
				  encrypted_vault_key = $8,
				  vault_key_iv = $9,
				  vault_key_auth_tag = $10,
				  updated_at = $11
			  WHERE id = $12`

	result, err := querier.ExecContext(
		ctx,
		query,
		user.KdfAlgorithm,
		user.KdfMemory,
		user.KdfIterations,
		user.KdfParallelism,
		user.MasterPasswordHash,
		user.Salt,
		user.VaultSalt,
		user.EncryptedVaultKey,
		user.VaultKeyIV,
		user.VaultKeyAuthTag,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update user")
	}
	return requireAffected(result, authDomain.ErrUserNotFound)
}

// GetByID retrieves a User by ID.
func (p *PostgreSQLUserRepository) GetByID(ctx context.Context, userID uuid.UUID) (*authDomain.User, error) {
	querier := database.GetTx(ctx, p.db)
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanPostgreSQLUser(querier.QueryRowContext(ctx, query, userID))
}

// GetByEmail retrieves a User by its normalized email.
func (p *PostgreSQLUserRepository) GetByEmail(ctx context.Context, email string) (*authDomain.User, error) {
	querier := database.GetTx(ctx, p.db)
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanPostgreSQLUser(querier.QueryRowContext(ctx, query, email))
}

// List retrieves users ordered by ID with pagination.
func (p *PostgreSQLUserRepository) List(ctx context.Context, offset, limit int) ([]*authDomain.User, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + userColumns + ` FROM users ORDER BY id LIMIT $1 OFFSET $2`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list users")
	}
	defer func() { _ = rows.Close() }()

	users := make([]*authDomain.User, 0)
	for rows.Next() {
		user, err := scanPostgreSQLUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate users")
	}
	return users, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPostgreSQLUser(row rowScanner) (*authDomain.User, error) {
	var user authDomain.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.KdfAlgorithm,
		&user.KdfMemory,
		&user.KdfIterations,
		&user.KdfParallelism,
		&user.MasterPasswordHash,
		&user.Salt,
		&user.VaultSalt,
		&user.EncryptedVaultKey,
		&user.VaultKeyIV,
		&user.VaultKeyAuthTag,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get user")
	}
	return &user, nil
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
