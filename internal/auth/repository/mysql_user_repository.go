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

// MySQLUserRepository implements User persistence for MySQL using BINARY(16) UUIDs.
type MySQLUserRepository struct {
	db *sql.DB
}

// NewMySQLUserRepository creates a new MySQL User repository.
func NewMySQLUserRepository(db *sql.DB) *MySQLUserRepository {
	return &MySQLUserRepository{db: db}
}

// Create inserts a new User. A duplicate email returns ErrUserAlreadyExists.
func (m *MySQLUserRepository) Create(ctx context.Context, user *authDomain.User) error {
	querier := database.GetTx(ctx, m.db)

	id, err := user.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal user id")
	}

	query := `INSERT INTO users (` + userColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
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
func (m *MySQLUserRepository) Update(ctx context.Context, user *authDomain.User) error {
	querier := database.GetTx(ctx, m.db)

	id, err := user.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal user id")
	}

	query := `UPDATE users
			  SET kdf_algorithm = ?,
				  kdf_memory = ?,
				  kdf_iterations = ?,
				  kdf_parallelism = ?,
				  master_password_hash = ?,
				  salt = ?,
				  vault_salt = ?,
				  encrypted_vault_key = ?,
				  vault_key_iv = ?,
				  vault_key_auth_tag = ?,
				  updated_at = ?
			  WHERE id = ?`

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
		id,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update user")
	}
	return requireAffected(result, authDomain.ErrUserNotFound)
}

// GetByID retrieves a User by ID.
func (m *MySQLUserRepository) GetByID(ctx context.Context, userID uuid.UUID) (*authDomain.User, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := userID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal user id")
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return scanMySQLUser(querier.QueryRowContext(ctx, query, id))
}

// GetByEmail retrieves a User by its normalized email.
func (m *MySQLUserRepository) GetByEmail(ctx context.Context, email string) (*authDomain.User, error) {
	querier := database.GetTx(ctx, m.db)
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	return scanMySQLUser(querier.QueryRowContext(ctx, query, email))
}

// List retrieves users ordered by ID with pagination.
func (m *MySQLUserRepository) List(ctx context.Context, offset, limit int) ([]*authDomain.User, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + userColumns + ` FROM users ORDER BY id LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list users")
	}
	defer func() { _ = rows.Close() }()

	users := make([]*authDomain.User, 0)
	for rows.Next() {
		user, err := scanMySQLUser(rows)
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

func scanMySQLUser(row rowScanner) (*authDomain.User, error) {
	var user authDomain.User
	var id []byte
	err := row.Scan(
		&id,
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

	if err := user.ID.UnmarshalBinary(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal user id")
	}
	return &user, nil
}
