package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/passvault/internal/auth/domain"
)

func TestMySQLUserRepository_Create(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewMySQLUserRepository(db)
		user := newTestUser()
		id, err := user.ID.MarshalBinary()
		require.NoError(t, err)

		mock.ExpectExec("INSERT INTO users").
			WithArgs(id, user.Email, user.KdfAlgorithm, user.KdfMemory, user.KdfIterations,
				user.KdfParallelism, user.MasterPasswordHash, user.Salt, user.VaultSalt,
				user.EncryptedVaultKey, user.VaultKeyIV, user.VaultKeyAuthTag, user.CreatedAt, user.UpdatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Create(context.Background(), user))
	})

	t.Run("Error_DuplicateEmail", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewMySQLUserRepository(db)

		mock.ExpectExec("INSERT INTO users").WillReturnError(&mysql.MySQLError{Number: 1062})

		err := repo.Create(context.Background(), newTestUser())
		assert.ErrorIs(t, err, authDomain.ErrUserAlreadyExists)
	})
}

func TestMySQLUserRepository_Update(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMySQLUserRepository(db)

	mock.ExpectExec("UPDATE users").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), newTestUser())
	assert.ErrorIs(t, err, authDomain.ErrUserNotFound)
}

func TestMySQLUserRepository_Get(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMySQLUserRepository(db)
	user := newTestUser()
	id, err := user.ID.MarshalBinary()
	require.NoError(t, err)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE id = \\?").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(userRowColumns).AddRow(userRow(id, user)...))

	got, err := repo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, user.MasterPasswordHash, got.MasterPasswordHash)
}

func TestMySQLUserRepository_List(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMySQLUserRepository(db)
	user := newTestUser()
	id, err := user.ID.MarshalBinary()
	require.NoError(t, err)

	mock.ExpectQuery("SELECT (.+) FROM users ORDER BY id LIMIT \\? OFFSET \\?").
		WithArgs(10, 20).
		WillReturnRows(sqlmock.NewRows(userRowColumns).AddRow(userRow(id, user)...))

	users, err := repo.List(context.Background(), 20, 10)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, user.ID, users[0].ID)
}
