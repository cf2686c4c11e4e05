// Package usecase defines the account business logic: signup, login, sessions, master
// password changes and recovery keys.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/passvault/internal/auth/domain"
)

// UserRepository defines persistence operations for users.
// Implementations must support transaction-aware operations via context propagation.
type UserRepository interface {
	// Create stores a new user. Returns ErrUserAlreadyExists on a duplicate email.
	Create(ctx context.Context, user *authDomain.User) error

	// Update persists the hash, salts and vault-key envelope of an existing user.
	Update(ctx context.Context, user *authDomain.User) error

	// GetByID returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, userID uuid.UUID) (*authDomain.User, error)

	// GetByEmail returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*authDomain.User, error)

	// List returns users ordered by ID.
	List(ctx context.Context, offset, limit int) ([]*authDomain.User, error)
}

// RecoveryKeyRepository defines persistence operations for recovery keys.
type RecoveryKeyRepository interface {
	Create(ctx context.Context, key *authDomain.RecoveryKey) error

	// GetActiveByUserID returns ErrRecoveryKeyNotFound if the user has no active key.
	GetActiveByUserID(ctx context.Context, userID uuid.UUID) (*authDomain.RecoveryKey, error)

	// RevokeActive marks every active key of the user as revoked.
	RevokeActive(ctx context.Context, userID uuid.UUID, revokedAt time.Time) error

	// MarkUsed moves an active key to used.
	MarkUsed(ctx context.Context, keyID uuid.UUID, usedAt time.Time) error
}

// SessionStore is the process-local session table.
type SessionStore interface {
	Create(userID uuid.UUID) (*authDomain.Session, error)
	Validate(token string) (uuid.UUID, bool)
	Destroy(token string)
	DestroyUser(userID uuid.UUID) int
}

// AccountUseCase orchestrates key derivation, envelope wrapping and sessions for user
// accounts. Plaintext vault keys and recovery keys only ever appear in outputs.
type AccountUseCase interface {
	// Signup creates a user with a fresh vault key and an active recovery key.
	Signup(ctx context.Context, input *authDomain.SignupInput) (*authDomain.SignupOutput, error)

	// Login verifies the master password, unwraps the vault key and opens a session.
	// Returns ErrInvalidCredentials for an unknown email or a wrong password.
	Login(ctx context.Context, input *authDomain.LoginInput) (*authDomain.LoginOutput, error)

	// Logout destroys the session. Unknown tokens are ignored.
	Logout(ctx context.Context, token string) error

	// Authenticate resolves a session token to its user, sliding the session expiry.
	Authenticate(ctx context.Context, token string) (*authDomain.User, error)

	// ChangePassword re-hashes the master password and re-wraps the existing vault
	// key under new salts.
	ChangePassword(ctx context.Context, input *authDomain.ChangePasswordInput) error

	// RotateRecoveryKey revokes every active recovery key and issues a new one in a
	// single transaction. Returns the plaintext recovery key.
	RotateRecoveryKey(ctx context.Context, input *authDomain.RotateRecoveryKeyInput) (string, error)

	// ResetPasswordWithRecoveryKey sets a new master password using the active
	// recovery key, consumes it and issues a replacement.
	ResetPasswordWithRecoveryKey(
		ctx context.Context,
		input *authDomain.ResetPasswordInput,
	) (*authDomain.ResetPasswordOutput, error)
}
