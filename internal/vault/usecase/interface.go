// Package usecase defines the vault business logic: classify-then-persist credential
// writes, TOTP envelopes and the security score.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	vaultDomain "github.com/allisson/passvault/internal/vault/domain"
)

// CredentialRepository defines persistence operations for credentials.
// Implementations must support transaction-aware operations via context propagation.
type CredentialRepository interface {
	Create(ctx context.Context, cred *vaultDomain.Credential) error

	// Update persists every mutable field of cred. Returns ErrCredentialNotFound if
	// the row does not exist.
	Update(ctx context.Context, cred *vaultDomain.Credential) error

	// GetByID returns ErrCredentialNotFound if the credential does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*vaultDomain.Credential, error)

	// ListActiveByUserID returns the user's active credentials of every type.
	ListActiveByUserID(ctx context.Context, userID uuid.UUID) ([]*vaultDomain.Credential, error)

	// CountByPayload counts active password-bearing credentials of the user with an
	// identical payload tuple, excluding excludeID (uuid.Nil excludes nothing).
	CountByPayload(
		ctx context.Context,
		userID uuid.UUID,
		payload vaultDomain.Payload,
		excludeID uuid.UUID,
	) (int, error)

	// SetReusedByPayload writes PasswordReused on every active password-bearing
	// credential of the user with the given payload tuple.
	SetReusedByPayload(
		ctx context.Context,
		userID uuid.UUID,
		payload vaultDomain.Payload,
		reused bool,
		updatedAt time.Time,
	) error

	// SetHas2FA writes the Has2FA flag of one credential.
	SetHas2FA(ctx context.Context, id uuid.UUID, has2FA bool, updatedAt time.Time) error

	// LockOwner takes a row lock on the owning user for the rest of the transaction,
	// serializing credential writes of that user across processes.
	LockOwner(ctx context.Context, userID uuid.UUID) error
}

// TotpRepository defines persistence operations for TOTP secrets.
type TotpRepository interface {
	// Create returns ErrTotpAlreadyExists if the credential already has a secret.
	Create(ctx context.Context, totp *vaultDomain.TotpSecret) error

	// GetByCredentialID returns ErrTotpNotFound if the credential has no secret.
	GetByCredentialID(ctx context.Context, credentialID uuid.UUID) (*vaultDomain.TotpSecret, error)

	UpdateState(ctx context.Context, id uuid.UUID, state vaultDomain.TotpState, updatedAt time.Time) error

	Delete(ctx context.Context, id uuid.UUID) error
}

// CredentialUseCase defines the credential lifecycle. Every write classifies the
// credential and recomputes PasswordReused for all credentials sharing its old or
// new payload, inside one transaction.
type CredentialUseCase interface {
	Create(ctx context.Context, input *vaultDomain.CreateCredentialInput) (*vaultDomain.Credential, error)
	Update(ctx context.Context, input *vaultDomain.UpdateCredentialInput) (*vaultDomain.Credential, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*vaultDomain.Credential, error)
	Archive(ctx context.Context, userID, id uuid.UUID) (*vaultDomain.Credential, error)
	Restore(ctx context.Context, userID, id uuid.UUID) (*vaultDomain.Credential, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// TotpUseCase manages the TOTP secret attached to a credential. The vault key passed
// to Reveal is used for that call only.
type TotpUseCase interface {
	Create(ctx context.Context, input *vaultDomain.CreateTotpInput) (*vaultDomain.TotpSecret, error)
	Get(ctx context.Context, userID, credentialID uuid.UUID) (*vaultDomain.TotpSecret, error)
	Reveal(ctx context.Context, userID, credentialID uuid.UUID, vaultKey string) (string, error)
	UpdateState(ctx context.Context, input *vaultDomain.UpdateTotpStateInput) (*vaultDomain.TotpSecret, error)
	Delete(ctx context.Context, userID, credentialID uuid.UUID) error
}

// ScoreUseCase computes the security score of a vault.
type ScoreUseCase interface {
	ComputeSecurityScore(
		ctx context.Context,
		userID uuid.UUID,
		opts vaultDomain.ScoreOptions,
	) (*vaultDomain.SecurityScore, error)
}
