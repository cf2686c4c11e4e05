package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/passvault/internal/database"
	vaultDomain "github.com/allisson/passvault/internal/vault/domain"
	vaultService "github.com/allisson/passvault/internal/vault/service"
)

// credentialUseCase implements CredentialUseCase.
type credentialUseCase struct {
	txManager      database.TxManager
	credentialRepo CredentialRepository
	classifier     *vaultService.Classifier
	locks          *userLocks
	logger         *slog.Logger
	now            func() time.Time
}

// NewCredentialUseCase creates a new CredentialUseCase.
func NewCredentialUseCase(
	txManager database.TxManager,
	credentialRepo CredentialRepository,
	classifier *vaultService.Classifier,
	logger *slog.Logger,
) CredentialUseCase {
	return &credentialUseCase{
		txManager:      txManager,
		credentialRepo: credentialRepo,
		classifier:     classifier,
		locks:          newUserLocks(),
		logger:         logger,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// withUserLock runs fn in a transaction while holding the user's write lock both in
// process and on the user row.
func (c *credentialUseCase) withUserLock(
	ctx context.Context,
	userID uuid.UUID,
	fn func(ctx context.Context) error,
) error {
	unlock := c.locks.lock(userID)
	defer unlock()

	return c.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := c.credentialRepo.LockOwner(ctx, userID); err != nil {
			return err
		}
		return fn(ctx)
	})
}

// recomputeReuse rewrites PasswordReused for every credential sharing one of the
// given payloads. Incomplete payloads are skipped.
func (c *credentialUseCase) recomputeReuse(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
	payloads ...vaultDomain.Payload,
) error {
	seen := make(map[vaultDomain.Payload]struct{}, len(payloads))
	for _, payload := range payloads {
		if !payload.Complete() {
			continue
		}
		if _, ok := seen[payload]; ok {
			continue
		}
		seen[payload] = struct{}{}

		n, err := c.credentialRepo.CountByPayload(ctx, userID, payload, uuid.Nil)
		if err != nil {
			return err
		}
		if err := c.credentialRepo.SetReusedByPayload(ctx, userID, payload, n > 1, now); err != nil {
			return err
		}
	}
	return nil
}

// Create classifies and stores a new credential.
func (c *credentialUseCase) Create(
	ctx context.Context,
	input *vaultDomain.CreateCredentialInput,
) (*vaultDomain.Credential, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := c.now()
	cred := &vaultDomain.Credential{
		ID:               uuid.Must(uuid.NewV7()),
		UserID:           input.UserID,
		Title:            strings.TrimSpace(input.Title),
		Type:             input.Type,
		Payload:          input.Payload,
		PasswordStrength: input.PasswordStrength,
		State:            vaultDomain.CredentialActive,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if cred.IsPasswordBearing() {
		cred.PasswordLastChanged = &now
	}

	err := c.withUserLock(ctx, cred.UserID, func(ctx context.Context) error {
		if err := c.classifier.Classify(ctx, cred); err != nil {
			return err
		}
		if err := c.credentialRepo.Create(ctx, cred); err != nil {
			return err
		}
		return c.recomputeReuse(ctx, cred.UserID, now, cred.Payload)
	})
	if err != nil {
		return nil, err
	}

	c.logger.Debug("credential created",
		slog.String("credential_id", cred.ID.String()),
		slog.String("user_id", cred.UserID.String()),
		slog.Bool("compromised", cred.Compromised),
		slog.Bool("password_reused", cred.PasswordReused),
	)
	return cred, nil
}

// Update replaces the title, payload and strength of a credential and reclassifies it.
func (c *credentialUseCase) Update(
	ctx context.Context,
	input *vaultDomain.UpdateCredentialInput,
) (*vaultDomain.Credential, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	var cred *vaultDomain.Credential
	err := c.withUserLock(ctx, input.UserID, func(ctx context.Context) error {
		var err error
		cred, err = loadOwnedCredential(ctx, c.credentialRepo, input.UserID, input.ID)
		if err != nil {
			return err
		}

		now := c.now()
		oldPayload := cred.Payload
		cred.Title = strings.TrimSpace(input.Title)
		cred.Payload = input.Payload
		cred.PasswordStrength = input.PasswordStrength
		cred.UpdatedAt = now
		if cred.IsPasswordBearing() && cred.Payload != oldPayload {
			cred.PasswordLastChanged = &now
		}

		if err := c.classifier.Classify(ctx, cred); err != nil {
			return err
		}
		if err := c.credentialRepo.Update(ctx, cred); err != nil {
			return err
		}
		return c.recomputeReuse(ctx, cred.UserID, now, oldPayload, cred.Payload)
	})
	if err != nil {
		return nil, err
	}
	return cred, nil
}

// Get returns a credential owned by userID.
func (c *credentialUseCase) Get(ctx context.Context, userID, id uuid.UUID) (*vaultDomain.Credential, error) {
	return loadOwnedCredential(ctx, c.credentialRepo, userID, id)
}

// Archive moves an active credential to archived.
func (c *credentialUseCase) Archive(ctx context.Context, userID, id uuid.UUID) (*vaultDomain.Credential, error) {
	return c.transition(ctx, userID, id, vaultDomain.CredentialArchived, vaultDomain.CredentialActive)
}

// Restore moves an archived credential back to active and reclassifies it.
func (c *credentialUseCase) Restore(ctx context.Context, userID, id uuid.UUID) (*vaultDomain.Credential, error) {
	return c.transition(ctx, userID, id, vaultDomain.CredentialActive, vaultDomain.CredentialArchived)
}

// Delete soft-deletes an active or archived credential.
func (c *credentialUseCase) Delete(ctx context.Context, userID, id uuid.UUID) error {
	_, err := c.transition(
		ctx,
		userID,
		id,
		vaultDomain.CredentialDeleted,
		vaultDomain.CredentialActive,
		vaultDomain.CredentialArchived,
	)
	return err
}

func (c *credentialUseCase) transition(
	ctx context.Context,
	userID, id uuid.UUID,
	to vaultDomain.CredentialState,
	from ...vaultDomain.CredentialState,
) (*vaultDomain.Credential, error) {
	var cred *vaultDomain.Credential
	err := c.withUserLock(ctx, userID, func(ctx context.Context) error {
		var err error
		cred, err = loadOwnedCredential(ctx, c.credentialRepo, userID, id)
		if err != nil {
			return err
		}

		allowed := false
		for _, state := range from {
			allowed = allowed || cred.State == state
		}
		if !allowed {
			return vaultDomain.ErrInvalidCredentialState
		}

		now := c.now()
		cred.State = to
		cred.UpdatedAt = now
		if to == vaultDomain.CredentialActive {
			if err := c.classifier.Classify(ctx, cred); err != nil {
				return err
			}
		}
		if err := c.credentialRepo.Update(ctx, cred); err != nil {
			return err
		}
		return c.recomputeReuse(ctx, cred.UserID, now, cred.Payload)
	})
	if err != nil {
		return nil, err
	}

	c.logger.Debug("credential state changed",
		slog.String("credential_id", cred.ID.String()),
		slog.String("state", string(cred.State)),
	)
	return cred, nil
}

// loadOwnedCredential returns the credential if it exists, is not deleted and belongs
// to userID.
func loadOwnedCredential(
	ctx context.Context,
	repo CredentialRepository,
	userID, id uuid.UUID,
) (*vaultDomain.Credential, error) {
	cred, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cred.State == vaultDomain.CredentialDeleted {
		return nil, vaultDomain.ErrCredentialNotFound
	}
	if cred.UserID != userID {
		return nil, vaultDomain.ErrCredentialAccessDenied
	}
	return cred, nil
}
