package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	cryptoService "github.com/allisson/passvault/internal/crypto/service"
	"github.com/allisson/passvault/internal/database"
	"github.com/allisson/passvault/internal/errors"
	vaultDomain "github.com/allisson/passvault/internal/vault/domain"
)

// totpUseCase implements TotpUseCase.
type totpUseCase struct {
	txManager      database.TxManager
	credentialRepo CredentialRepository
	totpRepo       TotpRepository
	totpCipher     cryptoService.TotpCipher
	logger         *slog.Logger
	now            func() time.Time
}

// NewTotpUseCase creates a new TotpUseCase.
func NewTotpUseCase(
	txManager database.TxManager,
	credentialRepo CredentialRepository,
	totpRepo TotpRepository,
	totpCipher cryptoService.TotpCipher,
	logger *slog.Logger,
) TotpUseCase {
	return &totpUseCase{
		txManager:      txManager,
		credentialRepo: credentialRepo,
		totpRepo:       totpRepo,
		totpCipher:     totpCipher,
		logger:         logger,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// Create attaches a client-encrypted TOTP secret to a credential and sets its Has2FA
// flag in the same transaction. The owner row lock serializes it with credential writes.
func (t *totpUseCase) Create(
	ctx context.Context,
	input *vaultDomain.CreateTotpInput,
) (*vaultDomain.TotpSecret, error) {
	input.ApplyDefaults()
	if err := input.Validate(); err != nil {
		return nil, err
	}

	var totp *vaultDomain.TotpSecret
	err := t.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := t.credentialRepo.LockOwner(ctx, input.UserID); err != nil {
			return err
		}

		cred, err := loadOwnedCredential(ctx, t.credentialRepo, input.UserID, input.CredentialID)
		if err != nil {
			return err
		}

		_, err = t.totpRepo.GetByCredentialID(ctx, cred.ID)
		if err == nil {
			return vaultDomain.ErrTotpAlreadyExists
		}
		if !errors.Is(err, vaultDomain.ErrTotpNotFound) {
			return err
		}

		now := t.now()
		totp = &vaultDomain.TotpSecret{
			ID:              uuid.Must(uuid.NewV7()),
			CredentialID:    cred.ID,
			EncryptedSecret: input.EncryptedSecret,
			SecretIV:        input.SecretIV,
			SecretAuthTag:   input.SecretAuthTag,
			Algorithm:       input.Algorithm,
			Digits:          input.Digits,
			Period:          input.Period,
			State:           vaultDomain.TotpActive,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := t.totpRepo.Create(ctx, totp); err != nil {
			return err
		}
		return t.credentialRepo.SetHas2FA(ctx, cred.ID, true, now)
	})
	if err != nil {
		return nil, err
	}

	t.logger.Debug("totp secret created",
		slog.String("credential_id", totp.CredentialID.String()),
		slog.String("user_id", input.UserID.String()),
	)
	return totp, nil
}

// Get returns the TOTP envelope of a credential owned by userID.
func (t *totpUseCase) Get(ctx context.Context, userID, credentialID uuid.UUID) (*vaultDomain.TotpSecret, error) {
	cred, err := loadOwnedCredential(ctx, t.credentialRepo, userID, credentialID)
	if err != nil {
		return nil, err
	}
	return t.totpRepo.GetByCredentialID(ctx, cred.ID)
}

// Reveal decrypts the TOTP seed with the caller's vault key.
func (t *totpUseCase) Reveal(
	ctx context.Context,
	userID, credentialID uuid.UUID,
	vaultKey string,
) (string, error) {
	totp, err := t.Get(ctx, userID, credentialID)
	if err != nil {
		return "", err
	}
	return t.totpCipher.Decrypt(totp.Envelope(), vaultKey)
}

// UpdateState moves the secret between active and archived.
func (t *totpUseCase) UpdateState(
	ctx context.Context,
	input *vaultDomain.UpdateTotpStateInput,
) (*vaultDomain.TotpSecret, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	var totp *vaultDomain.TotpSecret
	err := t.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		totp, err = t.Get(ctx, input.UserID, input.CredentialID)
		if err != nil {
			return err
		}
		if totp.State == input.State {
			return nil
		}

		now := t.now()
		if err := t.totpRepo.UpdateState(ctx, totp.ID, input.State, now); err != nil {
			return err
		}
		totp.State = input.State
		totp.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return totp, nil
}

// Delete removes the TOTP secret and clears the credential's Has2FA flag in the same
// transaction.
func (t *totpUseCase) Delete(ctx context.Context, userID, credentialID uuid.UUID) error {
	return t.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := t.credentialRepo.LockOwner(ctx, userID); err != nil {
			return err
		}

		totp, err := t.Get(ctx, userID, credentialID)
		if err != nil {
			return err
		}
		if err := t.totpRepo.Delete(ctx, totp.ID); err != nil {
			return err
		}
		return t.credentialRepo.SetHas2FA(ctx, totp.CredentialID, false, t.now())
	})
}
