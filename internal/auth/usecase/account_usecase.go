package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/passvault/internal/auth/domain"
	cryptoDomain "github.com/allisson/passvault/internal/crypto/domain"
	cryptoService "github.com/allisson/passvault/internal/crypto/service"
	"github.com/allisson/passvault/internal/database"
	"github.com/allisson/passvault/internal/errors"
)

// accountUseCase implements AccountUseCase.
type accountUseCase struct {
	txManager         database.TxManager
	userRepo          UserRepository
	recoveryKeyRepo   RecoveryKeyRepository
	sessions          SessionStore
	passwordHasher    cryptoService.PasswordHasher
	vaultKeyManager   cryptoService.VaultKeyManager
	recoveryKeyHasher cryptoService.RecoveryKeyHasher
	logger            *slog.Logger
	now               func() time.Time
}

// NewAccountUseCase creates a new AccountUseCase with the provided dependencies.
func NewAccountUseCase(
	txManager database.TxManager,
	userRepo UserRepository,
	recoveryKeyRepo RecoveryKeyRepository,
	sessions SessionStore,
	passwordHasher cryptoService.PasswordHasher,
	vaultKeyManager cryptoService.VaultKeyManager,
	recoveryKeyHasher cryptoService.RecoveryKeyHasher,
	logger *slog.Logger,
) AccountUseCase {
	return &accountUseCase{
		txManager:         txManager,
		userRepo:          userRepo,
		recoveryKeyRepo:   recoveryKeyRepo,
		sessions:          sessions,
		passwordHasher:    passwordHasher,
		vaultKeyManager:   vaultKeyManager,
		recoveryKeyHasher: recoveryKeyHasher,
		logger:            logger,
		now:               func() time.Time { return time.Now().UTC() },
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// passwordMaterial is a freshly salted master password hash plus the vault salt its
// wrapping key is derived from.
type passwordMaterial struct {
	hash      string
	salt      string
	vaultSalt string
}

func (a *accountUseCase) newPasswordMaterial(password string) (*passwordMaterial, error) {
	salt, err := cryptoService.GenerateSalt(cryptoDomain.DefaultSaltLength)
	if err != nil {
		return nil, err
	}
	vaultSalt, err := cryptoService.GenerateSalt(cryptoDomain.DefaultSaltLength)
	if err != nil {
		return nil, err
	}
	hash, err := a.passwordHasher.Hash(password, salt)
	if err != nil {
		return nil, err
	}
	return &passwordMaterial{hash: hash, salt: salt, vaultSalt: vaultSalt}, nil
}

func (m *passwordMaterial) applyTo(user *authDomain.User) {
	user.MasterPasswordHash = m.hash
	user.Salt = m.salt
	user.VaultSalt = m.vaultSalt
	user.SetKdfParams()
}

// newRecoveryKey mints a recovery key for userID, hashes it and wraps plainVaultKey
// under it. The plaintext key is returned alongside the row to persist.
func (a *accountUseCase) newRecoveryKey(
	userID uuid.UUID,
	plainVaultKey string,
) (string, *authDomain.RecoveryKey, error) {
	plain, err := cryptoService.GenerateRecoveryKey()
	if err != nil {
		return "", nil, err
	}
	salt, err := cryptoService.GenerateSalt(cryptoDomain.DefaultSaltLength)
	if err != nil {
		return "", nil, err
	}
	hash, err := a.recoveryKeyHasher.Hash(plain, salt)
	if err != nil {
		return "", nil, err
	}
	envelope, err := a.vaultKeyManager.Encrypt(plainVaultKey, plain, salt)
	if err != nil {
		return "", nil, err
	}

	key := &authDomain.RecoveryKey{
		ID:        uuid.Must(uuid.NewV7()),
		UserID:    userID,
		KeyHash:   hash,
		Salt:      salt,
		Status:    authDomain.RecoveryKeyActive,
		CreatedAt: a.now(),
	}
	key.SetVaultKeyEnvelope(envelope)
	return plain, key, nil
}

// unlock verifies the master password of user and returns the unwrapped vault key.
// Both a hash mismatch and an envelope that fails to open yield ErrInvalidCredentials.
func (a *accountUseCase) unlock(user *authDomain.User, password string) (string, error) {
	if !a.passwordHasher.Verify(password, user.MasterPasswordHash) {
		return "", authDomain.ErrInvalidCredentials
	}

	plainVaultKey, err := a.vaultKeyManager.Decrypt(user.VaultKeyEnvelope(), password, user.VaultSalt)
	if err != nil {
		if errors.Is(err, cryptoDomain.ErrAuthenticationFailed) {
			return "", authDomain.ErrInvalidCredentials
		}
		return "", err
	}
	return plainVaultKey, nil
}

// Signup creates the user, its vault key and its first recovery key atomically.
func (a *accountUseCase) Signup(
	ctx context.Context,
	input *authDomain.SignupInput,
) (*authDomain.SignupOutput, error) {
	input.Email = normalizeEmail(input.Email)
	if err := input.Validate(); err != nil {
		return nil, err
	}

	if _, err := a.userRepo.GetByEmail(ctx, input.Email); err == nil {
		return nil, authDomain.ErrUserAlreadyExists
	} else if !errors.Is(err, authDomain.ErrUserNotFound) {
		return nil, err
	}

	material, err := a.newPasswordMaterial(input.MasterPassword)
	if err != nil {
		return nil, err
	}

	vaultKey, err := a.vaultKeyManager.Generate(input.MasterPassword, material.vaultSalt)
	if err != nil {
		return nil, err
	}

	now := a.now()
	user := &authDomain.User{
		ID:        uuid.Must(uuid.NewV7()),
		Email:     input.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	material.applyTo(user)
	user.SetVaultKeyEnvelope(&vaultKey.Envelope)

	plainRecoveryKey, recoveryKey, err := a.newRecoveryKey(user.ID, vaultKey.PlainKey)
	if err != nil {
		return nil, err
	}

	err = a.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := a.userRepo.Create(ctx, user); err != nil {
			return err
		}
		return a.recoveryKeyRepo.Create(ctx, recoveryKey)
	})
	if err != nil {
		return nil, err
	}

	if a.logger != nil {
		a.logger.Info("user signed up", slog.String("user_id", user.ID.String()))
	}

	return &authDomain.SignupOutput{
		UserID:      user.ID,
		RecoveryKey: plainRecoveryKey,
		VaultKey:    vaultKey.PlainKey,
	}, nil
}

// Login checks the master password, unwraps the vault key and opens a session.
func (a *accountUseCase) Login(
	ctx context.Context,
	input *authDomain.LoginInput,
) (*authDomain.LoginOutput, error) {
	input.Email = normalizeEmail(input.Email)
	if err := input.Validate(); err != nil {
		return nil, err
	}

	user, err := a.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, authDomain.ErrUserNotFound) {
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	plainVaultKey, err := a.unlock(user, input.MasterPassword)
	if err != nil {
		return nil, err
	}

	session, err := a.sessions.Create(user.ID)
	if err != nil {
		return nil, err
	}

	return &authDomain.LoginOutput{
		UserID:       user.ID,
		SessionToken: session.ID,
		VaultKey:     plainVaultKey,
	}, nil
}

// Logout destroys the session.
func (a *accountUseCase) Logout(ctx context.Context, token string) error {
	a.sessions.Destroy(token)
	return nil
}

// Authenticate validates the session and loads its user. A session whose user no
// longer exists is destroyed.
func (a *accountUseCase) Authenticate(ctx context.Context, token string) (*authDomain.User, error) {
	userID, ok := a.sessions.Validate(token)
	if !ok {
		return nil, authDomain.ErrSessionInvalid
	}

	user, err := a.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, authDomain.ErrUserNotFound) {
			a.sessions.Destroy(token)
			return nil, authDomain.ErrSessionInvalid
		}
		return nil, err
	}
	return user, nil
}

// ChangePassword re-wraps the current vault key under the new password. Data already
// encrypted under the vault key stays readable.
func (a *accountUseCase) ChangePassword(ctx context.Context, input *authDomain.ChangePasswordInput) error {
	if err := input.Validate(); err != nil {
		return err
	}

	return a.txManager.WithTx(ctx, func(ctx context.Context) error {
		user, err := a.userRepo.GetByID(ctx, input.UserID)
		if err != nil {
			return err
		}

		plainVaultKey, err := a.unlock(user, input.CurrentPassword)
		if err != nil {
			return err
		}

		material, err := a.newPasswordMaterial(input.NewPassword)
		if err != nil {
			return err
		}

		envelope, err := a.vaultKeyManager.Encrypt(plainVaultKey, input.NewPassword, material.vaultSalt)
		if err != nil {
			return err
		}

		material.applyTo(user)
		user.SetVaultKeyEnvelope(envelope)
		user.UpdatedAt = a.now()

		if err := a.userRepo.Update(ctx, user); err != nil {
			return err
		}

		if a.logger != nil {
			a.logger.Info("master password changed", slog.String("user_id", user.ID.String()))
		}
		return nil
	})
}

// RotateRecoveryKey revokes all active recovery keys and inserts a new one.
func (a *accountUseCase) RotateRecoveryKey(
	ctx context.Context,
	input *authDomain.RotateRecoveryKeyInput,
) (string, error) {
	if err := input.Validate(); err != nil {
		return "", err
	}

	var plainRecoveryKey string
	err := a.txManager.WithTx(ctx, func(ctx context.Context) error {
		user, err := a.userRepo.GetByID(ctx, input.UserID)
		if err != nil {
			return err
		}

		plainVaultKey, err := a.unlock(user, input.MasterPassword)
		if err != nil {
			return err
		}

		plain, recoveryKey, err := a.newRecoveryKey(user.ID, plainVaultKey)
		if err != nil {
			return err
		}

		if err := a.recoveryKeyRepo.RevokeActive(ctx, user.ID, a.now()); err != nil {
			return err
		}
		if err := a.recoveryKeyRepo.Create(ctx, recoveryKey); err != nil {
			return err
		}

		plainRecoveryKey = plain
		return nil
	})
	if err != nil {
		return "", err
	}

	if a.logger != nil {
		a.logger.Info("recovery key rotated", slog.String("user_id", input.UserID.String()))
	}
	return plainRecoveryKey, nil
}

// ResetPasswordWithRecoveryKey verifies the recovery key, recovers the vault key from
// its envelope and re-wraps it under the new password. The used key is consumed and a
// replacement issued in the same transaction. Existing sessions of the user are
// destroyed afterwards.
func (a *accountUseCase) ResetPasswordWithRecoveryKey(
	ctx context.Context,
	input *authDomain.ResetPasswordInput,
) (*authDomain.ResetPasswordOutput, error) {
	input.Email = normalizeEmail(input.Email)
	input.RecoveryKey = strings.ToUpper(strings.TrimSpace(input.RecoveryKey))
	if err := input.Validate(); err != nil {
		return nil, err
	}

	var output *authDomain.ResetPasswordOutput
	err := a.txManager.WithTx(ctx, func(ctx context.Context) error {
		user, err := a.userRepo.GetByEmail(ctx, input.Email)
		if err != nil {
			if errors.Is(err, authDomain.ErrUserNotFound) {
				return authDomain.ErrInvalidRecoveryKey
			}
			return err
		}

		activeKey, err := a.recoveryKeyRepo.GetActiveByUserID(ctx, user.ID)
		if err != nil {
			if errors.Is(err, authDomain.ErrRecoveryKeyNotFound) {
				return authDomain.ErrInvalidRecoveryKey
			}
			return err
		}

		if !a.recoveryKeyHasher.Verify(input.RecoveryKey, activeKey.KeyHash, activeKey.Salt) {
			return authDomain.ErrInvalidRecoveryKey
		}

		material, err := a.newPasswordMaterial(input.NewPassword)
		if err != nil {
			return err
		}

		var plainVaultKey string
		vaultKeyReset := false
		if activeKey.HasVaultKeyEnvelope() {
			plainVaultKey, err = a.vaultKeyManager.Decrypt(
				activeKey.VaultKeyEnvelope(),
				input.RecoveryKey,
				activeKey.Salt,
			)
			if err != nil {
				if errors.Is(err, cryptoDomain.ErrAuthenticationFailed) {
					return authDomain.ErrInvalidRecoveryKey
				}
				return err
			}
			envelope, err := a.vaultKeyManager.Encrypt(plainVaultKey, input.NewPassword, material.vaultSalt)
			if err != nil {
				return err
			}
			user.SetVaultKeyEnvelope(envelope)
		} else {
			generated, err := a.vaultKeyManager.Generate(input.NewPassword, material.vaultSalt)
			if err != nil {
				return err
			}
			plainVaultKey = generated.PlainKey
			vaultKeyReset = true
			user.SetVaultKeyEnvelope(&generated.Envelope)
		}

		now := a.now()
		material.applyTo(user)
		user.UpdatedAt = now

		plainRecoveryKey, recoveryKey, err := a.newRecoveryKey(user.ID, plainVaultKey)
		if err != nil {
			return err
		}

		if err := a.userRepo.Update(ctx, user); err != nil {
			return err
		}
		if err := a.recoveryKeyRepo.MarkUsed(ctx, activeKey.ID, now); err != nil {
			return err
		}
		if err := a.recoveryKeyRepo.RevokeActive(ctx, user.ID, now); err != nil {
			return err
		}
		if err := a.recoveryKeyRepo.Create(ctx, recoveryKey); err != nil {
			return err
		}

		output = &authDomain.ResetPasswordOutput{
			UserID:        user.ID,
			RecoveryKey:   plainRecoveryKey,
			VaultKey:      plainVaultKey,
			VaultKeyReset: vaultKeyReset,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	a.sessions.DestroyUser(output.UserID)

	if a.logger != nil {
		attrs := []any{slog.String("user_id", output.UserID.String())}
		if output.VaultKeyReset {
			a.logger.Warn("password reset minted a new vault key", attrs...)
		} else {
			a.logger.Info("password reset with recovery key", attrs...)
		}
	}
	return output, nil
}
