package domain

import (
	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/passvault/internal/validation"
)

// SignupInput contains the parameters for creating an account.
type SignupInput struct {
	Email          string
	MasterPassword string //nolint:gosec // plaintext, never persisted
}

// Validate checks the signup input.
func (i *SignupInput) Validate() error {
	err := validation.ValidateStruct(i,
		validation.Field(&i.Email, validation.Required, customValidation.Email, validation.Length(3, 255)),
		validation.Field(&i.MasterPassword, validation.Required, customValidation.DefaultMasterPassword),
	)
	return customValidation.WrapValidationError(err)
}

// SignupOutput is returned once at signup.
// SECURITY: RecoveryKey and VaultKey are plaintext and are never retrievable again.
type SignupOutput struct {
	UserID      uuid.UUID
	RecoveryKey string
	VaultKey    string
}

// LoginInput contains the parameters for opening a session.
type LoginInput struct {
	Email          string
	MasterPassword string //nolint:gosec // plaintext, never persisted
}

// Validate checks the login input.
func (i *LoginInput) Validate() error {
	err := validation.ValidateStruct(i,
		validation.Field(&i.Email, validation.Required),
		validation.Field(&i.MasterPassword, validation.Required),
	)
	return customValidation.WrapValidationError(err)
}

// LoginOutput carries the session token and the unwrapped vault key.
type LoginOutput struct {
	UserID       uuid.UUID
	SessionToken string
	VaultKey     string
}

// ChangePasswordInput contains the parameters for changing the master password.
type ChangePasswordInput struct {
	UserID          uuid.UUID
	CurrentPassword string //nolint:gosec // plaintext, never persisted
	NewPassword     string //nolint:gosec // plaintext, never persisted
}

// Validate checks the password change input.
func (i *ChangePasswordInput) Validate() error {
	err := validation.ValidateStruct(i,
		validation.Field(&i.UserID, customValidation.NotNilUUID),
		validation.Field(&i.CurrentPassword, validation.Required),
		validation.Field(&i.NewPassword, validation.Required, customValidation.DefaultMasterPassword),
	)
	return customValidation.WrapValidationError(err)
}

// RotateRecoveryKeyInput contains the parameters for issuing a new recovery key.
type RotateRecoveryKeyInput struct {
	UserID         uuid.UUID
	MasterPassword string //nolint:gosec // plaintext, never persisted
}

// Validate checks the rotation input.
func (i *RotateRecoveryKeyInput) Validate() error {
	err := validation.ValidateStruct(i,
		validation.Field(&i.UserID, customValidation.NotNilUUID),
		validation.Field(&i.MasterPassword, validation.Required),
	)
	return customValidation.WrapValidationError(err)
}

// ResetPasswordInput contains the parameters for a recovery-key password reset.
type ResetPasswordInput struct {
	Email       string
	RecoveryKey string
	NewPassword string //nolint:gosec // plaintext, never persisted
}

// Validate checks the reset input.
func (i *ResetPasswordInput) Validate() error {
	err := validation.ValidateStruct(i,
		validation.Field(&i.Email, validation.Required),
		validation.Field(&i.RecoveryKey, validation.Required, customValidation.RecoveryKeyFormat),
		validation.Field(&i.NewPassword, validation.Required, customValidation.DefaultMasterPassword),
	)
	return customValidation.WrapValidationError(err)
}

// ResetPasswordOutput is returned after a successful reset.
//
// VaultKeyReset is true when the used recovery key carried no vault-key envelope and
// a new, empty vault key had to be minted; items encrypted under the old key are then
// unreadable.
type ResetPasswordOutput struct {
	UserID        uuid.UUID
	RecoveryKey   string
	VaultKey      string
	VaultKeyReset bool
}
