package domain

import (
	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/passvault/internal/validation"
)

var credentialTypes = []any{
	CredentialTypeLogin,
	CredentialTypeSecureNote,
	CredentialTypeCard,
	CredentialTypeIdentity,
}

// CreateCredentialInput contains the parameters for storing a new credential.
// PasswordStrength is the client's 0-100 estimate; it is not validated here because
// a missing or invalid value degrades to the missing-field policy instead of failing.
type CreateCredentialInput struct {
	UserID           uuid.UUID
	Title            string
	Type             CredentialType
	Payload          Payload
	PasswordStrength *float64
}

// Validate checks the create input.
func (i *CreateCredentialInput) Validate() error {
	err := validation.ValidateStruct(i,
		validation.Field(&i.UserID, customValidation.NotNilUUID),
		validation.Field(&i.Title, validation.Required, customValidation.NotBlank, validation.Length(1, 255)),
		validation.Field(&i.Type, validation.Required, validation.In(credentialTypes...)),
		validation.Field(&i.Payload),
	)
	return customValidation.WrapValidationError(err)
}

// UpdateCredentialInput replaces the title, payload and strength of a credential.
type UpdateCredentialInput struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	Title            string
	Payload          Payload
	PasswordStrength *float64
}

// Validate checks the update input.
func (i *UpdateCredentialInput) Validate() error {
	err := validation.ValidateStruct(i,
		validation.Field(&i.ID, customValidation.NotNilUUID),
		validation.Field(&i.UserID, customValidation.NotNilUUID),
		validation.Field(&i.Title, validation.Required, customValidation.NotBlank, validation.Length(1, 255)),
		validation.Field(&i.Payload),
	)
	return customValidation.WrapValidationError(err)
}

// Validate checks that the envelope fields present are base64. Missing fields are
// accepted; the classifier's missing-field policy handles them.
func (p Payload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.DataEnc, customValidation.Base64),
		validation.Field(&p.DataIV, customValidation.Base64),
		validation.Field(&p.DataAuthTag, customValidation.Base64),
	)
}

// CreateTotpInput carries a client-encrypted TOTP seed. Secret must stay empty: the
// server only accepts the hex envelope.
type CreateTotpInput struct {
	UserID          uuid.UUID
	CredentialID    uuid.UUID
	Secret          string //nolint:gosec // rejected when set
	EncryptedSecret string
	SecretIV        string
	SecretAuthTag   string
	Algorithm       string
	Digits          int
	Period          int
}

// ApplyDefaults fills omitted TOTP parameters.
func (i *CreateTotpInput) ApplyDefaults() {
	if i.Algorithm == "" {
		i.Algorithm = DefaultTotpAlgorithm
	}
	if i.Digits == 0 {
		i.Digits = DefaultTotpDigits
	}
	if i.Period == 0 {
		i.Period = DefaultTotpPeriod
	}
}

// Validate checks the TOTP input. Call ApplyDefaults first.
func (i *CreateTotpInput) Validate() error {
	if i.Secret != "" {
		return ErrPlaintextTotpSecret
	}
	err := validation.ValidateStruct(i,
		validation.Field(&i.UserID, customValidation.NotNilUUID),
		validation.Field(&i.CredentialID, customValidation.NotNilUUID),
		validation.Field(&i.EncryptedSecret, validation.Required, customValidation.Hex),
		validation.Field(&i.SecretIV, validation.Required, customValidation.Hex, validation.Length(24, 24)),
		validation.Field(&i.SecretAuthTag, validation.Required, customValidation.Hex, validation.Length(32, 32)),
		validation.Field(&i.Algorithm, validation.Required, validation.In("SHA1", "SHA256", "SHA512")),
		validation.Field(&i.Digits, validation.In(6, 7, 8)),
		validation.Field(&i.Period, validation.Min(10), validation.Max(300)),
	)
	return customValidation.WrapValidationError(err)
}

// UpdateTotpStateInput moves a TOTP secret between active and archived.
type UpdateTotpStateInput struct {
	UserID       uuid.UUID
	CredentialID uuid.UUID
	State        TotpState
}

// Validate checks the state input.
func (i *UpdateTotpStateInput) Validate() error {
	err := validation.ValidateStruct(i,
		validation.Field(&i.UserID, customValidation.NotNilUUID),
		validation.Field(&i.CredentialID, customValidation.NotNilUUID),
		validation.Field(&i.State, validation.Required, validation.In(TotpActive, TotpArchived)),
	)
	return customValidation.WrapValidationError(err)
}
