// Package domain defines vault entries and the security signals written onto them:
// credentials, their TOTP secrets and the security score derived from both.
//
// Secrets only ever appear here as client-produced AEAD envelopes.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// CredentialType identifies what a vault entry stores.
type CredentialType string

const (
	CredentialTypeLogin      CredentialType = "login"
	CredentialTypeSecureNote CredentialType = "secure_note"
	CredentialTypeCard       CredentialType = "card"
	CredentialTypeIdentity   CredentialType = "identity"
)

// HasPassword reports whether entries of this type carry a password.
func (t CredentialType) HasPassword() bool {
	return t == CredentialTypeLogin
}

// CredentialState is the lifecycle state of a credential.
type CredentialState string

const (
	CredentialActive   CredentialState = "active"
	CredentialArchived CredentialState = "archived"
	CredentialDeleted  CredentialState = "deleted"
)

// Payload is the AEAD envelope of a credential secret as produced by the client.
type Payload struct {
	DataEnc     string
	DataIV      string
	DataAuthTag string
}

// Complete reports whether all three envelope fields are present.
func (p Payload) Complete() bool {
	return p.DataEnc != "" && p.DataIV != "" && p.DataAuthTag != ""
}

// Credential is a vault entry. Compromised and PasswordReused are written by the
// classifier on every create or update and are never set by callers.
type Credential struct {
	ID                  uuid.UUID
	UserID              uuid.UUID
	Title               string
	Type                CredentialType
	Payload             Payload
	PasswordStrength    *float64
	Compromised         bool
	PasswordReused      bool
	Has2FA              bool
	PasswordLastChanged *time.Time
	State               CredentialState
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// IsPasswordBearing reports whether the credential carries a password.
func (c *Credential) IsPasswordBearing() bool {
	return c.Type.HasPassword()
}

// IsActive reports whether the credential is in the active state.
func (c *Credential) IsActive() bool {
	return c.State == CredentialActive
}

// PasswordAge returns how long ago the password was last changed, falling back to
// the creation time.
func (c *Credential) PasswordAge(now time.Time) time.Duration {
	changed := c.CreatedAt
	if c.PasswordLastChanged != nil {
		changed = *c.PasswordLastChanged
	}
	return now.Sub(changed)
}
