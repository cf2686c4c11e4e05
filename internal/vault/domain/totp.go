package domain

import (
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/passvault/internal/crypto/domain"
)

// TotpState is the lifecycle state of a TOTP secret.
type TotpState string

const (
	TotpActive   TotpState = "active"
	TotpArchived TotpState = "archived"
)

// Valid reports whether s is a known state.
func (s TotpState) Valid() bool {
	return s == TotpActive || s == TotpArchived
}

// Default TOTP parameters applied when the client omits them.
const (
	DefaultTotpAlgorithm = "SHA1"
	DefaultTotpDigits    = 6
	DefaultTotpPeriod    = 30
)

// TotpSecret is the hex-encoded AEAD envelope of a credential's TOTP seed. A
// credential has at most one.
type TotpSecret struct {
	ID              uuid.UUID
	CredentialID    uuid.UUID
	EncryptedSecret string
	SecretIV        string
	SecretAuthTag   string
	Algorithm       string
	Digits          int
	Period          int
	State           TotpState
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Envelope returns the stored envelope in the form the TOTP cipher expects.
func (t *TotpSecret) Envelope() *cryptoDomain.TotpEnvelope {
	return &cryptoDomain.TotpEnvelope{
		IV:              t.SecretIV,
		EncryptedSecret: t.EncryptedSecret,
		AuthTag:         t.SecretAuthTag,
	}
}
