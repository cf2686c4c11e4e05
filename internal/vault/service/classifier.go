// Package service holds the pure security logic applied to vault entries: the
// classify-then-persist classifier and the security score.
package service

import (
	"context"
	"log/slog"
	"math"

	"github.com/google/uuid"

	apperrors "github.com/allisson/passvault/internal/errors"
	vaultDomain "github.com/allisson/passvault/internal/vault/domain"
)

// CompromisedStrengthThreshold is the strength below which a password is compromised.
const CompromisedStrengthThreshold = 30.0

// MissingFieldPolicy holds the classification used when the signal a rule needs is
// absent or invalid. Writes are never blocked by an incomplete signal.
type MissingFieldPolicy struct {
	// CompromisedWhenStrengthMissing applies when PasswordStrength is nil, NaN, infinite
	// or outside 0-100.
	CompromisedWhenStrengthMissing bool

	// ReusedWhenPayloadIncomplete applies when any of DataEnc, DataIV or DataAuthTag is
	// empty.
	ReusedWhenPayloadIncomplete bool
}

// DefaultMissingFieldPolicy classifies incomplete credentials as neither compromised
// nor reused.
var DefaultMissingFieldPolicy = MissingFieldPolicy{}

// CheckCompromised applies the compromise rule with DefaultMissingFieldPolicy.
func CheckCompromised(strength float64) bool {
	compromised, _ := DefaultMissingFieldPolicy.compromised(&strength)
	return compromised
}

// compromised returns the classification and whether strength was usable.
func (p MissingFieldPolicy) compromised(strength *float64) (bool, bool) {
	if strength == nil || !validStrength(*strength) {
		return p.CompromisedWhenStrengthMissing, false
	}
	return *strength < CompromisedStrengthThreshold, true
}

func validStrength(s float64) bool {
	return !math.IsNaN(s) && !math.IsInf(s, 0) && s >= 0 && s <= 100
}

// ReuseCounter counts the user's active password-bearing credentials whose payload
// tuple equals payload, excluding excludeID.
type ReuseCounter interface {
	CountByPayload(
		ctx context.Context,
		userID uuid.UUID,
		payload vaultDomain.Payload,
		excludeID uuid.UUID,
	) (int, error)
}

// Classifier computes Compromised and PasswordReused before a credential write.
//
// Reuse is exact equality of the (DataEnc, DataIV, DataAuthTag) tuple. Clients that
// encrypt with a random IV will therefore only see reuse for copied entries.
type Classifier struct {
	reuse  ReuseCounter
	policy MissingFieldPolicy
	logger *slog.Logger
}

// NewClassifier creates a Classifier.
func NewClassifier(reuse ReuseCounter, policy MissingFieldPolicy, logger *slog.Logger) *Classifier {
	return &Classifier{reuse: reuse, policy: policy, logger: logger}
}

// Classify sets the security flags of cred in place. Only a failing reuse lookup is
// returned as an error.
func (c *Classifier) Classify(ctx context.Context, cred *vaultDomain.Credential) error {
	if !cred.IsPasswordBearing() {
		cred.Compromised = false
		cred.PasswordReused = false
		return nil
	}

	compromised, ok := c.policy.compromised(cred.PasswordStrength)
	if !ok {
		c.logger.Warn("password strength missing or invalid, applying policy default",
			slog.String("credential_id", cred.ID.String()),
			slog.Bool("compromised", compromised),
		)
	}
	cred.Compromised = compromised

	if !cred.Payload.Complete() {
		c.logger.Warn("credential payload incomplete, applying policy default",
			slog.String("credential_id", cred.ID.String()),
			slog.Bool("password_reused", c.policy.ReusedWhenPayloadIncomplete),
		)
		cred.PasswordReused = c.policy.ReusedWhenPayloadIncomplete
		return nil
	}

	n, err := c.reuse.CountByPayload(ctx, cred.UserID, cred.Payload, cred.ID)
	if err != nil {
		return apperrors.Wrap(err, "failed to check password reuse")
	}
	cred.PasswordReused = n > 0
	return nil
}
