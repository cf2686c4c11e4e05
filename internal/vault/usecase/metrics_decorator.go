package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/passvault/internal/metrics"
	vaultDomain "github.com/allisson/passvault/internal/vault/domain"
)

const metricsDomain = "vault"

// credentialUseCaseWithMetrics decorates CredentialUseCase with metrics instrumentation.
type credentialUseCaseWithMetrics struct {
	next    CredentialUseCase
	metrics metrics.BusinessMetrics
}

// NewCredentialUseCaseWithMetrics wraps a CredentialUseCase with metrics recording.
// Successful writes also count compromised and reused classifications.
func NewCredentialUseCaseWithMetrics(useCase CredentialUseCase, m metrics.BusinessMetrics) CredentialUseCase {
	return &credentialUseCaseWithMetrics{next: useCase, metrics: m}
}

func (c *credentialUseCaseWithMetrics) recordFlags(ctx context.Context, cred *vaultDomain.Credential) {
	if cred == nil {
		return
	}
	if cred.Compromised {
		c.metrics.RecordItems(ctx, metricsDomain, "compromised_classified", 1)
	}
	if cred.PasswordReused {
		c.metrics.RecordItems(ctx, metricsDomain, "reused_classified", 1)
	}
}

func (c *credentialUseCaseWithMetrics) Create(
	ctx context.Context,
	input *vaultDomain.CreateCredentialInput,
) (*vaultDomain.Credential, error) {
	start := time.Now()
	cred, err := c.next.Create(ctx, input)
	metrics.Observe(ctx, c.metrics, metricsDomain, "credential_create", start, err)
	c.recordFlags(ctx, cred)
	return cred, err
}

func (c *credentialUseCaseWithMetrics) Update(
	ctx context.Context,
	input *vaultDomain.UpdateCredentialInput,
) (*vaultDomain.Credential, error) {
	start := time.Now()
	cred, err := c.next.Update(ctx, input)
	metrics.Observe(ctx, c.metrics, metricsDomain, "credential_update", start, err)
	c.recordFlags(ctx, cred)
	return cred, err
}

func (c *credentialUseCaseWithMetrics) Get(ctx context.Context, userID, id uuid.UUID) (*vaultDomain.Credential, error) {
	start := time.Now()
	cred, err := c.next.Get(ctx, userID, id)
	metrics.Observe(ctx, c.metrics, metricsDomain, "credential_get", start, err)
	return cred, err
}

func (c *credentialUseCaseWithMetrics) Archive(
	ctx context.Context,
	userID, id uuid.UUID,
) (*vaultDomain.Credential, error) {
	start := time.Now()
	cred, err := c.next.Archive(ctx, userID, id)
	metrics.Observe(ctx, c.metrics, metricsDomain, "credential_archive", start, err)
	return cred, err
}

func (c *credentialUseCaseWithMetrics) Restore(
	ctx context.Context,
	userID, id uuid.UUID,
) (*vaultDomain.Credential, error) {
	start := time.Now()
	cred, err := c.next.Restore(ctx, userID, id)
	metrics.Observe(ctx, c.metrics, metricsDomain, "credential_restore", start, err)
	return cred, err
}

func (c *credentialUseCaseWithMetrics) Delete(ctx context.Context, userID, id uuid.UUID) error {
	start := time.Now()
	err := c.next.Delete(ctx, userID, id)
	metrics.Observe(ctx, c.metrics, metricsDomain, "credential_delete", start, err)
	return err
}

// totpUseCaseWithMetrics decorates TotpUseCase with metrics instrumentation.
type totpUseCaseWithMetrics struct {
	next    TotpUseCase
	metrics metrics.BusinessMetrics
}

// NewTotpUseCaseWithMetrics wraps a TotpUseCase with metrics recording.
func NewTotpUseCaseWithMetrics(useCase TotpUseCase, m metrics.BusinessMetrics) TotpUseCase {
	return &totpUseCaseWithMetrics{next: useCase, metrics: m}
}

func (t *totpUseCaseWithMetrics) Create(
	ctx context.Context,
	input *vaultDomain.CreateTotpInput,
) (*vaultDomain.TotpSecret, error) {
	start := time.Now()
	totp, err := t.next.Create(ctx, input)
	metrics.Observe(ctx, t.metrics, metricsDomain, "totp_create", start, err)
	return totp, err
}

func (t *totpUseCaseWithMetrics) Get(
	ctx context.Context,
	userID, credentialID uuid.UUID,
) (*vaultDomain.TotpSecret, error) {
	start := time.Now()
	totp, err := t.next.Get(ctx, userID, credentialID)
	metrics.Observe(ctx, t.metrics, metricsDomain, "totp_get", start, err)
	return totp, err
}

func (t *totpUseCaseWithMetrics) Reveal(
	ctx context.Context,
	userID, credentialID uuid.UUID,
	vaultKey string,
) (string, error) {
	start := time.Now()
	secret, err := t.next.Reveal(ctx, userID, credentialID, vaultKey)
	metrics.Observe(ctx, t.metrics, metricsDomain, "totp_reveal", start, err)
	return secret, err
}

func (t *totpUseCaseWithMetrics) UpdateState(
	ctx context.Context,
	input *vaultDomain.UpdateTotpStateInput,
) (*vaultDomain.TotpSecret, error) {
	start := time.Now()
	totp, err := t.next.UpdateState(ctx, input)
	metrics.Observe(ctx, t.metrics, metricsDomain, "totp_update_state", start, err)
	return totp, err
}

func (t *totpUseCaseWithMetrics) Delete(ctx context.Context, userID, credentialID uuid.UUID) error {
	start := time.Now()
	err := t.next.Delete(ctx, userID, credentialID)
	metrics.Observe(ctx, t.metrics, metricsDomain, "totp_delete", start, err)
	return err
}

// scoreUseCaseWithMetrics decorates ScoreUseCase with metrics instrumentation.
type scoreUseCaseWithMetrics struct {
	next    ScoreUseCase
	metrics metrics.BusinessMetrics
}

// NewScoreUseCaseWithMetrics wraps a ScoreUseCase with metrics recording.
func NewScoreUseCaseWithMetrics(useCase ScoreUseCase, m metrics.BusinessMetrics) ScoreUseCase {
	return &scoreUseCaseWithMetrics{next: useCase, metrics: m}
}

func (s *scoreUseCaseWithMetrics) ComputeSecurityScore(
	ctx context.Context,
	userID uuid.UUID,
	opts vaultDomain.ScoreOptions,
) (*vaultDomain.SecurityScore, error) {
	start := time.Now()
	score, err := s.next.ComputeSecurityScore(ctx, userID, opts)
	metrics.Observe(ctx, s.metrics, metricsDomain, "security_score", start, err)
	return score, err
}
