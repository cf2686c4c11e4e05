package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	vaultDomain "github.com/allisson/passvault/internal/vault/domain"
	vaultService "github.com/allisson/passvault/internal/vault/service"
)

// scoreUseCase implements ScoreUseCase.
type scoreUseCase struct {
	credentialRepo CredentialRepository
	logger         *slog.Logger
	now            func() time.Time
}

// NewScoreUseCase creates a new ScoreUseCase.
func NewScoreUseCase(credentialRepo CredentialRepository, logger *slog.Logger) ScoreUseCase {
	return &scoreUseCase{
		credentialRepo: credentialRepo,
		logger:         logger,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// ComputeSecurityScore scores the user's active password-bearing credentials from
// the flags the classifier already wrote.
func (s *scoreUseCase) ComputeSecurityScore(
	ctx context.Context,
	userID uuid.UUID,
	opts vaultDomain.ScoreOptions,
) (*vaultDomain.SecurityScore, error) {
	creds, err := s.credentialRepo.ListActiveByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := vaultService.CollectScoreStats(creds, opts, s.now())
	score := vaultService.CalculateScore(stats, opts)

	s.logger.Debug("security score computed",
		slog.String("user_id", userID.String()),
		slog.Int("score", score.Score),
		slog.String("status", score.Status),
	)
	return score, nil
}
