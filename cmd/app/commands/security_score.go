package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	vaultDomain "github.com/allisson/passvault/internal/vault/domain"
	vaultUseCase "github.com/allisson/passvault/internal/vault/usecase"
)

// RunSecurityScore computes and prints the security score of one user.
//
// Requirements: Database must be migrated and accessible.
func RunSecurityScore(
	ctx context.Context,
	useCase vaultUseCase.ScoreUseCase,
	opts vaultDomain.ScoreOptions,
	logger *slog.Logger,
	writer io.Writer,
	userID string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	id, err := parseUserID(userID)
	if err != nil {
		return err
	}

	logger.Info("computing security score", slog.String("user_id", id.String()))
	score, err := useCase.ComputeSecurityScore(ctx, id, opts)
	if err != nil {
		return fmt.Errorf("failed to compute security score: %w", err)
	}

	if format == "json" {
		return writeJSON(writer, map[string]any{
			"user_id":       id,
			"score":         score.Score,
			"pct":           score.Pct,
			"status":        score.Status,
			"avg_strength":  score.AvgStrength,
			"penalties":     score.Penalties,
			"total":         score.Total,
			"weak":          score.Weak,
			"reused":        score.Reused,
			"compromised":   score.Compromised,
			"missing_2fa":   score.Missing2FA,
			"old_passwords": score.OldPasswords,
		})
	}

	_, _ = fmt.Fprintf(writer, "Security score: %d (%s)\n", score.Score, score.Status)
	_, _ = fmt.Fprintf(writer, "Average strength: %.1f, penalties: %.1f\n", score.AvgStrength, score.Penalties)
	_, _ = fmt.Fprintf(writer,
		"Credentials: %d total, %d weak, %d reused, %d compromised, %d without 2FA, %d old\n",
		score.Total, score.Weak, score.Reused, score.Compromised, score.Missing2FA, score.OldPasswords,
	)
	return nil
}
