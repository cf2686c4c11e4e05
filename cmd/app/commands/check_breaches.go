package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	breachDomain "github.com/allisson/passvault/internal/breach/domain"
	breachUseCase "github.com/allisson/passvault/internal/breach/usecase"
)

// RunCheckBreaches runs a breach sync for one user, or for every user when userID is
// empty, and prints the per-user outcome.
//
// Requirements: Database must be migrated and accessible.
func RunCheckBreaches(
	ctx context.Context,
	useCase breachUseCase.BreachUseCase,
	logger *slog.Logger,
	writer io.Writer,
	userID string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	var results []*breachDomain.CheckResult
	if userID != "" {
		id, err := parseUserID(userID)
		if err != nil {
			return err
		}

		logger.Info("checking breaches", slog.String("user_id", id.String()))
		result, err := useCase.CheckUserBreaches(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to check breaches: %w", err)
		}
		results = []*breachDomain.CheckResult{result}
	} else {
		logger.Info("checking breaches for all users")
		all, err := useCase.CheckAllUsersBreaches(ctx)
		if err != nil {
			return fmt.Errorf("failed to check breaches: %w", err)
		}
		results = all
	}

	if format == "json" {
		return outputCheckBreachesJSON(writer, results)
	}
	outputCheckBreachesText(writer, results)
	return nil
}

// outputCheckBreachesText outputs the result in human-readable text format.
func outputCheckBreachesText(writer io.Writer, results []*breachDomain.CheckResult) {
	if len(results) == 0 {
		_, _ = fmt.Fprintln(writer, "No users checked")
		return
	}
	for _, result := range results {
		if result.Err != nil {
			_, _ = fmt.Fprintf(writer, "User %s: failed: %v\n", result.UserID, result.Err)
			continue
		}
		_, _ = fmt.Fprintf(writer, "User %s: %d new breach alert(s), %d matched breach(es)\n",
			result.UserID, result.NewBreaches, result.TotalBreaches)
	}
}

type checkBreachesOutput struct {
	UserID        uuid.UUID `json:"user_id"`
	NewBreaches   int       `json:"new_breaches"`
	TotalBreaches int       `json:"total_breaches"`
	Error         string    `json:"error,omitempty"`
}

// outputCheckBreachesJSON outputs the result in JSON format for machine consumption.
func outputCheckBreachesJSON(writer io.Writer, results []*breachDomain.CheckResult) error {
	output := make([]checkBreachesOutput, 0, len(results))
	for _, result := range results {
		item := checkBreachesOutput{
			UserID:        result.UserID,
			NewBreaches:   result.NewBreaches,
			TotalBreaches: result.TotalBreaches,
		}
		if result.Err != nil {
			item.Error = result.Err.Error()
		}
		output = append(output, item)
	}
	return writeJSON(writer, output)
}
