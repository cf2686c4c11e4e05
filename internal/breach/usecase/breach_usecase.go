package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	authDomain "github.com/allisson/passvault/internal/auth/domain"
	breachDomain "github.com/allisson/passvault/internal/breach/domain"
	breachService "github.com/allisson/passvault/internal/breach/service"
	"github.com/allisson/passvault/internal/database"
	apperrors "github.com/allisson/passvault/internal/errors"
	vaultDomain "github.com/allisson/passvault/internal/vault/domain"
)

const defaultUserPageSize = 100

// SyncConfig paces the calls made against the breach provider.
type SyncConfig struct {
	// CredentialDelay is the minimum gap between two credential lookups.
	CredentialDelay time.Duration
	// UserDelay is the pause between the end of one user's check and the start of the next.
	UserDelay time.Duration
	// PageSize is the number of users loaded per page in a batch.
	PageSize int
}

// breachUseCase implements BreachUseCase.
type breachUseCase struct {
	txManager         database.TxManager
	alertRepo         BreachAlertRepository
	credentials       CredentialLister
	users             UserDirectory
	provider          breachService.Provider
	credentialLimiter *rate.Limiter
	userDelay         time.Duration
	pageSize          int
	logger            *slog.Logger
	now               func() time.Time
	sleep             func(ctx context.Context, d time.Duration) error
}

// NewBreachUseCase creates a new BreachUseCase.
func NewBreachUseCase(
	txManager database.TxManager,
	alertRepo BreachAlertRepository,
	credentials CredentialLister,
	users UserDirectory,
	provider breachService.Provider,
	config SyncConfig,
	logger *slog.Logger,
) BreachUseCase {
	pageSize := config.PageSize
	if pageSize <= 0 {
		pageSize = defaultUserPageSize
	}
	return &breachUseCase{
		txManager:         txManager,
		alertRepo:         alertRepo,
		credentials:       credentials,
		users:             users,
		provider:          provider,
		credentialLimiter: newLimiter(config.CredentialDelay),
		userDelay:         config.UserDelay,
		pageSize:          pageSize,
		logger:            logger,
		now:               func() time.Time { return time.Now().UTC() },
		sleep:             sleep,
	}
}

// newLimiter allows one event per delay. A non-positive delay disables pacing.
func newLimiter(delay time.Duration) *rate.Limiter {
	if delay <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(delay), 1)
}

// wait blocks on the limiter and reports the context error when it was cancelled.
func wait(ctx context.Context, limiter *rate.Limiter) error {
	if err := limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return err
	}
	return nil
}

// sleep blocks for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (b *breachUseCase) CheckUserBreaches(ctx context.Context, userID uuid.UUID) (*breachDomain.CheckResult, error) {
	user, err := b.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	creds, err := b.credentials.ListActiveByUserID(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list credentials")
	}

	result := &breachDomain.CheckResult{UserID: userID}
	if len(creds) == 0 {
		return result, nil
	}

	existing, err := b.alertRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list breach alerts")
	}
	known := make(map[string]struct{}, len(existing))
	for _, alert := range existing {
		known[alert.Key()] = struct{}{}
	}

	breaches, err := b.provider.GetAllBreaches(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to fetch breaches")
	}

	processed := make(map[string]struct{})
	for _, cred := range creds {
		service := breachService.NormalizeServiceName(cred.Title)
		if service == "" {
			continue
		}
		if _, ok := processed[service]; ok {
			continue
		}
		processed[service] = struct{}{}

		if err := wait(ctx, b.credentialLimiter); err != nil {
			return nil, err
		}

		for _, breach := range breachService.MatchBreaches(service, breaches) {
			result.TotalBreaches++

			key := breachDomain.AlertKey(breach.Name, user.Email)
			if _, ok := known[key]; ok {
				continue
			}

			created, err := b.createAlert(ctx, user, cred, breach)
			if err != nil {
				return nil, err
			}
			known[key] = struct{}{}
			if created {
				result.NewBreaches++
			}
		}
	}

	if result.NewBreaches > 0 {
		b.logger.Info("breach alerts created",
			slog.String("user_id", userID.String()),
			slog.Int("new_breaches", result.NewBreaches),
			slog.Int("total_breaches", result.TotalBreaches),
		)
	}
	return result, nil
}

// createAlert inserts one alert. It returns false when a concurrent sync already
// inserted the same source and email.
func (b *breachUseCase) createAlert(
	ctx context.Context,
	user *authDomain.User,
	cred *vaultDomain.Credential,
	breach breachDomain.Breach,
) (bool, error) {
	now := b.now()
	credentialID := cred.ID
	alert := &breachDomain.BreachAlert{
		ID:            uuid.Must(uuid.NewV7()),
		UserID:        user.ID,
		CredentialID:  &credentialID,
		AffectedEmail: user.Email,
		BreachSource:  breach.Name,
		BreachDate:    breach.BreachDate,
		AffectedData:  breach.DataClasses,
		Severity:      breachService.NormalizeSeverity(breach.DataClasses),
		Status:        breachDomain.StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := b.alertRepo.Create(ctx, alert); err != nil {
		if apperrors.Is(err, breachDomain.ErrBreachAlertExists) {
			return false, nil
		}
		return false, apperrors.Wrap(err, "failed to create breach alert")
	}
	return true, nil
}

// CheckAllUsersBreaches checks users one page at a time, pausing UserDelay after each
// user finishes before starting the next.
func (b *breachUseCase) CheckAllUsersBreaches(ctx context.Context) ([]*breachDomain.CheckResult, error) {
	var results []*breachDomain.CheckResult

	for offset := 0; ; offset += b.pageSize {
		users, err := b.users.List(ctx, offset, b.pageSize)
		if err != nil {
			return results, apperrors.Wrap(err, "failed to list users")
		}

		for i, user := range users {
			if offset+i > 0 {
				if err := b.sleep(ctx, b.userDelay); err != nil {
					return results, err
				}
			}
			if err := ctx.Err(); err != nil {
				return results, err
			}

			result, err := b.CheckUserBreaches(ctx, user.ID)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return results, ctxErr
				}
				b.logger.Error("breach check failed",
					slog.String("user_id", user.ID.String()),
					slog.Any("error", err),
				)
				result = &breachDomain.CheckResult{UserID: user.ID, Err: err}
			}
			results = append(results, result)
		}

		if len(users) < b.pageSize {
			return results, nil
		}
	}
}

func (b *breachUseCase) ToggleBreachResolved(
	ctx context.Context,
	userID, alertID uuid.UUID,
) (*breachDomain.BreachAlert, error) {
	return b.toggle(ctx, userID, alertID, breachDomain.StatusResolved)
}

func (b *breachUseCase) ToggleBreachDismissed(
	ctx context.Context,
	userID, alertID uuid.UUID,
) (*breachDomain.BreachAlert, error) {
	return b.toggle(ctx, userID, alertID, breachDomain.StatusDismissed)
}

// toggle reads the alert under a row lock so concurrent toggles apply one after the
// other.
func (b *breachUseCase) toggle(
	ctx context.Context,
	userID, alertID uuid.UUID,
	target breachDomain.Status,
) (*breachDomain.BreachAlert, error) {
	var alert *breachDomain.BreachAlert

	err := b.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		alert, err = b.alertRepo.GetByIDForUpdate(ctx, alertID)
		if err != nil {
			return err
		}
		if alert.UserID != userID {
			return breachDomain.ErrBreachAlertAccessDenied
		}

		alert.Toggle(target)
		alert.UpdatedAt = b.now()
		return b.alertRepo.UpdateStatus(ctx, alert.ID, alert.Status, alert.UpdatedAt)
	})
	if err != nil {
		return nil, err
	}
	return alert, nil
}

func (b *breachUseCase) ListAlerts(ctx context.Context, userID uuid.UUID) ([]*breachDomain.BreachAlert, error) {
	return b.alertRepo.ListByUserID(ctx, userID)
}
