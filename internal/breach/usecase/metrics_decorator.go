package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	breachDomain "github.com/allisson/passvault/internal/breach/domain"
	"github.com/allisson/passvault/internal/metrics"
)

const metricsDomain = "breach"

// breachUseCaseWithMetrics decorates BreachUseCase with metrics instrumentation.
type breachUseCaseWithMetrics struct {
	next    BreachUseCase
	metrics metrics.BusinessMetrics
}

// NewBreachUseCaseWithMetrics wraps a BreachUseCase with metrics recording. Syncs also
// count the alerts they create.
func NewBreachUseCaseWithMetrics(useCase BreachUseCase, m metrics.BusinessMetrics) BreachUseCase {
	return &breachUseCaseWithMetrics{next: useCase, metrics: m}
}

func (b *breachUseCaseWithMetrics) CheckUserBreaches(
	ctx context.Context,
	userID uuid.UUID,
) (*breachDomain.CheckResult, error) {
	start := time.Now()
	result, err := b.next.CheckUserBreaches(ctx, userID)
	metrics.Observe(ctx, b.metrics, metricsDomain, "check_user", start, err)
	if result != nil && result.NewBreaches > 0 {
		b.metrics.RecordItems(ctx, metricsDomain, "alerts_created", int64(result.NewBreaches))
	}
	return result, err
}

// CheckAllUsersBreaches records the batch only. The per-user checks run on the
// undecorated use case.
func (b *breachUseCaseWithMetrics) CheckAllUsersBreaches(ctx context.Context) ([]*breachDomain.CheckResult, error) {
	start := time.Now()
	results, err := b.next.CheckAllUsersBreaches(ctx)
	metrics.Observe(ctx, b.metrics, metricsDomain, "check_all_users", start, err)

	var created, failed int64
	for _, result := range results {
		if result.Err != nil {
			failed++
			continue
		}
		created += int64(result.NewBreaches)
	}
	if created > 0 {
		b.metrics.RecordItems(ctx, metricsDomain, "alerts_created", created)
	}
	if failed > 0 {
		b.metrics.RecordItems(ctx, metricsDomain, "user_checks_failed", failed)
	}
	return results, err
}

func (b *breachUseCaseWithMetrics) ToggleBreachResolved(
	ctx context.Context,
	userID, alertID uuid.UUID,
) (*breachDomain.BreachAlert, error) {
	start := time.Now()
	alert, err := b.next.ToggleBreachResolved(ctx, userID, alertID)
	metrics.Observe(ctx, b.metrics, metricsDomain, "toggle_resolved", start, err)
	return alert, err
}

func (b *breachUseCaseWithMetrics) ToggleBreachDismissed(
	ctx context.Context,
	userID, alertID uuid.UUID,
) (*breachDomain.BreachAlert, error) {
	start := time.Now()
	alert, err := b.next.ToggleBreachDismissed(ctx, userID, alertID)
	metrics.Observe(ctx, b.metrics, metricsDomain, "toggle_dismissed", start, err)
	return alert, err
}

func (b *breachUseCaseWithMetrics) ListAlerts(
	ctx context.Context,
	userID uuid.UUID,
) ([]*breachDomain.BreachAlert, error) {
	start := time.Now()
	alerts, err := b.next.ListAlerts(ctx, userID)
	metrics.Observe(ctx, b.metrics, metricsDomain, "list_alerts", start, err)
	return alerts, err
}
