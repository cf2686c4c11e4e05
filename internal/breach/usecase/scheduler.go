package usecase

import (
	"context"
	"log/slog"
	"time"
)

// Scheduler runs CheckAllUsersBreaches on a fixed interval.
type Scheduler struct {
	useCase  BreachUseCase
	interval time.Duration
	logger   *slog.Logger
}

// NewScheduler creates a new Scheduler.
func NewScheduler(useCase BreachUseCase, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{useCase: useCase, interval: interval, logger: logger}
}

// Start blocks until ctx is cancelled, running a batch sync on every tick. A failed
// batch is logged and retried on the next tick.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("starting breach scheduler", slog.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("stopping breach scheduler")
			return ctx.Err()
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	results, err := s.useCase.CheckAllUsersBreaches(ctx)
	if err != nil {
		s.logger.Error("breach sync aborted", slog.Any("error", err))
	}

	failed, created := 0, 0
	for _, result := range results {
		if result.Err != nil {
			failed++
			continue
		}
		created += result.NewBreaches
	}
	s.logger.Info("breach sync finished",
		slog.Int("users", len(results)),
		slog.Int("failed", failed),
		slog.Int("new_breaches", created),
	)
}
