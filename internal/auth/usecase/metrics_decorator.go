package usecase

import (
	"context"
	"time"

	authDomain "github.com/allisson/passvault/internal/auth/domain"
	"github.com/allisson/passvault/internal/metrics"
)

const metricsDomain = "auth"

// accountUseCaseWithMetrics decorates AccountUseCase with metrics instrumentation.
type accountUseCaseWithMetrics struct {
	next    AccountUseCase
	metrics metrics.BusinessMetrics
}

// NewAccountUseCaseWithMetrics wraps an AccountUseCase with metrics recording.
func NewAccountUseCaseWithMetrics(useCase AccountUseCase, m metrics.BusinessMetrics) AccountUseCase {
	return &accountUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (a *accountUseCaseWithMetrics) Signup(
	ctx context.Context,
	input *authDomain.SignupInput,
) (*authDomain.SignupOutput, error) {
	start := time.Now()
	output, err := a.next.Signup(ctx, input)
	metrics.Observe(ctx, a.metrics, metricsDomain, "signup", start, err)
	return output, err
}

func (a *accountUseCaseWithMetrics) Login(
	ctx context.Context,
	input *authDomain.LoginInput,
) (*authDomain.LoginOutput, error) {
	start := time.Now()
	output, err := a.next.Login(ctx, input)
	metrics.Observe(ctx, a.metrics, metricsDomain, "login", start, err)
	return output, err
}

func (a *accountUseCaseWithMetrics) Logout(ctx context.Context, token string) error {
	start := time.Now()
	err := a.next.Logout(ctx, token)
	metrics.Observe(ctx, a.metrics, metricsDomain, "logout", start, err)
	return err
}

func (a *accountUseCaseWithMetrics) Authenticate(ctx context.Context, token string) (*authDomain.User, error) {
	start := time.Now()
	user, err := a.next.Authenticate(ctx, token)
	metrics.Observe(ctx, a.metrics, metricsDomain, "authenticate", start, err)
	return user, err
}

func (a *accountUseCaseWithMetrics) ChangePassword(ctx context.Context, input *authDomain.ChangePasswordInput) error {
	start := time.Now()
	err := a.next.ChangePassword(ctx, input)
	metrics.Observe(ctx, a.metrics, metricsDomain, "change_password", start, err)
	return err
}

func (a *accountUseCaseWithMetrics) RotateRecoveryKey(
	ctx context.Context,
	input *authDomain.RotateRecoveryKeyInput,
) (string, error) {
	start := time.Now()
	key, err := a.next.RotateRecoveryKey(ctx, input)
	metrics.Observe(ctx, a.metrics, metricsDomain, "rotate_recovery_key", start, err)
	return key, err
}

func (a *accountUseCaseWithMetrics) ResetPasswordWithRecoveryKey(
	ctx context.Context,
	input *authDomain.ResetPasswordInput,
) (*authDomain.ResetPasswordOutput, error) {
	start := time.Now()
	output, err := a.next.ResetPasswordWithRecoveryKey(ctx, input)
	metrics.Observe(ctx, a.metrics, metricsDomain, "reset_password", start, err)
	return output, err
}
