// Package mocks provides mock implementations of the breach use cases.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	breachDomain "github.com/allisson/passvault/internal/breach/domain"
)

// MockBreachUseCase is a mock implementation of BreachUseCase.
type MockBreachUseCase struct {
	mock.Mock
}

func (m *MockBreachUseCase) CheckUserBreaches(
	ctx context.Context,
	userID uuid.UUID,
) (*breachDomain.CheckResult, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*breachDomain.CheckResult), args.Error(1)
}

func (m *MockBreachUseCase) CheckAllUsersBreaches(ctx context.Context) ([]*breachDomain.CheckResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*breachDomain.CheckResult), args.Error(1)
}

func (m *MockBreachUseCase) ToggleBreachResolved(
	ctx context.Context,
	userID, alertID uuid.UUID,
) (*breachDomain.BreachAlert, error) {
	return alertResult(m.Called(ctx, userID, alertID))
}

func (m *MockBreachUseCase) ToggleBreachDismissed(
	ctx context.Context,
	userID, alertID uuid.UUID,
) (*breachDomain.BreachAlert, error) {
	return alertResult(m.Called(ctx, userID, alertID))
}

func (m *MockBreachUseCase) ListAlerts(
	ctx context.Context,
	userID uuid.UUID,
) ([]*breachDomain.BreachAlert, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*breachDomain.BreachAlert), args.Error(1)
}

func alertResult(args mock.Arguments) (*breachDomain.BreachAlert, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*breachDomain.BreachAlert), args.Error(1)
}
