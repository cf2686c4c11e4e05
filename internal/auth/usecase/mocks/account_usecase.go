// Package mocks provides mock implementations of the account use case.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	authDomain "github.com/allisson/passvault/internal/auth/domain"
)

// MockAccountUseCase is a mock implementation of AccountUseCase.
type MockAccountUseCase struct {
	mock.Mock
}

func (m *MockAccountUseCase) Signup(
	ctx context.Context,
	input *authDomain.SignupInput,
) (*authDomain.SignupOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.SignupOutput), args.Error(1)
}

func (m *MockAccountUseCase) Login(
	ctx context.Context,
	input *authDomain.LoginInput,
) (*authDomain.LoginOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.LoginOutput), args.Error(1)
}

func (m *MockAccountUseCase) Logout(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockAccountUseCase) Authenticate(ctx context.Context, token string) (*authDomain.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.User), args.Error(1)
}

func (m *MockAccountUseCase) ChangePassword(ctx context.Context, input *authDomain.ChangePasswordInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}

func (m *MockAccountUseCase) RotateRecoveryKey(
	ctx context.Context,
	input *authDomain.RotateRecoveryKeyInput,
) (string, error) {
	args := m.Called(ctx, input)
	return args.String(0), args.Error(1)
}

func (m *MockAccountUseCase) ResetPasswordWithRecoveryKey(
	ctx context.Context,
	input *authDomain.ResetPasswordInput,
) (*authDomain.ResetPasswordOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.ResetPasswordOutput), args.Error(1)
}
