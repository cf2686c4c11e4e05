package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	authDomain "github.com/allisson/passvault/internal/auth/domain"
	"github.com/allisson/passvault/internal/auth/usecase"
	usecaseMocks "github.com/allisson/passvault/internal/auth/usecase/mocks"
	metricsMocks "github.com/allisson/passvault/internal/metrics/mocks"
)

func TestAccountUseCaseWithMetrics(t *testing.T) {
	ctx := context.Background()

	t.Run("Login success", func(t *testing.T) {
		mockNext := &usecaseMocks.MockAccountUseCase{}
		mockMetrics := &metricsMocks.MockBusinessMetrics{}
		uc := usecase.NewAccountUseCaseWithMetrics(mockNext, mockMetrics)

		input := &authDomain.LoginInput{Email: "a@example.com", MasterPassword: "pw"}
		output := &authDomain.LoginOutput{UserID: uuid.New(), SessionToken: "token"}

		mockNext.On("Login", ctx, input).Return(output, nil).Once()
		mockMetrics.ExpectObserve("auth", "login", "success")

		res, err := uc.Login(ctx, input)
		assert.NoError(t, err)
		assert.Equal(t, output, res)
		mockNext.AssertExpectations(t)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("Login error", func(t *testing.T) {
		mockNext := &usecaseMocks.MockAccountUseCase{}
		mockMetrics := &metricsMocks.MockBusinessMetrics{}
		uc := usecase.NewAccountUseCaseWithMetrics(mockNext, mockMetrics)

		input := &authDomain.LoginInput{Email: "a@example.com", MasterPassword: "pw"}
		mockNext.On("Login", ctx, input).Return(nil, authDomain.ErrInvalidCredentials).Once()
		mockMetrics.ExpectObserve("auth", "login", "error")

		res, err := uc.Login(ctx, input)
		assert.ErrorIs(t, err, authDomain.ErrInvalidCredentials)
		assert.Nil(t, res)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("RotateRecoveryKey error", func(t *testing.T) {
		mockNext := &usecaseMocks.MockAccountUseCase{}
		mockMetrics := &metricsMocks.MockBusinessMetrics{}
		uc := usecase.NewAccountUseCaseWithMetrics(mockNext, mockMetrics)

		input := &authDomain.RotateRecoveryKeyInput{UserID: uuid.New(), MasterPassword: "pw"}
		expectedErr := errors.New("db down")
		mockNext.On("RotateRecoveryKey", ctx, input).Return("", expectedErr).Once()
		mockMetrics.ExpectObserve("auth", "rotate_recovery_key", "error")

		_, err := uc.RotateRecoveryKey(ctx, input)
		assert.Equal(t, expectedErr, err)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("remaining operations", func(t *testing.T) {
		mockNext := &usecaseMocks.MockAccountUseCase{}
		mockMetrics := &metricsMocks.MockBusinessMetrics{}
		uc := usecase.NewAccountUseCaseWithMetrics(mockNext, mockMetrics)

		signup := &authDomain.SignupInput{Email: "a@example.com", MasterPassword: "pw"}
		change := &authDomain.ChangePasswordInput{UserID: uuid.New()}
		reset := &authDomain.ResetPasswordInput{Email: "a@example.com"}

		mockNext.On("Signup", ctx, signup).Return(&authDomain.SignupOutput{}, nil).Once()
		mockNext.On("Logout", ctx, "token").Return(nil).Once()
		mockNext.On("Authenticate", ctx, "token").Return(&authDomain.User{}, nil).Once()
		mockNext.On("ChangePassword", ctx, change).Return(nil).Once()
		mockNext.On("ResetPasswordWithRecoveryKey", ctx, reset).Return(&authDomain.ResetPasswordOutput{}, nil).Once()

		for _, op := range []string{"signup", "logout", "authenticate", "change_password", "reset_password"} {
			mockMetrics.ExpectObserve("auth", op, "success")
		}

		_, err := uc.Signup(ctx, signup)
		assert.NoError(t, err)
		assert.NoError(t, uc.Logout(ctx, "token"))
		_, err = uc.Authenticate(ctx, "token")
		assert.NoError(t, err)
		assert.NoError(t, uc.ChangePassword(ctx, change))
		_, err = uc.ResetPasswordWithRecoveryKey(ctx, reset)
		assert.NoError(t, err)

		mockNext.AssertExpectations(t)
		mockMetrics.AssertExpectations(t)
	})
}
