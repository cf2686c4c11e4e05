package usecase_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	metricsMocks "github.com/allisson/passvault/internal/metrics/mocks"
	vaultDomain "github.com/allisson/passvault/internal/vault/domain"
	"github.com/allisson/passvault/internal/vault/usecase"
	usecaseMocks "github.com/allisson/passvault/internal/vault/usecase/mocks"
)

func TestCredentialUseCaseWithMetrics(t *testing.T) {
	ctx := context.Background()

	t.Run("Create records classification", func(t *testing.T) {
		mockNext := &usecaseMocks.MockCredentialUseCase{}
		mockMetrics := &metricsMocks.MockBusinessMetrics{}
		uc := usecase.NewCredentialUseCaseWithMetrics(mockNext, mockMetrics)

		input := &vaultDomain.CreateCredentialInput{UserID: uuid.New(), Title: "GitHub"}
		cred := &vaultDomain.Credential{ID: uuid.New(), Compromised: true}

		mockNext.On("Create", ctx, input).Return(cred, nil).Once()
		mockMetrics.ExpectObserve("vault", "credential_create", "success")
		mockMetrics.On("RecordItems", ctx, "vault", "compromised_classified", int64(1)).Return().Once()

		res, err := uc.Create(ctx, input)
		assert.NoError(t, err)
		assert.Equal(t, cred, res)
		mockNext.AssertExpectations(t)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("Delete error", func(t *testing.T) {
		mockNext := &usecaseMocks.MockCredentialUseCase{}
		mockMetrics := &metricsMocks.MockBusinessMetrics{}
		uc := usecase.NewCredentialUseCaseWithMetrics(mockNext, mockMetrics)

		userID, id := uuid.New(), uuid.New()
		mockNext.On("Delete", ctx, userID, id).Return(vaultDomain.ErrCredentialNotFound).Once()
		mockMetrics.ExpectObserve("vault", "credential_delete", "error")

		err := uc.Delete(ctx, userID, id)
		assert.ErrorIs(t, err, vaultDomain.ErrCredentialNotFound)
		mockMetrics.AssertExpectations(t)
	})
}

func TestTotpUseCaseWithMetrics(t *testing.T) {
	ctx := context.Background()
	mockNext := &usecaseMocks.MockTotpUseCase{}
	mockMetrics := &metricsMocks.MockBusinessMetrics{}
	uc := usecase.NewTotpUseCaseWithMetrics(mockNext, mockMetrics)

	userID, credID := uuid.New(), uuid.New()
	mockNext.On("Reveal", ctx, userID, credID, "key").Return("secret", nil).Once()
	mockMetrics.ExpectObserve("vault", "totp_reveal", "success")

	secret, err := uc.Reveal(ctx, userID, credID, "key")
	assert.NoError(t, err)
	assert.Equal(t, "secret", secret)
	mockMetrics.AssertExpectations(t)
}

func TestScoreUseCaseWithMetrics(t *testing.T) {
	ctx := context.Background()
	mockNext := &usecaseMocks.MockScoreUseCase{}
	mockMetrics := &metricsMocks.MockBusinessMetrics{}
	uc := usecase.NewScoreUseCaseWithMetrics(mockNext, mockMetrics)

	userID := uuid.New()
	opts := vaultDomain.DefaultScoreOptions()
	expected := &vaultDomain.SecurityScore{Score: 100}
	mockNext.On("ComputeSecurityScore", ctx, userID, opts).Return(expected, nil).Once()
	mockMetrics.ExpectObserve("vault", "security_score", "success")

	score, err := uc.ComputeSecurityScore(ctx, userID, opts)
	assert.NoError(t, err)
	assert.Equal(t, expected, score)
	mockMetrics.AssertExpectations(t)
}
