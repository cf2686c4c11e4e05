// Package mocks provides mock implementations of the vault use cases.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	vaultDomain "github.com/allisson/passvault/internal/vault/domain"
)

// MockCredentialUseCase is a mock implementation of CredentialUseCase.
type MockCredentialUseCase struct {
	mock.Mock
}

func credentialResult(args mock.Arguments) (*vaultDomain.Credential, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.Credential), args.Error(1)
}

func (m *MockCredentialUseCase) Create(
	ctx context.Context,
	input *vaultDomain.CreateCredentialInput,
) (*vaultDomain.Credential, error) {
	return credentialResult(m.Called(ctx, input))
}

func (m *MockCredentialUseCase) Update(
	ctx context.Context,
	input *vaultDomain.UpdateCredentialInput,
) (*vaultDomain.Credential, error) {
	return credentialResult(m.Called(ctx, input))
}

func (m *MockCredentialUseCase) Get(ctx context.Context, userID, id uuid.UUID) (*vaultDomain.Credential, error) {
	return credentialResult(m.Called(ctx, userID, id))
}

func (m *MockCredentialUseCase) Archive(
	ctx context.Context,
	userID, id uuid.UUID,
) (*vaultDomain.Credential, error) {
	return credentialResult(m.Called(ctx, userID, id))
}

func (m *MockCredentialUseCase) Restore(
	ctx context.Context,
	userID, id uuid.UUID,
) (*vaultDomain.Credential, error) {
	return credentialResult(m.Called(ctx, userID, id))
}

func (m *MockCredentialUseCase) Delete(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

// MockTotpUseCase is a mock implementation of TotpUseCase.
type MockTotpUseCase struct {
	mock.Mock
}

func totpResult(args mock.Arguments) (*vaultDomain.TotpSecret, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.TotpSecret), args.Error(1)
}

func (m *MockTotpUseCase) Create(
	ctx context.Context,
	input *vaultDomain.CreateTotpInput,
) (*vaultDomain.TotpSecret, error) {
	return totpResult(m.Called(ctx, input))
}

func (m *MockTotpUseCase) Get(
	ctx context.Context,
	userID, credentialID uuid.UUID,
) (*vaultDomain.TotpSecret, error) {
	return totpResult(m.Called(ctx, userID, credentialID))
}

func (m *MockTotpUseCase) Reveal(
	ctx context.Context,
	userID, credentialID uuid.UUID,
	vaultKey string,
) (string, error) {
	args := m.Called(ctx, userID, credentialID, vaultKey)
	return args.String(0), args.Error(1)
}

func (m *MockTotpUseCase) UpdateState(
	ctx context.Context,
	input *vaultDomain.UpdateTotpStateInput,
) (*vaultDomain.TotpSecret, error) {
	return totpResult(m.Called(ctx, input))
}

func (m *MockTotpUseCase) Delete(ctx context.Context, userID, credentialID uuid.UUID) error {
	args := m.Called(ctx, userID, credentialID)
	return args.Error(0)
}

// MockScoreUseCase is a mock implementation of ScoreUseCase.
type MockScoreUseCase struct {
	mock.Mock
}

func (m *MockScoreUseCase) ComputeSecurityScore(
	ctx context.Context,
	userID uuid.UUID,
	opts vaultDomain.ScoreOptions,
) (*vaultDomain.SecurityScore, error) {
	args := m.Called(ctx, userID, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.SecurityScore), args.Error(1)
}
