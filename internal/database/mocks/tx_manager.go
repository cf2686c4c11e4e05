// Package mocks provides mock implementations of the database package interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockTxManager is a mock implementation of database.TxManager. Unless an error is
// configured, WithTx runs fn with the given context so the logic inside is exercised.
type MockTxManager struct {
	mock.Mock
}

// NewMockTxManager returns a MockTxManager that accepts any number of WithTx calls.
func NewMockTxManager(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTxManager {
	m := &MockTxManager{}
	m.Test(t)
	m.On("WithTx", mock.Anything, mock.Anything).Return(nil).Maybe()
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// WithTx mocks the WithTx method of TxManager.
func (m *MockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx)
}
