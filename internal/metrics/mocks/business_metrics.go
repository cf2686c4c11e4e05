// Package mocks provides mock implementations of the metrics interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockBusinessMetrics is a mock implementation of metrics.BusinessMetrics.
type MockBusinessMetrics struct {
	mock.Mock
}

// RecordOperation mocks the RecordOperation method of BusinessMetrics.
func (m *MockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

// RecordDuration mocks the RecordDuration method of BusinessMetrics.
func (m *MockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

// RecordItems mocks the RecordItems method of BusinessMetrics.
func (m *MockBusinessMetrics) RecordItems(ctx context.Context, domain, item string, n int64) {
	m.Called(ctx, domain, item, n)
}

// ExpectObserve registers the RecordOperation/RecordDuration pair that
// metrics.Observe emits for one call.
func (m *MockBusinessMetrics) ExpectObserve(domain, operation, status string) {
	m.On("RecordOperation", mock.Anything, domain, operation, status).Return().Once()
	m.On("RecordDuration", mock.Anything, domain, operation, mock.AnythingOfType("time.Duration"), status).
		Return().
		Once()
}
