package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Status label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// BusinessMetrics records vault operations for observability.
type BusinessMetrics interface {
	// RecordOperation records a business operation with its status.
	// Domain examples: "auth", "vault", "breach"
	// Operation examples: "signup", "credential_create", "check_user_breaches"
	RecordOperation(ctx context.Context, domain, operation, status string)

	// RecordDuration records the duration of a business operation in seconds.
	RecordDuration(ctx context.Context, domain, operation string, duration time.Duration, status string)

	// RecordItems counts domain objects produced by an operation, such as breach
	// alerts inserted or credentials flagged as reused.
	RecordItems(ctx context.Context, domain, item string, n int64)
}

// Observe records both the count and the duration of an operation that started at
// start and finished with err.
func Observe(ctx context.Context, m BusinessMetrics, domain, operation string, start time.Time, err error) {
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}
	m.RecordOperation(ctx, domain, operation, status)
	m.RecordDuration(ctx, domain, operation, time.Since(start), status)
}

// businessMetrics implements BusinessMetrics using OpenTelemetry metrics.
type businessMetrics struct {
	operationCounter metric.Int64Counter
	durationHisto    metric.Float64Histogram
	itemCounter      metric.Int64Counter
}

// NewBusinessMetrics creates a BusinessMetrics whose metric names are prefixed with
// namespace.
func NewBusinessMetrics(meterProvider metric.MeterProvider, namespace string) (BusinessMetrics, error) {
	meter := meterProvider.Meter(namespace)

	operationCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_operations_total", namespace),
		metric.WithDescription("Total number of business operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create operation counter: %w", err)
	}

	durationHisto, err := meter.Float64Histogram(
		fmt.Sprintf("%s_operation_duration_seconds", namespace),
		metric.WithDescription("Duration of business operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	itemCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_items_total", namespace),
		metric.WithDescription("Total number of domain items produced by operations"),
		metric.WithUnit("{item}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create item counter: %w", err)
	}

	return &businessMetrics{
		operationCounter: operationCounter,
		durationHisto:    durationHisto,
		itemCounter:      itemCounter,
	}, nil
}

func (b *businessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	b.operationCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("domain", domain),
			attribute.String("operation", operation),
			attribute.String("status", status),
		),
	)
}

func (b *businessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	b.durationHisto.Record(ctx, duration.Seconds(),
		metric.WithAttributes(
			attribute.String("domain", domain),
			attribute.String("operation", operation),
			attribute.String("status", status),
		),
	)
}

func (b *businessMetrics) RecordItems(ctx context.Context, domain, item string, n int64) {
	if n <= 0 {
		return
	}
	b.itemCounter.Add(ctx, n,
		metric.WithAttributes(
			attribute.String("domain", domain),
			attribute.String("item", item),
		),
	)
}

// NoOpBusinessMetrics is a no-op implementation of BusinessMetrics for when metrics are disabled.
type NoOpBusinessMetrics struct{}

// NewNoOpBusinessMetrics creates a no-op BusinessMetrics implementation.
func NewNoOpBusinessMetrics() BusinessMetrics {
	return &NoOpBusinessMetrics{}
}

func (n *NoOpBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {}

func (n *NoOpBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
}

func (n *NoOpBusinessMetrics) RecordItems(ctx context.Context, domain, item string, count int64) {}
