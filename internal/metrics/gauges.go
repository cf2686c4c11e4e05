package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// RegisterActiveSessionsGauge exports the size of the session store as
// <namespace>_active_sessions, read from count at collection time.
func RegisterActiveSessionsGauge(meterProvider metric.MeterProvider, namespace string, count func() int) error {
	meter := meterProvider.Meter(namespace)

	_, err := meter.Int64ObservableGauge(
		fmt.Sprintf("%s_active_sessions", namespace),
		metric.WithDescription("Number of sessions held in memory"),
		metric.WithUnit("{session}"),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			o.Observe(int64(count()))
			return nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to create active sessions gauge: %w", err)
	}
	return nil
}
