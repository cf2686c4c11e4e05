package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertMetricLine checks that the Prometheus output contains a metric matching the
// given name, partial label pattern and value. OTel adds scope labels, hence the regex.
func assertMetricLine(t *testing.T, output, name, labels, value string) {
	t.Helper()
	pattern := name + `\{[^}]*` + labels + `[^}]*\} ` + value
	assert.Regexp(t, pattern, output)
}

func scrape(t *testing.T, provider *Provider) string {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	provider.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestNewBusinessMetrics(t *testing.T) {
	provider, err := NewProvider("test_app")
	require.NoError(t, err)

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "test_app")
	require.NoError(t, err)
	assert.NotNil(t, bm)
}

func TestBusinessMetrics_Export(t *testing.T) {
	provider, err := NewProvider("passvault_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "passvault_test")
	require.NoError(t, err)

	ctx := context.Background()
	bm.RecordOperation(ctx, "auth", "login", StatusSuccess)
	bm.RecordOperation(ctx, "auth", "login", StatusSuccess)
	bm.RecordOperation(ctx, "auth", "login", StatusError)
	bm.RecordDuration(ctx, "vault", "credential_create", 20*time.Millisecond, StatusSuccess)
	bm.RecordItems(ctx, "breach", "alerts_created", 3)
	bm.RecordItems(ctx, "breach", "alerts_created", 0)

	output := scrape(t, provider)

	assertMetricLine(t, output, `passvault_test_operations_total`,
		`domain="auth".*operation="login".*status="success"`, `2`)
	assertMetricLine(t, output, `passvault_test_operations_total`,
		`domain="auth".*operation="login".*status="error"`, `1`)
	assertMetricLine(t, output, `passvault_test_operation_duration_seconds_count`,
		`domain="vault".*operation="credential_create".*status="success"`, `1`)
	assertMetricLine(t, output, `passvault_test_items_total`,
		`domain="breach".*item="alerts_created"`, `3`)
}

func TestObserve(t *testing.T) {
	provider, err := NewProvider("observe_test")
	require.NoError(t, err)

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "observe_test")
	require.NoError(t, err)

	ctx := context.Background()
	Observe(ctx, bm, "breach", "toggle_dismissed", time.Now(), nil)
	Observe(ctx, bm, "breach", "toggle_dismissed", time.Now(), errors.New("boom"))

	output := scrape(t, provider)
	assertMetricLine(t, output, `observe_test_operations_total`,
		`domain="breach".*operation="toggle_dismissed".*status="success"`, `1`)
	assertMetricLine(t, output, `observe_test_operations_total`,
		`domain="breach".*operation="toggle_dismissed".*status="error"`, `1`)
}

func TestNewNoOpBusinessMetrics(t *testing.T) {
	noOp := NewNoOpBusinessMetrics()
	assert.IsType(t, &NoOpBusinessMetrics{}, noOp)

	assert.NotPanics(t, func() {
		noOp.RecordOperation(context.Background(), "auth", "signup", StatusSuccess)
		noOp.RecordDuration(context.Background(), "auth", "signup", time.Millisecond, StatusSuccess)
		noOp.RecordItems(context.Background(), "vault", "reused", 1)
	})
}

func TestRegisterActiveSessionsGauge(t *testing.T) {
	provider, err := NewProvider("gauge_test")
	require.NoError(t, err)

	require.NoError(t, RegisterActiveSessionsGauge(provider.MeterProvider(), "gauge_test", func() int { return 7 }))

	output := scrape(t, provider)
	assertMetricLine(t, output, `gauge_test_active_sessions`, ``, `7`)
}
