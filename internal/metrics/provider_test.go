package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	provider, err := NewProvider("meditrack")

	require.NoError(t, err)
	assert.NotNil(t, provider.meterProvider)
	assert.NotNil(t, provider.exporter)
	assert.NotNil(t, provider.registry)
}

func TestProvider_HandlerServesRecordedMetrics(t *testing.T) {
	provider, err := NewProvider("meditrack")
	require.NoError(t, err)

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "meditrack")
	require.NoError(t, err)

	bm.RecordOperation(context.Background(), "auth", "session_validate", "success")
	bm.RecordDuration(context.Background(), "auth", "session_validate", 5*time.Millisecond, "success")

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	provider.Handler().ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	body := recorder.Body.String()
	assert.Contains(t, body, "meditrack_operations_total")
	assert.Contains(t, body, "meditrack_operation_duration_seconds")
	assert.Regexp(t, `meditrack_operations_total\{[^}]*operation="session_validate"[^}]*\} 1`, body)
}

func TestProvider_Shutdown(t *testing.T) {
	provider, err := NewProvider("meditrack")
	require.NoError(t, err)

	assert.NoError(t, provider.Shutdown(context.Background()))
}

func TestNoOpBusinessMetrics(t *testing.T) {
	bm := NewNoOpBusinessMetrics()

	// Safe to call with no provider behind it.
	bm.RecordOperation(context.Background(), "auth", "login", "success")
	bm.RecordDuration(context.Background(), "auth", "login", time.Millisecond, "error")
}
