package metrics_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jrsteele09/connect-onboarding/internal/metrics"
	"github.com/stretchr/testify/require"
)

func TestHandler_ExposesCollectors(t *testing.T) {
	metrics.ObserveHTTP(http.MethodGet, "GET /api/v1/status", http.StatusOK, 3*time.Millisecond)
	metrics.ObserveUpstream("accounts.get", errors.New("boom"), 20*time.Millisecond)
	metrics.RecordAccountLink("linked")

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, `connect_onboarding_http_requests_total{method="GET",route="GET /api/v1/status",status="200"}`)
	require.Contains(t, body, `connect_onboarding_payments_calls_total{operation="accounts.get",outcome="error"}`)
	require.Contains(t, body, `connect_onboarding_onboarding_accounts_linked_total{result="linked"}`)
}
