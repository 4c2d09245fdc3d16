package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.GatewayRequest("list", "anonymous", 200)
	m.AuthFallback()
	m.UpstreamLatency("list", time.Second)
	m.SourceFetch(OutcomeOK)
	m.DetailFetch(OutcomeFailed)
	m.Synthesis(OutcomeOK)
	m.Run(time.Second, 3)
	if m.Registry() != nil {
		t.Fatalf("nil metrics should have no registry")
	}
}

func TestCounters(t *testing.T) {
	m := New()
	m.SourceFetch(OutcomeOK)
	m.SourceFetch(OutcomeOK)
	m.SourceFetch(OutcomeFailed)
	m.AuthFallback()

	if got := testutil.ToFloat64(m.sourceFetches.WithLabelValues(OutcomeOK)); got != 2 {
		t.Errorf("ok source fetches = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.authFallbacks); got != 1 {
		t.Errorf("auth fallbacks = %v, want 1", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.GatewayRequest("replies", "authenticated", 200)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "topic_pulse_gateway_requests_total") {
		t.Errorf("metrics output missing gateway counter")
	}
}
