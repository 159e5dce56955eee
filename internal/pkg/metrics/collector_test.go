package metrics_test

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"parcelbridge/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_CountsAndExposes(t *testing.T) {
	c := metrics.NewCollector()

	c.FeeEstimates.WithLabelValues("success").Inc()
	c.ObserveRouteVerification("EXACT", true)
	c.ObserveRouteVerification("NO_MATCH", false)
	c.JobRun("session_expiry", nil)
	c.JobRun("session_expiry", errors.New("db down"))
	c.PublishedInc()
	c.PublishObserve(3 * time.Millisecond)
	c.SetNATSConnected(true)
	c.ObserveHTTP("GET", "/api/fees/estimate", 200, 20*time.Millisecond)

	assert.InDelta(t, 1, testutil.ToFloat64(c.FeeEstimates.WithLabelValues("success")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.RouteVerifications.WithLabelValues("EXACT", "true")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.JobRuns.WithLabelValues("session_expiry", "error")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.EventsPublished), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.NATSConnected), 0)

	c.SetNATSConnected(false)
	assert.InDelta(t, 0, testutil.ToFloat64(c.NATSConnected), 0)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `parcelbridge_route_verifications_total{match_type="EXACT",matched="true"} 1`)
	assert.Contains(t, string(body), "parcelbridge_http_request_duration_seconds_bucket")
}
