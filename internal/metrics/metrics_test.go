package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordBatchCountsRowsOnlyOnSuccess(t *testing.T) {
	okBefore := testutil.ToFloat64(seedBatchesTotal.WithLabelValues("metrics_test", "ok"))
	errBefore := testutil.ToFloat64(seedBatchesTotal.WithLabelValues("metrics_test", "error"))
	rowsBefore := testutil.ToFloat64(seedRowsTotal.WithLabelValues("metrics_test"))

	RecordBatch("metrics_test", 1000, 20*time.Millisecond, nil)
	RecordBatch("metrics_test", 1000, 20*time.Millisecond, errors.New("copy failed"))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(seedBatchesTotal.WithLabelValues("metrics_test", "ok")))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(seedBatchesTotal.WithLabelValues("metrics_test", "error")))
	assert.Equal(t, rowsBefore+1000, testutil.ToFloat64(seedRowsTotal.WithLabelValues("metrics_test")))
}

func TestRecordHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/database", "200"))

	RecordHTTPRequest("GET", "/api/database", "200", 15*time.Millisecond)

	assert.Equal(t, before+1, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/database", "200")))
}

func TestHandlerExposesCollectors(t *testing.T) {
	RecordPhase("us-east-2", "users", time.Second)
	RecordAnalyticsQuery("us-east-2", "stats", 5*time.Millisecond)

	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := w.Body.String()
	assert.Contains(t, body, "seed_phase_duration_seconds")
	assert.Contains(t, body, "analytics_query_duration_seconds")
}
