package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersIncrementByLabel(t *testing.T) {
	before := testutil.ToFloat64(modelCalls.WithLabelValues("rate_limited"))
	IncModelCall("rate_limited")
	IncModelCall("rate_limited")
	assert.Equal(t, before+2, testutil.ToFloat64(modelCalls.WithLabelValues("rate_limited")))

	beforeDegraded := testutil.ToFloat64(degraded.WithLabelValues("compare_resume_job"))
	IncDegraded("compare_resume_job")
	assert.Equal(t, beforeDegraded+1, testutil.ToFloat64(degraded.WithLabelValues("compare_resume_job")))

	beforeDone := testutil.ToFloat64(comparisonsCompleted)
	IncComparisonCompleted()
	assert.Equal(t, beforeDone+1, testutil.ToFloat64(comparisonsCompleted))
}

func TestHandlerExposesRegisteredMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	IncModelCall("ok")
	IncDegraded("parse_job_description")
	ObserveComparisonDurationMs(-10)
	ObserveComparisonDurationMs(750)

	r := gin.New()
	r.GET("/metrics", Handler())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	for _, want := range []string{
		`model_calls_total{kind="ok"}`,
		`pipeline_degraded_total{operation="parse_job_description"}`,
		`comparison_duration_ms_bucket{le="100"}`,
		`comparison_duration_ms_bucket{le="1000"}`,
		"comparison_duration_ms_count",
		"go_goroutines",
	} {
		assert.Contains(t, body, want)
	}
}
