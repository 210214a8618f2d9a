package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry = prometheus.NewRegistry()

	modelCalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "model_calls_total",
		Help: "Generative model calls by outcome",
	}, []string{"kind"})

	degraded = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pipeline_degraded_total",
		Help: "Pipeline results served from fallback values",
	}, []string{"operation"})

	comparisonsCompleted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "comparisons_completed_total",
		Help: "Total resume/job comparisons persisted",
	})

	comparisonDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "comparison_duration_ms",
		Help:    "Comparison duration in milliseconds",
		Buckets: []float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000},
	})
)

func init() {
	registry.MustRegister(
		modelCalls,
		degraded,
		comparisonsCompleted,
		comparisonDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// IncModelCall counts one generative model call by outcome kind
// (ok, rate_limited, unavailable, unexpected).
func IncModelCall(kind string) {
	modelCalls.WithLabelValues(kind).Inc()
}

// IncDegraded counts a pipeline operation that returned a fallback value.
func IncDegraded(operation string) {
	degraded.WithLabelValues(operation).Inc()
}

// IncComparisonCompleted increments the completed comparisons counter.
func IncComparisonCompleted() {
	comparisonsCompleted.Inc()
}

// ObserveComparisonDurationMs records a comparison duration in milliseconds.
func ObserveComparisonDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	comparisonDuration.Observe(value)
}

// Handler exposes the registry in Prometheus exposition format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
}
