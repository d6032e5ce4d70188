// Package metrics exposes Prometheus counters for the analysis pipeline.
package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry = prometheus.NewRegistry()

	analysisStartedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "coach",
		Subsystem: "analysis",
		Name:      "started_total",
		Help:      "Total analyses started.",
	})
	analysisCompletedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "coach",
		Subsystem: "analysis",
		Name:      "completed_total",
		Help:      "Total analyses completed.",
	})
	analysisFailedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "coach",
		Subsystem: "analysis",
		Name:      "failed_total",
		Help:      "Total analyses failed.",
	})
	analysisFilteredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "coach",
		Subsystem: "analysis",
		Name:      "filtered_total",
		Help:      "Total meetings rejected by admission filters.",
	})
	analysisDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "coach",
		Subsystem: "analysis",
		Name:      "duration_seconds",
		Help:      "Analysis run duration in seconds.",
		Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300},
	})
	providerFallbackTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "coach",
		Subsystem: "llm",
		Name:      "provider_fallback_total",
		Help:      "Inference calls that fell back past a failed provider.",
	}, []string{"provider"})
)

func init() {
	registry.MustRegister(
		analysisStartedTotal,
		analysisCompletedTotal,
		analysisFailedTotal,
		analysisFilteredTotal,
		analysisDuration,
		providerFallbackTotal,
	)
}

// IncAnalysisStarted increments the started counter.
func IncAnalysisStarted() {
	analysisStartedTotal.Inc()
}

// IncAnalysisCompleted increments the completed counter.
func IncAnalysisCompleted() {
	analysisCompletedTotal.Inc()
}

// IncAnalysisFailed increments the failed counter.
func IncAnalysisFailed() {
	analysisFailedTotal.Inc()
}

// IncAnalysisFiltered increments the filtered counter.
func IncAnalysisFiltered() {
	analysisFilteredTotal.Inc()
}

// ObserveAnalysisDurationSeconds records an analysis run duration.
func ObserveAnalysisDurationSeconds(value float64) {
	if value < 0 {
		value = 0
	}
	analysisDuration.Observe(value)
}

// IncProviderFallback records a failed provider that the orchestrator moved past.
func IncProviderFallback(provider string) {
	providerFallbackTotal.WithLabelValues(provider).Inc()
}

// Handler exposes the registry in Prometheus text format.
func Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
