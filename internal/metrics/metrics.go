package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/kanon0111/sdlg-edu/internal/pattern"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	generationAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "generation_attempts_total",
			Help: "Candidate generations by pattern and dedup outcome",
		},
		[]string{"pattern", "outcome"},
	)

	generationSlotsDiscardedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "generation_slots_discarded_total",
			Help: "Item slots abandoned after exhausting their trials",
		},
		[]string{"pattern"},
	)

	generationShortTopicsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "generation_short_topics_total",
			Help: "Recipe lines that hit the safety cap before their quota",
		},
		[]string{"pattern"},
	)

	generationRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "generation_runs_total",
			Help: "Generation runs served, by cache outcome",
		},
		[]string{"cache_hit"},
	)

	generationRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "generation_run_duration_seconds",
			Help:    "Wall time of uncached generation runs",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)
)

// MetricsMiddleware collects request counts and latencies.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		httpRequestsInFlight.Inc()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unknown"
		}

		c.Next()

		httpRequestsInFlight.Dec()
		status := strconv.Itoa(c.Writer.Status())
		httpRequestsTotal.WithLabelValues(c.Request.Method, endpoint, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(time.Since(start).Seconds())
	}
}

// RecordRun records one served generation request.
func RecordRun(cacheHit bool, duration time.Duration) {
	hit := "false"
	if cacheHit {
		hit = "true"
	}
	generationRunsTotal.WithLabelValues(hit).Inc()
	if !cacheHit {
		generationRunDuration.Observe(duration.Seconds())
	}
}

// GenerationObserver exports driver events. It satisfies generator.Observer.
type GenerationObserver struct{}

func (GenerationObserver) Attempt(kind pattern.Kind, accepted bool) {
	outcome := "rejected"
	if accepted {
		outcome = "accepted"
	}
	generationAttemptsTotal.WithLabelValues(kind.String(), outcome).Inc()
}

func (GenerationObserver) SlotDiscarded(kind pattern.Kind) {
	generationSlotsDiscardedTotal.WithLabelValues(kind.String()).Inc()
}

func (GenerationObserver) TopicShort(kind pattern.Kind, requested, accepted int) {
	generationShortTopicsTotal.WithLabelValues(kind.String()).Inc()
}
