// Package metrics exposes the scheduling core's Prometheus metrics,
// grounded on the teacher's pkg/metrics registration-and-Timer shape.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ChunksScheduled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "calendar_chunks_scheduled_total",
			Help: "Total number of chunks successfully assigned a slot, by strategy.",
		},
		[]string{"strategy"},
	)

	ChunksFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "calendar_chunks_failed_total",
			Help: "Total number of chunk scheduling attempts that ended in NoSlot, by strategy.",
		},
		[]string{"strategy"},
	)

	SchedulingLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "calendar_scheduling_latency_seconds",
			Help:    "Time taken to search and select a slot for one chunk.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"strategy"},
	)

	SessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "calendar_planning_sessions_active",
			Help: "Number of planning sessions currently in draft status.",
		},
	)

	SessionsApplied = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "calendar_planning_sessions_applied_total",
			Help: "Total number of planning sessions applied.",
		},
	)

	SessionsExpired = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "calendar_planning_sessions_expired_total",
			Help: "Total number of draft planning sessions that expired unapplied.",
		},
	)

	EventSubscribers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "calendar_event_subscribers",
			Help: "Number of currently connected sync-stream subscribers.",
		},
	)

	APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "calendar_api_requests_total",
			Help: "Total number of HTTP API requests by route and status.",
		},
		[]string{"route", "status"},
	)

	APIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "calendar_api_request_duration_seconds",
			Help:    "HTTP API request duration in seconds, by route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
)

func init() {
	prometheus.MustRegister(
		ChunksScheduled,
		ChunksFailed,
		SchedulingLatency,
		SessionsActive,
		SessionsApplied,
		SessionsExpired,
		EventSubscribers,
		APIRequestsTotal,
		APIRequestDuration,
	)
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer times one operation and reports it to a histogram on Observe.
type Timer struct {
	start time.Time
}

func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) ObserveDurationVec(histogram *prometheus.HistogramVec, labels ...string) {
	histogram.WithLabelValues(labels...).Observe(time.Since(t.start).Seconds())
}
