package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain repository.Metrics using Prometheus.
type Recorder struct {
	adapterCalls *prometheus.CounterVec
	cacheEvents  *prometheus.CounterVec
	refreshJobs  *prometheus.CounterVec
	errorsTotal  *prometheus.CounterVec
	latency      *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		adapterCalls: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketintel_adapter_calls_total",
				Help: "Adapter invocations by outcome (ok, empty, synthetic, unavailable)",
			},
			[]string{"adapter", "outcome"},
		),
		cacheEvents: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketintel_cache_events_total",
				Help: "Cache lookups by layer and event (hit, miss)",
			},
			[]string{"layer", "event"},
		),
		refreshJobs: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketintel_refresh_jobs_total",
				Help: "Scheduler refresh jobs by status",
			},
			[]string{"status"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketintel_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "marketintel_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordAdapterCall records an adapter invocation outcome.
func (r *Recorder) RecordAdapterCall(adapter, outcome string) {
	r.adapterCalls.WithLabelValues(adapter, outcome).Inc()
}

// RecordCacheEvent records a cache hit or miss per layer.
func (r *Recorder) RecordCacheEvent(layer, event string) {
	r.cacheEvents.WithLabelValues(layer, event).Inc()
}

// RecordRefreshJob records a scheduler job outcome.
func (r *Recorder) RecordRefreshJob(status string) {
	r.refreshJobs.WithLabelValues(status).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
