package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"path", "method", "status"})

	HttpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"path", "method"})

	JobDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "job_processing_seconds",
		Help: "Time taken to process jobs",
	}, []string{"type", "status"})

	JobsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jobs_processed_total",
		Help: "Total number of processed jobs",
	}, []string{"type", "status"})

	PolicyDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "policy_decisions_total",
		Help: "Authorization decisions by kind, action and outcome",
	}, []string{"kind", "action", "outcome"})

	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_lookups_total",
		Help: "Statistics cache lookups by result",
	}, []string{"result"})

	OutboundRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "outbound_requests_total",
		Help: "Outgoing HTTP calls by client and status class",
	}, []string{"client", "status"})

	PostViews = promauto.NewCounter(prometheus.CounterOpts{
		Name: "post_views_total",
		Help: "Total number of counted post detail views",
	})
)

// Decision registra o resultado de uma checagem de política.
func Decision(kind, action string, err error) {
	outcome := "allow"
	if err != nil {
		outcome = "deny"
	}
	PolicyDecisions.WithLabelValues(kind, action, outcome).Inc()
}
