package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry holds the portal collectors, kept separate from the default registry.
var Registry = prometheus.NewRegistry()

var (
	ErrorsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_errors_total",
			Help: "Total number of logged errors by type.",
		},
		[]string{"type"},
	)
	HttpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_http_requests_total",
			Help: "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)
	HttpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portal_http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "path"},
	)
	ApplicationsSubmitted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "portal_applications_submitted_total",
			Help: "Total number of successfully submitted applications.",
		},
	)
	ApplicationConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "portal_application_conflicts_total",
			Help: "Total number of rejected duplicate applications.",
		},
	)
	StatusTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_application_status_transitions_total",
			Help: "Total number of application status transitions by target status.",
		},
		[]string{"to"},
	)
	CounterDriftCorrected = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "portal_counter_drift_corrected_total",
			Help: "Total number of opportunity application counters rewritten by reconciliation.",
		},
	)
	EmailsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_emails_sent_total",
			Help: "Total number of outgoing emails by template and result.",
		},
		[]string{"template", "result"},
	)
)

func init() {
	Registry.MustRegister(
		ErrorsCounter,
		HttpRequests,
		HttpDuration,
		ApplicationsSubmitted,
		ApplicationConflicts,
		StatusTransitions,
		CounterDriftCorrected,
		EmailsSent,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}
