// Package metrics holds the Prometheus collectors of confkit. Collectors are
// registered on the default registry and served by the REST API at /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "confkit"

var (
	// SyncRuns counts synchronization runs.
	// Labels: source, outcome (success, error, dry_run)
	SyncRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "sync",
		Name:      "runs_total",
		Help:      "Synchronization runs by outcome",
	}, []string{"source", "outcome"})

	// SyncDuration measures synchronization runs.
	SyncDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "sync",
		Name:      "duration_seconds",
		Help:      "Synchronization run duration in seconds",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
	})

	// SyncEntities counts the entities handled by synchronization.
	// Labels: resource, outcome (created, merged, rejected)
	SyncEntities = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "sync",
		Name:      "entities_total",
		Help:      "Entities processed by synchronization",
	}, []string{"resource", "outcome"})

	// StaleDocuments is the number of documents absent from the last source fetch.
	// Labels: resource
	StaleDocuments = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "sync",
		Name:      "stale_documents",
		Help:      "Documents no longer present in the source",
	}, []string{"resource"})

	// ACLDecisions counts authorization decisions.
	// Labels: user_kind, outcome (allow, deny)
	ACLDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "acl",
		Name:      "decisions_total",
		Help:      "Authorization decisions by user kind and outcome",
	}, []string{"user_kind", "outcome"})

	// HTTPRequests counts REST API requests.
	// Labels: method, route, status
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "REST API requests",
	}, []string{"method", "route", "status"})

	// HTTPDuration measures REST API latency.
	// Labels: method, route
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "REST API request latency in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	// WebSocketClients is the number of connected change feed clients.
	WebSocketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "websocket_clients",
		Help:      "Connected change feed clients",
	})
)

// ObserveRequest records a finished HTTP request.
func ObserveRequest(method, route string, status int, elapsed time.Duration) {
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
