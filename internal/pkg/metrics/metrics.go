package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "artnexus",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "artnexus",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "artnexus",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	walletOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "artnexus",
			Subsystem: "wallet",
			Name:      "operations_total",
			Help:      "Committed ledger entries by type.",
		},
		[]string{"type"},
	)

	purchaseTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "artnexus",
			Subsystem: "purchase",
			Name:      "transitions_total",
			Help:      "Purchase state transitions by outcome.",
		},
		[]string{"transition", "outcome"},
	)

	notificationFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "artnexus",
			Subsystem: "notification",
			Name:      "failures_total",
			Help:      "Notifications that could not be stored.",
		},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		walletOperations,
		purchaseTransitions,
		notificationFailures,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Handler exposes the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func TrackInFlight(delta float64) {
	httpInFlight.Add(delta)
}

func ObserveHTTPRequest(method, path string, status int, d time.Duration) {
	if path == "" {
		path = "unmatched"
	}
	httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

func RecordWalletOperation(entryType string) {
	walletOperations.WithLabelValues(entryType).Inc()
}

func RecordPurchaseTransition(transition string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	purchaseTransitions.WithLabelValues(transition, outcome).Inc()
}

func RecordNotificationFailure() {
	notificationFailures.Inc()
}
