package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce      sync.Once
	requestsTotal     *prometheus.CounterVec
	latencySeconds    *prometheus.HistogramVec
	sessionsCompleted prometheus.Counter
	sweepFailures     prometheus.Counter
	paymentsProcessed *prometheus.CounterVec
	creditGrants      prometheus.Counter
	creditRedemptions prometheus.Counter
)

// RegisterMetrics initialises the Prometheus collectors used across the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		latencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		sessionsCompleted = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sweep_sessions_completed_total",
			Help: "Sessions the completion sweep promoted to Completed.",
		})

		sweepFailures = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sweep_failures_total",
			Help: "Per-session failures during completion sweep passes.",
		})

		paymentsProcessed = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "payments_processed_total",
			Help: "Payment confirmations processed, by resulting status.",
		}, []string{"status"})

		creditGrants = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "credit_grants_total",
			Help: "Free-session credits granted by paid-session cancellations.",
		})

		creditRedemptions = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "credit_redemptions_total",
			Help: "Free-session credits redeemed on session acceptance.",
		})

		prometheus.MustRegister(
			requestsTotal,
			latencySeconds,
			sessionsCompleted,
			sweepFailures,
			paymentsProcessed,
			creditGrants,
			creditRedemptions,
		)
	})
}

// Requests exposes the counter for API requests.
func Requests() *prometheus.CounterVec {
	RegisterMetrics()
	return requestsTotal
}

// Latency exposes the latency histogram for API requests.
func Latency() *prometheus.HistogramVec {
	RegisterMetrics()
	return latencySeconds
}

// SessionsCompleted exposes the sweep completion counter.
func SessionsCompleted() prometheus.Counter {
	RegisterMetrics()
	return sessionsCompleted
}

// SweepFailures exposes the sweep failure counter.
func SweepFailures() prometheus.Counter {
	RegisterMetrics()
	return sweepFailures
}

// PaymentsProcessed exposes the payment confirmation counter.
func PaymentsProcessed() *prometheus.CounterVec {
	RegisterMetrics()
	return paymentsProcessed
}

// CreditGrants exposes the credit grant counter.
func CreditGrants() prometheus.Counter {
	RegisterMetrics()
	return creditGrants
}

// CreditRedemptions exposes the credit redemption counter.
func CreditRedemptions() prometheus.Counter {
	RegisterMetrics()
	return creditRedemptions
}
