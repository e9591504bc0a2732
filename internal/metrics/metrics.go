// Package metrics holds the Prometheus collectors for the vault daemon.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	depositsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "payvault",
			Subsystem: "vault",
			Name:      "deposits_total",
			Help:      "Total number of accepted deposits.",
		},
	)

	depositValueTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "payvault",
			Subsystem: "vault",
			Name:      "deposit_value_total",
			Help:      "Total deposited value in minor units.",
		},
	)

	withdrawalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "payvault",
			Subsystem: "vault",
			Name:      "withdrawals_total",
			Help:      "Total number of withdrawal attempts.",
		},
		[]string{"status"},
	)

	heldBalance = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "payvault",
			Subsystem: "vault",
			Name:      "held_balance",
			Help:      "Current custody balance per vault, in minor units.",
		},
		[]string{"vault"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "payvault",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "payvault",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method"},
	)
)

func init() {
	Registry.MustRegister(
		depositsTotal,
		depositValueTotal,
		withdrawalsTotal,
		heldBalance,
		httpRequests,
		httpDuration,
	)
}

// ObserveDeposit records one accepted deposit of the given amount.
func ObserveDeposit(amount uint64) {
	depositsTotal.Inc()
	depositValueTotal.Add(float64(amount))
}

// ObserveWithdrawal records a withdrawal attempt by outcome.
func ObserveWithdrawal(ok bool) {
	status := "ok"
	if !ok {
		status = "failed"
	}
	withdrawalsTotal.WithLabelValues(status).Inc()
}

// SetHeldBalance updates the custody balance gauge for a vault.
func SetHeldBalance(vaultAddress string, balance uint64) {
	heldBalance.WithLabelValues(vaultAddress).Set(float64(balance))
}

// Handler serves the registry in Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Middleware instruments request counts and latency.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		httpRequests.WithLabelValues(r.Method, strconv.Itoa(ww.Status())).Inc()
		httpDuration.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())
	})
}
