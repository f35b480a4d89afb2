package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

// Operation outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Metrics holds all Prometheus metrics. A nil *Metrics records nothing.
type Metrics struct {
	// Wallet metrics
	Operations        *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	Balance           prometheus.Gauge

	// Ledger metrics
	LedgerChecks *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInFlight prometheus.Gauge

	// Rate limiting and idempotency
	RateLimitHits      *prometheus.CounterVec
	IdempotencyReplays prometheus.Counter
}

// New creates all metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gowallet_operations_total",
				Help: "Total number of wallet operations by outcome",
			},
			[]string{"operation", "outcome"},
		),
		OperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gowallet_operation_duration_seconds",
				Help:    "Wallet operation duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"operation"},
		),
		Balance: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "gowallet_balance",
				Help: "Wallet balance after the last successful operation",
			},
		),

		LedgerChecks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gowallet_ledger_checks_total",
				Help: "Ledger chain verifications by result",
			},
			[]string{"result"},
		),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gowallet_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gowallet_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "route"},
		),
		HTTPInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "gowallet_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
		),

		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gowallet_rate_limit_hits_total",
				Help: "Requests rejected by the rate limiter",
			},
			[]string{"method"},
		),
		IdempotencyReplays: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "gowallet_idempotency_replays_total",
				Help: "Responses served from the idempotency store",
			},
		),
	}
}

// ObserveOperation records one wallet operation.
func (m *Metrics) ObserveOperation(operation, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.Operations.WithLabelValues(operation, outcome).Inc()
	m.OperationDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// SetBalance publishes the latest known balance. The gauge is a float and
// may lose precision; the ledger remains the source of truth.
func (m *Metrics) SetBalance(balance decimal.Decimal) {
	if m == nil {
		return
	}
	m.Balance.Set(balance.InexactFloat64())
}

// ObserveLedgerCheck records the result of a chain verification.
func (m *Metrics) ObserveLedgerCheck(consistent bool) {
	if m == nil {
		return
	}
	result := "consistent"
	if !consistent {
		result = "broken"
	}
	m.LedgerChecks.WithLabelValues(result).Inc()
}

// ObserveHTTP records one completed HTTP request.
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// IncRateLimited counts a request rejected by the rate limiter.
func (m *Metrics) IncRateLimited(method string) {
	if m == nil {
		return
	}
	m.RateLimitHits.WithLabelValues(method).Inc()
}

// IncIdempotencyReplay counts a replayed response.
func (m *Metrics) IncIdempotencyReplay() {
	if m == nil {
		return
	}
	m.IdempotencyReplays.Inc()
}
