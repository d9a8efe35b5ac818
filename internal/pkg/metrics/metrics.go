package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "supply_api"

// Outcome labels for RPCAttempts.
const (
	OutcomeDialError  = "dial_error"
	OutcomeNoCode     = "no_code"
	OutcomeBatchError = "batch_error"
	OutcomeSuccess    = "success"
)

var (
	// RPCAttempts counts fallback executor attempts per endpoint and outcome.
	RPCAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rpc_attempts_total",
		Help:      "RPC endpoint attempts made by the fallback executor.",
	}, []string{"endpoint", "outcome"})

	// EndpointsExhausted counts requests for which no endpoint succeeded.
	EndpointsExhausted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rpc_endpoints_exhausted_total",
		Help:      "Executor runs that failed on every candidate endpoint.",
	})

	// CirculatingClamped counts circulating-supply computations that went negative.
	CirculatingClamped = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "circulating_clamped_total",
		Help:      "Circulating supply computations clamped to zero.",
	})

	// ConnectionsDialed counts new RPC connections opened by the connection provider.
	ConnectionsDialed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rpc_connections_dialed_total",
		Help:      "RPC connections dialed, by endpoint.",
	}, []string{"endpoint"})

	// RequestDuration observes HTTP handler latency.
	RequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route and status.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "status"})
)

var registerOnce sync.Once

// MustRegisterMetrics registers all collectors with the default registry. Safe to call more than once.
func MustRegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(RPCAttempts, EndpointsExhausted, CirculatingClamped, ConnectionsDialed, RequestDuration)
	})
}
