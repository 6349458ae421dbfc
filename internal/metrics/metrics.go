// Package metrics exposes Prometheus collectors for the dashboard.
//
// All collectors live on a private registry so tests can build as many [Metrics] as they like.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "walkerbrain"

// Metrics holds the dashboard's collectors.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	dataCallsTotal      *prometheus.CounterVec
	dataCallDuration    *prometheus.HistogramVec
	cacheLookupsTotal   *prometheus.CounterVec
	loginAttemptsTotal  *prometheus.CounterVec
}

// New creates a [Metrics] with every collector registered, plus the Go runtime and process collectors.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests served.",
		},
		[]string{"method", "route", "status"},
	)

	m.httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	m.dataCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "data_calls_total",
			Help:      "Total number of REST calls made to the analysis database.",
		},
		[]string{"kind", "resource", "outcome"},
	)

	m.dataCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "data_call_duration_seconds",
			Help:      "Duration of REST calls to the analysis database in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		},
		[]string{"kind"},
	)

	m.cacheLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Query cache lookups by result.",
		},
		[]string{"result"},
	)

	m.loginAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_attempts_total",
			Help:      "Password gate attempts by outcome.",
		},
		[]string{"outcome"},
	)

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.dataCallsTotal,
		m.dataCallDuration,
		m.cacheLookupsTotal,
		m.loginAttemptsTotal,
	)

	return m
}

// Registry returns the private registry backing m.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveDataCall records one REST call. kind is select, count or rpc; resource is the table or function.
func (m *Metrics) ObserveDataCall(kind, resource string, err error, d time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.dataCallsTotal.WithLabelValues(kind, resource, outcome).Inc()
	m.dataCallDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// ObserveCacheLookup records a cache hit or miss.
func (m *Metrics) ObserveCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookupsTotal.WithLabelValues(result).Inc()
}

// ObserveLogin records a password attempt. role is empty for a rejected attempt.
func (m *Metrics) ObserveLogin(role string) {
	outcome := "rejected"
	if role != "" {
		outcome = role
	}
	m.loginAttemptsTotal.WithLabelValues(outcome).Inc()
}

// Middleware counts requests and observes their latency, labelled by the matched route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		m.httpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(sw.status)).Inc()
		m.httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(b)
}

func (w *statusWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }
