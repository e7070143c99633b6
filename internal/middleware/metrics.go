package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// unmatchedRoute labels requests no route pattern claimed.
const unmatchedRoute = "unmatched"

// Metrics records Prometheus request metrics.
type Metrics struct {
	requestsTotal    *prometheus.CounterVec
	requestsDuration *prometheus.HistogramVec
	requestsInFlight prometheus.Gauge
	gatherer         prometheus.Gatherer
}

// NewMetrics creates the request metrics and registers them with reg.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "storefront",
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests.",
			},
			[]string{"code", "method", "route"},
		),
		requestsDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "storefront",
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		requestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "storefront",
				Name:      "http_requests_in_flight",
				Help:      "Current number of HTTP requests being processed.",
			},
		),
		gatherer: reg,
	}

	reg.MustRegister(m.requestsTotal, m.requestsDuration, m.requestsInFlight)
	return m
}

// Middleware observes every request. It must wrap the ServeMux directly so
// the matched route pattern is visible after the request is served.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		m.requestsInFlight.Inc()

		rw := newResponseWriter(w)

		defer func() {
			route := r.Pattern
			if route == "" {
				route = unmatchedRoute
			}

			m.requestsTotal.WithLabelValues(strconv.Itoa(rw.statusCode), r.Method, route).Inc()
			m.requestsDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
			m.requestsInFlight.Dec()
		}()

		next.ServeHTTP(rw, r)
	})
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
