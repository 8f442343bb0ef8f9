// Package metric records client-side request metrics for shiptrack-cli.
//
// A CLI has no scrape endpoint, so the registry is written in Prometheus
// text format to a file at exit, for node_exporter's textfile collector.
package metric

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "shiptrack"

// Registry holds all client metrics.
type Registry struct {
	reg *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	SessionState    prometheus.Gauge
}

// NewRegistry creates a registry with every client metric registered.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "API requests issued, by operation and outcome.",
		}, []string{"method", "operation", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "request_duration_seconds",
			Help:      "API request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "operation"}),
		SessionState: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "authenticated",
			Help:      "1 when a session token is stored, 0 otherwise.",
		}),
	}

	r.reg.MustRegister(r.RequestsTotal, r.RequestDuration, r.SessionState)
	return r
}

// ObserveRequest records one finished request. status 0 means the
// request never got a response.
func (r *Registry) ObserveRequest(method, operation string, status int, d time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	r.RequestsTotal.WithLabelValues(method, operation, label).Inc()
	r.RequestDuration.WithLabelValues(method, operation).Observe(d.Seconds())
}

// SetAuthenticated records the session state at exit.
func (r *Registry) SetAuthenticated(ok bool) {
	if ok {
		r.SessionState.Set(1)
		return
	}
	r.SessionState.Set(0)
}

// WriteTextfile writes the registry to path atomically.
func (r *Registry) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.reg)
}
