// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Login and registration outcomes used as the "result" label.
const (
	ResultSuccess      = "success"
	ResultNotFound     = "not_found"
	ResultUnauthorized = "unauthorized"
	ResultBadRequest   = "bad_request"
	ResultError        = "error"
)

// Metrics contains the service's custom collectors.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests  *prometheus.CounterVec
	HTTPDuration  *prometheus.HistogramVec
	Logins        *prometheus.CounterVec
	Registrations *prometheus.CounterVec
}

// New creates a private registry with Go/process collectors and the service metrics.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "user_service_http_requests_total",
				Help: "Total number of HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "user_service_http_request_duration_seconds",
				Help:    "HTTP request latency by method and route",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		Logins: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "user_service_logins_total",
				Help: "Total number of login attempts by result",
			},
			[]string{"result"},
		),
		Registrations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "user_service_registrations_total",
				Help: "Total number of registration attempts by result",
			},
			[]string{"result"},
		),
	}

	registry.MustRegister(m.HTTPRequests, m.HTTPDuration, m.Logins, m.Registrations)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// ObserveLogin records a login outcome. Safe on a nil receiver.
func (m *Metrics) ObserveLogin(result string) {
	if m == nil {
		return
	}
	m.Logins.WithLabelValues(result).Inc()
}

// ObserveRegistration records a registration outcome. Safe on a nil receiver.
func (m *Metrics) ObserveRegistration(result string) {
	if m == nil {
		return
	}
	m.Registrations.WithLabelValues(result).Inc()
}
