// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Messagely Contributors

package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// bestEffortFailures counts side effects that failed without failing the
// request that triggered them. It is package-level so services can record
// failures without holding a Server.
var bestEffortFailures = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "messagely_best_effort_failures_total",
		Help: "Total number of best-effort side effects that failed, by operation",
	},
	[]string{"operation"},
)

// RecordBestEffortFailure increments the best-effort failure counter.
func RecordBestEffortFailure(operation string) {
	bestEffortFailures.WithLabelValues(operation).Inc()
}

// Metrics contains the Prometheus metrics for Messagely.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	AuthAttempts    *prometheus.CounterVec
	MessagesCreated prometheus.Counter
	MessagesRead    prometheus.Counter
}

// NewMetrics creates and registers Messagely metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "messagely_http_requests_total",
				Help: "Total number of HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "messagely_http_request_duration_seconds",
				Help:    "HTTP request latency by method and route",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		AuthAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "messagely_auth_attempts_total",
				Help: "Total number of register and login attempts by outcome",
			},
			[]string{"operation", "outcome"},
		),
		MessagesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "messagely_messages_created_total",
			Help: "Total number of messages created",
		}),
		MessagesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "messagely_messages_read_total",
			Help: "Total number of successful mark-read requests",
		}),
	}

	reg.MustRegister(m.RequestsTotal)
	reg.MustRegister(m.RequestDuration)
	reg.MustRegister(m.AuthAttempts)
	reg.MustRegister(m.MessagesCreated)
	reg.MustRegister(m.MessagesRead)
	reg.MustRegister(bestEffortFailures)

	return m
}

// ObserveRequest records one completed HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordAuth records the outcome ("success", "rejected", "error") of a
// register or login attempt.
func (m *Metrics) RecordAuth(operation, outcome string) {
	m.AuthAttempts.WithLabelValues(operation, outcome).Inc()
}
