// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Messagely Contributors

package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_RecordAuth(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordAuth("register", "success")
	m.RecordAuth("register", "success")
	m.RecordAuth("login", "error")

	assert.InDelta(t, 2, testutil.ToFloat64(m.AuthAttempts.WithLabelValues("register", "success")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.AuthAttempts.WithLabelValues("login", "error")), 0)
}

func TestMetrics_ObserveRequest(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.ObserveRequest("GET", "/users", 200, time.Millisecond)
	m.ObserveRequest("GET", "/users", 401, time.Millisecond)

	assert.InDelta(t, 1, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/users", "200")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/users", "401")), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(m.RequestDuration))
}

func TestRecordBestEffortFailure(t *testing.T) {
	before := testutil.ToFloat64(bestEffortFailures.WithLabelValues("login_timestamp"))

	RecordBestEffortFailure("login_timestamp")

	after := testutil.ToFloat64(bestEffortFailures.WithLabelValues("login_timestamp"))
	assert.InDelta(t, before+1, after, 0)
}

func TestNewMetrics_SharesBestEffortCounterAcrossRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewMetrics(prometheus.NewRegistry())
		NewMetrics(prometheus.NewRegistry())
	})
}
