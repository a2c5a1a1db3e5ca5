package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveUpdate("message")
	m.ObserveUpdate("message")
	m.ObserveCommand("chrome")
	m.ObserveUnauthorized("callback_query")
	m.ObserveWorkflow("trigger", false)
	m.ObserveProviderCall("github", "dispatches", true, 20*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.updates.WithLabelValues("message")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.commands.WithLabelValues("chrome")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.unauthorized.WithLabelValues("callback_query")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.workflowCalls.WithLabelValues("trigger", "failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.providerCalls.WithLabelValues("github", "dispatches", "success")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveUpdate("message")
		m.ObserveCommand("chrome")
		m.ObserveUnauthorized("message")
		m.ObserveWorkflow("cancel", true)
		m.ObserveProviderCall("telegram", "sendMessage", false, time.Second)
	})
}
