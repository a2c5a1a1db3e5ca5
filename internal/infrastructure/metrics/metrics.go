package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "actionsbot"

// Metrics holds the bot's Prometheus collectors. A nil *Metrics records nothing.
type Metrics struct {
	updates       *prometheus.CounterVec
	commands      *prometheus.CounterVec
	unauthorized  *prometheus.CounterVec
	workflowCalls *prometheus.CounterVec
	providerCalls *prometheus.CounterVec
	providerTime  *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		updates: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "updates_total",
				Help:      "Webhook updates received, by kind",
			},
			[]string{"kind"},
		),
		commands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "commands_total",
				Help:      "Commands dispatched from authorized users",
			},
			[]string{"command"},
		),
		unauthorized: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "unauthorized_total",
				Help:      "Updates rejected by the allow list, by kind",
			},
			[]string{"kind"},
		),
		workflowCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "workflow_calls_total",
				Help:      "Workflow trigger and cancel calls, by outcome",
			},
			[]string{"action", "outcome"},
		),
		providerCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "provider_requests_total",
				Help:      "Outbound provider API requests, by provider, method and outcome",
			},
			[]string{"provider", "method", "outcome"},
		),
		providerTime: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "provider_request_duration_seconds",
				Help:      "Latency of outbound provider API requests",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"provider", "method"},
		),
	}
	reg.MustRegister(m.updates, m.commands, m.unauthorized, m.workflowCalls, m.providerCalls, m.providerTime)
	return m
}

// ObserveUpdate counts an inbound update of the given kind (message, callback_query, unknown)
func (m *Metrics) ObserveUpdate(kind string) {
	if m == nil {
		return
	}
	m.updates.WithLabelValues(kind).Inc()
}

// ObserveCommand counts a dispatched command
func (m *Metrics) ObserveCommand(command string) {
	if m == nil {
		return
	}
	m.commands.WithLabelValues(command).Inc()
}

// ObserveUnauthorized counts a rejected update
func (m *Metrics) ObserveUnauthorized(kind string) {
	if m == nil {
		return
	}
	m.unauthorized.WithLabelValues(kind).Inc()
}

// ObserveWorkflow counts a workflow trigger or cancel outcome
func (m *Metrics) ObserveWorkflow(action string, success bool) {
	if m == nil {
		return
	}
	m.workflowCalls.WithLabelValues(action, outcome(success)).Inc()
}

// ObserveProviderCall records one outbound HTTP request
func (m *Metrics) ObserveProviderCall(provider, method string, success bool, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.providerCalls.WithLabelValues(provider, method, outcome(success)).Inc()
	m.providerTime.WithLabelValues(provider, method).Observe(elapsed.Seconds())
}

func outcome(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
