package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// DeliveryMetrics counts notification delivery attempts per channel and outcome.
type DeliveryMetrics struct {
	deliveries       *prometheus.CounterVec
	listenerFailures *prometheus.CounterVec
}

// NewDeliveryMetrics registers delivery instruments on the given registerer.
func NewDeliveryMetrics(reg prometheus.Registerer) *DeliveryMetrics {
	m := &DeliveryMetrics{
		deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taskora_notification_deliveries_total",
			Help: "Notification delivery attempts by channel and outcome.",
		}, []string{"channel", "outcome"}),
		listenerFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taskora_listener_failures_total",
			Help: "Listener invocations that panicked or errored.",
		}, []string{"listener"}),
	}
	if reg != nil {
		reg.MustRegister(m.deliveries, m.listenerFailures)
	}
	return m
}

// RecordDelivery increments the delivery counter for one attempt.
func (m *DeliveryMetrics) RecordDelivery(channel, outcome string) {
	if m == nil {
		return
	}
	m.deliveries.WithLabelValues(strings.TrimSpace(channel), strings.TrimSpace(outcome)).Inc()
}

// RecordListenerFailure increments the failure counter for one listener.
func (m *DeliveryMetrics) RecordListenerFailure(listener string) {
	if m == nil {
		return
	}
	m.listenerFailures.WithLabelValues(strings.TrimSpace(listener)).Inc()
}
