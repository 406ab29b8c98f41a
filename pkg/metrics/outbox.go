package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// OutboxPublisherMetrics counts delivery outcomes per event type.
type OutboxPublisherMetrics struct {
	published *prometheus.CounterVec
	failed    *prometheus.CounterVec
	dlq       *prometheus.CounterVec
}

// NewOutboxPublisherMetrics registers the publisher metrics on the provided
// registerer. A nil registerer yields a no-op collector.
func NewOutboxPublisherMetrics(reg prometheus.Registerer) *OutboxPublisherMetrics {
	if reg == nil {
		return &OutboxPublisherMetrics{}
	}
	published := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "outbox_events_published",
		Help: "Outbox events delivered to Pub/Sub.",
	}, []string{"event_type"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "outbox_publish_failures",
		Help: "Transient outbox publish failures left for a later poll.",
	}, []string{"event_type"})
	dlq := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "outbox_events_dead_lettered",
		Help: "Outbox events parked in the dead letter queue.",
	}, []string{"event_type"})
	reg.MustRegister(published, failed, dlq)
	return &OutboxPublisherMetrics{
		published: published,
		failed:    failed,
		dlq:       dlq,
	}
}

// IncPublished increments the published counter for the event type.
func (o *OutboxPublisherMetrics) IncPublished(eventType string) {
	if o == nil || o.published == nil {
		return
	}
	o.published.WithLabelValues(normalizeLabel(eventType)).Inc()
}

// IncFailed increments the transient failure counter for the event type.
func (o *OutboxPublisherMetrics) IncFailed(eventType string) {
	if o == nil || o.failed == nil {
		return
	}
	o.failed.WithLabelValues(normalizeLabel(eventType)).Inc()
}

// IncDeadLettered increments the DLQ counter for the event type.
func (o *OutboxPublisherMetrics) IncDeadLettered(eventType string) {
	if o == nil || o.dlq == nil {
		return
	}
	o.dlq.WithLabelValues(normalizeLabel(eventType)).Inc()
}
