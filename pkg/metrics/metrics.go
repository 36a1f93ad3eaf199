// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// WebhookEventsTotal tracks inbound webhook events by terminal outcome.
	WebhookEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_events_total",
			Help: "Inbound webhook events by outcome",
		},
		[]string{"outcome"},
	)

	// CompletionDuration tracks completion-service call duration.
	CompletionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "completion_duration_seconds",
			Help:    "Completion service call duration",
			Buckets: []float64{.5, 1, 2, 5, 10, 20, 30, 45, 60},
		},
		[]string{"model", "status"},
	)

	// CompletionTokensTotal tracks completion tokens processed.
	CompletionTokensTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "completion_tokens_total",
			Help: "Total completion tokens processed",
		},
		[]string{"model", "direction"},
	)

	// OutboundSendsTotal tracks outbound WhatsApp sends.
	OutboundSendsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outbound_sends_total",
			Help: "Outbound gateway sends by status",
		},
		[]string{"status"},
	)

	// ConversationTurnsTotal tracks turns appended to conversations.
	ConversationTurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "conversation_turns_total",
			Help: "Turns appended to conversations",
		},
		[]string{"tenant_id", "role"},
	)

	// CatalogSize reports the active catalog size observed per tenant.
	CatalogSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "catalog_active_properties",
			Help: "Active catalog properties seen at last read",
		},
		[]string{"tenant_id"},
	)
)

// Webhook pipeline outcomes.
const (
	OutcomeFiltered  = "filtered"
	OutcomeDelivered = "delivered"
	OutcomeFailed    = "failed"
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordCompletion records metrics for one completion-service call.
func RecordCompletion(model, status string, duration float64, tokensIn, tokensOut int) {
	CompletionDuration.WithLabelValues(model, status).Observe(duration)
	CompletionTokensTotal.WithLabelValues(model, "in").Add(float64(tokensIn))
	CompletionTokensTotal.WithLabelValues(model, "out").Add(float64(tokensOut))
}

// RecordWebhookOutcome records the terminal outcome of one webhook event.
func RecordWebhookOutcome(outcome string) {
	WebhookEventsTotal.WithLabelValues(outcome).Inc()
}
