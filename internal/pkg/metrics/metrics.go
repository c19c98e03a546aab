package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Assistant replies by outcome (completed, empty, fallback)
	AssistantRepliesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coding_assistant",
			Subsystem: "assistant",
			Name:      "replies_total",
			Help:      "Total assistant replies by outcome",
		},
		[]string{"outcome"},
	)

	// Provider errors
	ProviderErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coding_assistant",
			Subsystem: "assistant",
			Name:      "provider_errors_total",
			Help:      "Total completion provider failures",
		},
		[]string{"provider"},
	)

	ProviderLatencySeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "coding_assistant",
			Subsystem: "assistant",
			Name:      "provider_latency_seconds",
			Help:      "Completion provider call latency",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 40, 60},
		},
		[]string{"provider"},
	)

	// Conversations
	ConversationsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "coding_assistant",
			Subsystem: "chat",
			Name:      "conversations_created_total",
			Help:      "Total conversations created",
		},
	)

	MessagesAppendedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coding_assistant",
			Subsystem: "chat",
			Name:      "messages_appended_total",
			Help:      "Total messages appended by role",
		},
		[]string{"role"},
	)

	// Live connections
	LiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "coding_assistant",
			Subsystem: "live",
			Name:      "connections",
			Help:      "Currently connected WebSocket clients on this instance",
		},
	)
)

func RecordAssistantReply(provider, outcome string, latency time.Duration, providerFailed bool) {
	AssistantRepliesTotal.WithLabelValues(outcome).Inc()
	ProviderLatencySeconds.WithLabelValues(provider).Observe(latency.Seconds())
	if providerFailed {
		ProviderErrorsTotal.WithLabelValues(provider).Inc()
	}
}
