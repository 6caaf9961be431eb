package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CompletionsTotal counts streaming completion requests by model and outcome
var CompletionsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "chat_completions_total",
		Help: "Streaming completion requests by model and outcome",
	},
	[]string{"model", "status"},
)

// MessagesSaved counts persisted chat messages by role
var MessagesSaved = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "chat_messages_saved_total",
		Help: "Persisted chat messages by role",
	},
	[]string{"role"},
)

func init() {
	prometheus.MustRegister(CompletionsTotal, MessagesSaved)
}
