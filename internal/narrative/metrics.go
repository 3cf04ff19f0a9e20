package narrative

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Request outcomes
const (
	outcomeSuccess   = "success"
	outcomeTransport = "transport_error"
	outcomeEmpty     = "empty_response"
	outcomeRejected  = "rejected"
)

var (
	generationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pokestory_narrative_requests_total",
			Help: "Narrative generation requests, partitioned by model and outcome.",
		},
		[]string{"model", "outcome"},
	)
	generationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pokestory_narrative_request_duration_seconds",
			Help:    "Latency of narrative generation requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"model"},
	)
	generationTokens = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pokestory_narrative_tokens_total",
			Help: "Tokens reported by the model, partitioned by kind.",
		},
		[]string{"model", "kind"},
	)
)
