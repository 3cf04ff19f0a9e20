package story

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	storiesStarted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pokestory_stories_started_total",
			Help: "Playthroughs started, partitioned by how the protagonist was chosen.",
		},
		[]string{"protagonist"},
	)
	stepTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pokestory_step_transitions_total",
			Help: "Choices applied, partitioned by the resulting status.",
		},
		[]string{"result"},
	)
	fallbackSegments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pokestory_fallback_segments_total",
			Help: "Segments replaced by local fallback text, partitioned by error code.",
		},
		[]string{"code"},
	)
	levelUps = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pokestory_level_ups_total",
			Help: "Companion level-ups caused by story choices.",
		},
	)
	rejectedChoices = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pokestory_rejected_choices_total",
			Help: "Choices refused because the session was busy or finished.",
		},
		[]string{"reason"},
	)
)
