package main

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/KirkDiggler/pokestory-api/internal/orchestrators/story"
)

var storyEvents = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "pokestory_story_events_total",
		Help: "Story events published on the in-process bus, by type.",
	},
	[]string{"type"},
)

// subscribeStoryEvents logs and counts every event the story orchestrator publishes
func subscribeStoryEvents(bus events.EventBus) {
	for _, eventType := range []string{
		story.EventCompanionLeveledUp,
		story.EventStoryCompleted,
		story.EventStoryFailed,
	} {
		bus.SubscribeFunc(eventType, 100, logStoryEvent)
	}
}

func logStoryEvent(ctx context.Context, event events.Event) error {
	storyEvents.WithLabelValues(event.Type()).Inc()

	attrs := []any{
		"event", event.Type(),
		"companion_id", event.Source().GetID(),
		"session_id", event.Target().GetID(),
	}
	for _, key := range []string{
		story.EventKeyPlayerID,
		story.EventKeyLevel,
		story.EventKeyLevelsGained,
		story.EventKeyStep,
		story.EventKeySavedStoryID,
	} {
		if value, ok := event.Context().Get(key); ok {
			attrs = append(attrs, key, value)
		}
	}

	slog.InfoContext(ctx, "story event", attrs...)
	return nil
}
