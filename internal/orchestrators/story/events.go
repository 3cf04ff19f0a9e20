package story

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/core"
	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/pokestory-api/internal/entities"
)

// Event types published on the configured bus. The source is always the
// protagonist and the target the playthrough.
const (
	EventCompanionLeveledUp = "companion.leveled_up"
	EventStoryCompleted     = "story.completed"
	EventStoryFailed        = "story.failed"
)

// Keys set on event contexts
const (
	EventKeyPlayerID     = "player_id"
	EventKeyLevel        = "level"
	EventKeyLevelsGained = "levels_gained"
	EventKeyStep         = "step"
	EventKeySavedStoryID = "saved_story_id"
)

// publish sends an event and logs handler failures. The transition the event
// describes is already stored, so a failing subscriber cannot undo it.
func (o *orchestrator) publish(ctx context.Context, eventType string, source, target core.Entity, values map[string]any) {
	event := events.NewGameEvent(eventType, source, target)
	for k, v := range values {
		event.Context().Set(k, v)
	}

	if err := o.events.Publish(ctx, event); err != nil {
		slog.WarnContext(ctx, "event handler failed",
			"event", eventType,
			"source_id", source.GetID(),
			"target_id", target.GetID(),
			"error", err)
	}
}

func (o *orchestrator) publishLevelUp(ctx context.Context, state *entities.StoryState, gained int) {
	o.publish(ctx, EventCompanionLeveledUp, state.Protagonist, state, map[string]any{
		EventKeyPlayerID:     state.PlayerID,
		EventKeyLevel:        state.Protagonist.Level,
		EventKeyLevelsGained: gained,
	})
}

func (o *orchestrator) publishEnding(ctx context.Context, state *entities.StoryState, savedStoryID string) {
	eventType := EventStoryCompleted
	if state.Status == entities.StoryStatusFailed {
		eventType = EventStoryFailed
	}
	o.publish(ctx, eventType, state.Protagonist, state, map[string]any{
		EventKeyPlayerID:     state.PlayerID,
		EventKeyStep:         state.CurrentStep,
		EventKeySavedStoryID: savedStoryID,
	})
}
