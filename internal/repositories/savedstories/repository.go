// Package savedstories archives finished playthroughs per player
package savedstories

import (
	"context"

	"github.com/KirkDiggler/pokestory-api/internal/entities"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=savedstoriesmock github.com/KirkDiggler/pokestory-api/internal/repositories/savedstories Repository

// Repository defines the interface for saved story persistence
type Repository interface {
	// Save stores a finished story and indexes it under its player
	// Returns errors.InvalidArgument for a nil story or missing IDs
	// Returns errors.Internal for storage failures
	Save(ctx context.Context, input SaveInput) (*SaveOutput, error)

	// ListByPlayer returns a player's stories, newest first
	// Returns errors.InvalidArgument for an empty player ID
	ListByPlayer(ctx context.Context, input ListByPlayerInput) (*ListByPlayerOutput, error)

	// Delete removes a story. Deleting a missing story is not an error.
	// Returns errors.InvalidArgument for empty IDs
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)
}

// SaveInput defines the input for saving a story
type SaveInput struct {
	Story *entities.SavedStory
}

// SaveOutput defines the output for saving a story
type SaveOutput struct{}

// ListByPlayerInput defines the input for listing stories
type ListByPlayerInput struct {
	PlayerID string
	// Limit caps the number of stories returned; zero means all
	Limit int
}

// ListByPlayerOutput defines the output for listing stories
type ListByPlayerOutput struct {
	Stories []*entities.SavedStory
}

// DeleteInput defines the input for deleting a story
type DeleteInput struct {
	PlayerID string
	StoryID  string
}

// DeleteOutput defines the output for deleting a story
type DeleteOutput struct {
	// Deleted is false when the story did not exist
	Deleted bool
}
