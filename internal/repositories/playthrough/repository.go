// Package playthrough stores in-progress story sessions.
// Sessions are ephemeral: they expire after a TTL and are never archived here.
package playthrough

import (
	"context"
	"time"

	"github.com/KirkDiggler/pokestory-api/internal/entities"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=playthroughmock github.com/KirkDiggler/pokestory-api/internal/repositories/playthrough Repository

// DefaultTTL is how long an idle session survives
const DefaultTTL = 24 * time.Hour

// Repository defines the storage interface for story sessions
type Repository interface {
	// Save creates or replaces a session and refreshes its TTL
	// Returns errors.InvalidArgument for a nil state or empty ID
	Save(ctx context.Context, input SaveInput) (*SaveOutput, error)

	// Get retrieves a session by ID
	// Returns errors.NotFound if the session never existed or has expired
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)
}

// SaveInput defines the input for saving a session
type SaveInput struct {
	State *entities.StoryState
}

// SaveOutput defines the output for saving a session
type SaveOutput struct{}

// GetInput defines the input for getting a session
type GetInput struct {
	ID string
}

// GetOutput defines the output for getting a session
type GetOutput struct {
	State *entities.StoryState
}

// DeleteInput defines the input for deleting a session
type DeleteInput struct {
	ID string
}

// DeleteOutput defines the output for deleting a session
type DeleteOutput struct{}
