// Package favorites stores the species a player has marked as favorite
package favorites

import (
	"context"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=favoritesmock github.com/KirkDiggler/pokestory-api/internal/repositories/favorites Repository

// Repository defines the interface for favorite species persistence
type Repository interface {
	// Add marks a species as favorite. Adding twice is a no-op.
	// Returns errors.InvalidArgument for an empty player ID or non-positive species ID
	Add(ctx context.Context, input AddInput) (*AddOutput, error)

	// Remove unmarks a species. Removing a missing favorite is a no-op.
	// Returns errors.InvalidArgument for an empty player ID or non-positive species ID
	Remove(ctx context.Context, input RemoveInput) (*RemoveOutput, error)

	// List returns the player's favorite species IDs in ascending order
	// Returns errors.InvalidArgument for an empty player ID
	List(ctx context.Context, input ListInput) (*ListOutput, error)
}

// AddInput defines the input for adding a favorite
type AddInput struct {
	PlayerID  string
	SpeciesID int
}

// AddOutput defines the output for adding a favorite
type AddOutput struct {
	// Added is false when the species was already a favorite
	Added bool
}

// RemoveInput defines the input for removing a favorite
type RemoveInput struct {
	PlayerID  string
	SpeciesID int
}

// RemoveOutput defines the output for removing a favorite
type RemoveOutput struct {
	// Removed is false when the species was not a favorite
	Removed bool
}

// ListInput defines the input for listing favorites
type ListInput struct {
	PlayerID string
}

// ListOutput defines the output for listing favorites
type ListOutput struct {
	SpeciesIDs []int
}
