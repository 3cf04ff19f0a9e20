// Package roster persists each player's companion roster as one JSON blob
package roster

//go:generate mockgen -destination=mock/mock_repository.go -package=rostermock github.com/KirkDiggler/pokestory-api/internal/repositories/roster Repository

import (
	"context"

	"github.com/KirkDiggler/pokestory-api/internal/entities"
)

// Repository defines the interface for roster persistence
type Repository interface {
	// Get retrieves a player's roster
	// Returns errors.InvalidArgument for an empty player ID
	// Returns errors.NotFound if the player has never saved a roster
	// Returns errors.DataLoss if the stored blob cannot be decoded
	// Returns errors.Internal for storage failures
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Save overwrites a player's roster in a single write
	// Returns errors.InvalidArgument for an empty player ID or nil roster
	// Returns errors.Internal for storage failures
	Save(ctx context.Context, input SaveInput) (*SaveOutput, error)

	// Delete removes a player's roster. Deleting a missing roster is not an error.
	// Returns errors.InvalidArgument for an empty player ID
	// Returns errors.Internal for storage failures
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)

	// Repair scans every stored roster and removes blobs that no longer decode
	// Returns errors.Internal for storage failures
	Repair(ctx context.Context, input RepairInput) (*RepairOutput, error)
}

// GetInput defines the input for getting a roster
type GetInput struct {
	PlayerID string
}

// GetOutput defines the output for getting a roster
type GetOutput struct {
	Roster *entities.Roster
}

// SaveInput defines the input for saving a roster
type SaveInput struct {
	PlayerID string
	Roster   *entities.Roster
}

// SaveOutput defines the output for saving a roster
type SaveOutput struct{}

// DeleteInput defines the input for deleting a roster
type DeleteInput struct {
	PlayerID string
}

// DeleteOutput defines the output for deleting a roster
type DeleteOutput struct{}

// RepairInput defines the input for a repair scan
type RepairInput struct {
	// DryRun reports corrupt keys without deleting them
	DryRun bool
}

// RepairOutput reports what a repair scan found
type RepairOutput struct {
	Checked     int
	CorruptKeys []string
}
