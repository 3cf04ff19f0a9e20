package roster

import (
	"github.com/KirkDiggler/pokestory-api/internal/entities"
)

// LoadInput defines the request for loading a roster
type LoadInput struct {
	PlayerID string
}

// LoadOutput defines the response for loading a roster
type LoadOutput struct {
	Roster *entities.Roster
}

// SaveInput defines the request for replacing a roster
type SaveInput struct {
	PlayerID string
	Roster   *entities.Roster
}

// SaveOutput defines the response for replacing a roster
type SaveOutput struct{}

// AdoptInput defines the request for adopting a companion
type AdoptInput struct {
	PlayerID string
	// Companion is appended as given; an empty ID is filled in
	Companion *entities.Companion
}

// AdoptOutput defines the response for adopting a companion
type AdoptOutput struct {
	// Adopted is false when the roster was already full
	Adopted   bool
	Companion *entities.Companion
	Roster    *entities.Roster
}

// ReleaseInput defines the request for releasing a companion
type ReleaseInput struct {
	PlayerID    string
	CompanionID string
}

// ReleaseOutput defines the response for releasing a companion
type ReleaseOutput struct {
	// Released is false when no companion had that ID
	Released bool
	Roster   *entities.Roster
}

// UpdateInput defines the request for replacing one companion
type UpdateInput struct {
	PlayerID  string
	Companion *entities.Companion
}

// UpdateOutput defines the response for replacing one companion
type UpdateOutput struct {
	// Updated is false when no companion had that ID
	Updated bool
}

// RecordProgressInput defines the request for settling a story's effects
type RecordProgressInput struct {
	PlayerID string
	// Companion is the story's working copy; only its progression fields are read
	Companion *entities.Companion
}

// RecordProgressOutput defines the response for settling a story's effects
type RecordProgressOutput struct {
	// Recorded is false when the companion is no longer on the roster
	Recorded bool
	// Companion is the stored companion after the merge, or nil when not recorded
	Companion *entities.Companion
}

// GetInput defines the request for a single companion
type GetInput struct {
	PlayerID    string
	CompanionID string
}

// GetOutput defines the response for a single companion
type GetOutput struct {
	Companion *entities.Companion
}

// RenameInput defines the request for changing a nickname
type RenameInput struct {
	PlayerID    string
	CompanionID string
	Nickname    string
}

// RenameOutput defines the response for changing a nickname
type RenameOutput struct {
	Companion *entities.Companion
}

// RepairInput defines the request for a corrupt-roster sweep
type RepairInput struct {
	DryRun bool
}

// RepairOutput defines the response for a corrupt-roster sweep
type RepairOutput struct {
	Checked     int
	CorruptKeys []string
}
