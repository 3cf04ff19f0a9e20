package story

import (
	"github.com/KirkDiggler/pokestory-api/internal/entities"
)

// ElementsPerStep is how many new elements each segment introduces
const ElementsPerStep = 2

// StartInput defines the request for beginning a playthrough.
// Exactly one of CompanionID or Species selects the protagonist.
type StartInput struct {
	PlayerID string
	// CompanionID picks an existing roster member
	CompanionID string
	// Species adopts a fresh companion (name or national-dex number)
	Species  string
	Nickname string

	Language entities.Language
	// Generations restricts random draws; empty means all
	Generations []int
}

// StartOutput defines the response for beginning a playthrough
type StartOutput struct {
	State *entities.StoryState
	// Adopted is set when the protagonist joined the roster for this story
	Adopted bool
}

// ChooseInput defines the request for picking an option
type ChooseInput struct {
	PlayerID    string
	SessionID   string
	OptionIndex int
}

// ChooseOutput defines the response for picking an option
type ChooseOutput struct {
	State *entities.StoryState
	// LeveledUp is the number of levels gained by this choice
	LeveledUp int
	// SavedStoryID is set when the choice ended the playthrough
	SavedStoryID string
	// Resumed is set when the session held an applied choice whose next
	// segment was never stored; that step was completed and the requested
	// option was not applied.
	Resumed bool
}

// GetInput defines the request for a playthrough snapshot
type GetInput struct {
	PlayerID  string
	SessionID string
}

// GetOutput defines the response for a playthrough snapshot
type GetOutput struct {
	State *entities.StoryState
}
