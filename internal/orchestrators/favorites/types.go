package favorites

import (
	"github.com/KirkDiggler/pokestory-api/internal/entities"
)

// ToggleInput defines the request for flipping a favorite
type ToggleInput struct {
	PlayerID  string
	SpeciesID int
}

// ToggleOutput defines the response for flipping a favorite
type ToggleOutput struct {
	// Favorited is the state after the toggle
	Favorited bool
}

// ListInput defines the request for listing favorites
type ListInput struct {
	PlayerID string
	// IncludeDetails resolves every ID through the species catalog
	IncludeDetails bool
	Language       entities.Language
}

// ListOutput defines the response for listing favorites
type ListOutput struct {
	SpeciesIDs []int
	// Pokemon is only filled when details were requested; species that
	// could not be resolved are left out.
	Pokemon []*entities.Pokemon
}
