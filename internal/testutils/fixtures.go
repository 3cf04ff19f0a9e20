package testutils

import (
	"fmt"

	"github.com/KirkDiggler/pokestory-api/internal/entities"
)

// Fixture defaults
const (
	TestPlayerID    = "player-test-001"
	TestSpeciesName = "bulbasaur"
	TestNickname    = "Bulbi"
	TestSpriteURL   = "https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/other/official-artwork/1.png"
)

// CreateTestCompanion creates a fresh level-one companion with sensible defaults
func CreateTestCompanion(id string) *entities.Companion {
	return &entities.Companion{
		ID:                    id,
		SpeciesName:           TestSpeciesName,
		Nickname:              TestNickname,
		Level:                 1,
		Experience:            0,
		ExperienceToNextLevel: 100,
		Stats: entities.CompanionStats{
			MaxHP:         50,
			CurrentHP:     50,
			MaxMorale:     100,
			CurrentMorale: 100,
		},
		Traits:    []string{},
		SpriteURL: TestSpriteURL,
	}
}

// CreateTestRoster creates a roster holding count companions with ids comp-1..comp-n
func CreateTestRoster(count int) *entities.Roster {
	roster := &entities.Roster{Companions: make([]*entities.Companion, 0, count)}
	for i := 1; i <= count; i++ {
		roster.Companions = append(roster.Companions, CreateTestCompanion(fmt.Sprintf("comp-%d", i)))
	}
	return roster
}

// CreateTestElement creates a pokemon element for the given national dex id
func CreateTestElement(id int, name string) entities.Element {
	return entities.Element{
		ID:          id,
		Name:        name,
		Kind:        entities.ElementKindPokemon,
		InternalURL: "/pokemon/" + name,
	}
}

// CreateTestLocation creates a location element; location ids are negative
func CreateTestLocation(id int, name string) entities.Element {
	return entities.Element{
		ID:          -id,
		Name:        name,
		Kind:        entities.ElementKindLocation,
		InternalURL: "/locations/" + name,
	}
}

// CreateTestStepResult creates a valid four-option segment.
// Option 0 grants xp, option 1 costs hp, option 2 costs morale, option 3 teaches a trait.
func CreateTestStepResult(text string, xp int) *entities.StepResult {
	trait := "brave"
	return &entities.StepResult{
		StoryText: text,
		Options: []entities.StoryOption{
			{Text: "Push forward", Effects: entities.Effects{ExperienceGain: xp}},
			{Text: "Take the hit", Effects: entities.Effects{HPDelta: -20}},
			{Text: "Hesitate", Effects: entities.Effects{MoraleDelta: -10}},
			{Text: "Stand firm", Effects: entities.Effects{NewTrait: &trait}},
		},
		IconName: "Flame",
	}
}
