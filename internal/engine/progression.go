// Package engine holds the game rules for companion growth.
//
// Every function here is pure: it takes a companion and returns a new one,
// leaving the input untouched. Callers persist the result through the roster.
package engine

import (
	"github.com/KirkDiggler/pokestory-api/internal/entities"
)

// Starting values and per-level growth
const (
	BaseHP                  = 50
	BaseMorale              = 100
	BaseExperienceThreshold = 100

	HPGainPerLevel     = 10
	MoraleGainPerLevel = 5
)

// NewCompanionInput describes a freshly adopted companion
type NewCompanionInput struct {
	ID        string
	Species   string
	Nickname  string
	SpriteURL string
}

// NewCompanion creates a level 1 companion at full health.
// An empty nickname falls back to the species name.
func NewCompanion(input NewCompanionInput) *entities.Companion {
	nickname := input.Nickname
	if nickname == "" {
		nickname = input.Species
	}

	return &entities.Companion{
		ID:                    input.ID,
		SpeciesName:           input.Species,
		Nickname:              nickname,
		Level:                 1,
		Experience:            0,
		ExperienceToNextLevel: BaseExperienceThreshold,
		Stats: entities.CompanionStats{
			MaxHP:         BaseHP,
			CurrentHP:     BaseHP,
			MaxMorale:     BaseMorale,
			CurrentMorale: BaseMorale,
		},
		Traits:    []string{},
		SpriteURL: input.SpriteURL,
	}
}

// ApplyEffects returns the companion after a story choice: HP and morale
// move by their deltas and are clamped, a new trait is added once, and any
// experience gain is settled with AddExperience.
func ApplyEffects(companion *entities.Companion, effects entities.Effects) *entities.Companion {
	updated := companion.Clone()

	updated.Stats.CurrentHP = clamp(updated.Stats.CurrentHP+effects.HPDelta, 0, updated.Stats.MaxHP)
	updated.Stats.CurrentMorale = clamp(updated.Stats.CurrentMorale+effects.MoraleDelta, 0, updated.Stats.MaxMorale)

	if effects.NewTrait != nil && *effects.NewTrait != "" && !updated.HasTrait(*effects.NewTrait) {
		updated.Traits = append(updated.Traits, *effects.NewTrait)
	}

	if effects.ExperienceGain > 0 {
		updated = AddExperience(updated, effects.ExperienceGain)
	}

	return updated
}

// AddExperience adds amount and levels up as many times as the total allows.
func AddExperience(companion *entities.Companion, amount int) *entities.Companion {
	updated := companion.Clone()
	updated.Experience += amount
	if updated.Experience < 0 {
		updated.Experience = 0
	}

	// A stored threshold of zero would never be exceeded by the remainder
	if updated.ExperienceToNextLevel <= 0 {
		updated.ExperienceToNextLevel = BaseExperienceThreshold
	}

	for updated.Experience >= updated.ExperienceToNextLevel {
		updated = LevelUp(updated)
	}

	return updated
}

// LevelUp performs a single level transition. Overflow experience carries
// over, the threshold grows by half, and HP and morale are fully restored
// at their new maximums.
func LevelUp(companion *entities.Companion) *entities.Companion {
	updated := companion.Clone()

	updated.Experience -= updated.ExperienceToNextLevel
	if updated.Experience < 0 {
		updated.Experience = 0
	}
	updated.Level++
	updated.ExperienceToNextLevel = NextThreshold(updated.ExperienceToNextLevel)

	updated.Stats.MaxHP += HPGainPerLevel
	updated.Stats.MaxMorale += MoraleGainPerLevel
	updated.Stats.CurrentHP = updated.Stats.MaxHP
	updated.Stats.CurrentMorale = updated.Stats.MaxMorale

	return updated
}

// NextThreshold is floor(threshold * 1.5)
func NextThreshold(threshold int) int {
	next := threshold * 3 / 2
	if next <= threshold {
		// keeps tiny thresholds growing
		next = threshold + 1
	}
	return next
}

func clamp(value, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	return max(lo, min(value, hi))
}
