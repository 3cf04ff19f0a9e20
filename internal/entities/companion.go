package entities

import (
	"slices"

	"github.com/KirkDiggler/rpg-toolkit/core"
)

// MaxRosterSize is the number of companions a player can keep at once
const MaxRosterSize = 3

// EntityTypeCompanion is the rpg-toolkit entity type for companions
const EntityTypeCompanion = "companion"

// Companion is a player's persistent creature. ID, SpeciesName and SpriteURL
// never change after creation; everything else moves with play.
type Companion struct {
	ID                    string         `json:"id"`
	SpeciesName           string         `json:"species_name"`
	Nickname              string         `json:"nickname"`
	Level                 int            `json:"level"`
	Experience            int            `json:"experience"`
	ExperienceToNextLevel int            `json:"experience_to_next_level"`
	Stats                 CompanionStats `json:"stats"`
	Traits                []string       `json:"traits"`
	SpriteURL             string         `json:"sprite_url"`
}

// CompanionStats holds hit points and morale.
// Current values stay within [0, Max].
type CompanionStats struct {
	MaxHP         int `json:"max_hp"`
	CurrentHP     int `json:"current_hp"`
	MaxMorale     int `json:"max_morale"`
	CurrentMorale int `json:"current_morale"`
}

var _ core.Entity = (*Companion)(nil)

// GetID returns the companion's ID
func (c *Companion) GetID() string {
	return c.ID
}

// GetType returns the entity type for rpg-toolkit
func (c *Companion) GetType() string {
	return EntityTypeCompanion
}

// HasTrait reports whether the companion already carries trait
func (c *Companion) HasTrait(trait string) bool {
	return slices.Contains(c.Traits, trait)
}

// Fainted reports whether the companion has no hit points left
func (c *Companion) Fainted() bool {
	return c.Stats.CurrentHP <= 0
}

// DisplayName is the nickname, or the species when no nickname was given
func (c *Companion) DisplayName() string {
	if c.Nickname != "" {
		return c.Nickname
	}
	return c.SpeciesName
}

// Violations lists the stored-state invariants c breaks, if any.
// A non-positive threshold is left to the progression rules to repair.
func (c *Companion) Violations() []string {
	var out []string
	if c.Level < 1 {
		out = append(out, "level below 1")
	}
	if c.Experience < 0 {
		out = append(out, "negative experience")
	}
	if c.ExperienceToNextLevel > 0 && c.Experience >= c.ExperienceToNextLevel {
		out = append(out, "experience at or past the level threshold")
	}
	if c.Stats.CurrentHP < 0 || c.Stats.CurrentHP > c.Stats.MaxHP {
		out = append(out, "current HP outside [0, max]")
	}
	if c.Stats.CurrentMorale < 0 || c.Stats.CurrentMorale > c.Stats.MaxMorale {
		out = append(out, "current morale outside [0, max]")
	}
	seen := make(map[string]struct{}, len(c.Traits))
	for _, t := range c.Traits {
		if _, dup := seen[t]; dup {
			out = append(out, "duplicate trait "+t)
		}
		seen[t] = struct{}{}
	}
	return out
}

// WithProgressOf returns a copy of c carrying p's level, experience, stats
// and traits. Identity fields and the nickname stay as in c.
func (c *Companion) WithProgressOf(p *Companion) *Companion {
	out := c.Clone()
	out.Level = p.Level
	out.Experience = p.Experience
	out.ExperienceToNextLevel = p.ExperienceToNextLevel
	out.Stats = p.Stats
	out.Traits = slices.Clone(p.Traits)
	return out
}

// Clone returns a deep copy
func (c *Companion) Clone() *Companion {
	if c == nil {
		return nil
	}
	out := *c
	out.Traits = slices.Clone(c.Traits)
	return &out
}

// Roster is a player's ordered, capacity-bounded set of companions.
// It is persisted as a single blob.
type Roster struct {
	Companions []*Companion `json:"companions"`
}

// Len returns the number of companions
func (r *Roster) Len() int {
	return len(r.Companions)
}

// Full reports whether another companion can be adopted
func (r *Roster) Full() bool {
	return r.Len() >= MaxRosterSize
}

// IndexOf returns the position of the companion with id, or -1
func (r *Roster) IndexOf(id string) int {
	return slices.IndexFunc(r.Companions, func(c *Companion) bool {
		return c != nil && c.ID == id
	})
}

// Clone returns a deep copy
func (r *Roster) Clone() *Roster {
	out := &Roster{Companions: make([]*Companion, 0, len(r.Companions))}
	for _, c := range r.Companions {
		out.Companions = append(out.Companions, c.Clone())
	}
	return out
}
