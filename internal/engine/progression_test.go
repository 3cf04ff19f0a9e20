package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/pokestory-api/internal/engine"
	"github.com/KirkDiggler/pokestory-api/internal/entities"
)

func newTestCompanion() *entities.Companion {
	return engine.NewCompanion(engine.NewCompanionInput{
		ID:        "companion_1",
		Species:   "pikachu",
		Nickname:  "Sparky",
		SpriteURL: "https://example.test/pikachu.png",
	})
}

func trait(s string) *string {
	return &s
}

func TestNewCompanion(t *testing.T) {
	c := newTestCompanion()

	assert.Equal(t, 1, c.Level)
	assert.Equal(t, 0, c.Experience)
	assert.Equal(t, 100, c.ExperienceToNextLevel)
	assert.Equal(t, entities.CompanionStats{MaxHP: 50, CurrentHP: 50, MaxMorale: 100, CurrentMorale: 100}, c.Stats)
	assert.Empty(t, c.Traits)

	t.Run("nickname falls back to species", func(t *testing.T) {
		c := engine.NewCompanion(engine.NewCompanionInput{ID: "x", Species: "eevee"})
		assert.Equal(t, "eevee", c.Nickname)
	})
}

func TestApplyEffects_Clamping(t *testing.T) {
	testCases := []struct {
		name          string
		currentHP     int
		currentMorale int
		effects       entities.Effects
		wantHP        int
		wantMorale    int
	}{
		{
			name:          "hp clamps at zero",
			currentHP:     5,
			currentMorale: 100,
			effects:       entities.Effects{HPDelta: -20},
			wantHP:        0,
			wantMorale:    100,
		},
		{
			name:          "hp clamps at max",
			currentHP:     45,
			currentMorale: 100,
			effects:       entities.Effects{HPDelta: 30},
			wantHP:        50,
			wantMorale:    100,
		},
		{
			name:          "morale clamps both ways",
			currentHP:     50,
			currentMorale: 10,
			effects:       entities.Effects{MoraleDelta: -500},
			wantHP:        50,
			wantMorale:    0,
		},
		{
			name:          "zero deltas change nothing",
			currentHP:     20,
			currentMorale: 60,
			effects:       entities.Effects{},
			wantHP:        20,
			wantMorale:    60,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestCompanion()
			c.Stats.CurrentHP = tc.currentHP
			c.Stats.CurrentMorale = tc.currentMorale

			got := engine.ApplyEffects(c, tc.effects)

			assert.Equal(t, tc.wantHP, got.Stats.CurrentHP)
			assert.Equal(t, tc.wantMorale, got.Stats.CurrentMorale)
		})
	}
}

func TestApplyEffects_StaysInBounds(t *testing.T) {
	for hp := -120; hp <= 120; hp += 7 {
		for morale := -220; morale <= 220; morale += 11 {
			c := newTestCompanion()
			c.Stats.CurrentHP = 25
			c.Stats.CurrentMorale = 40

			got := engine.ApplyEffects(c, entities.Effects{HPDelta: hp, MoraleDelta: morale})

			require.GreaterOrEqual(t, got.Stats.CurrentHP, 0)
			require.LessOrEqual(t, got.Stats.CurrentHP, got.Stats.MaxHP)
			require.GreaterOrEqual(t, got.Stats.CurrentMorale, 0)
			require.LessOrEqual(t, got.Stats.CurrentMorale, got.Stats.MaxMorale)
		}
	}
}

func TestApplyEffects_Traits(t *testing.T) {
	c := newTestCompanion()

	c = engine.ApplyEffects(c, entities.Effects{NewTrait: trait("brave")})
	c = engine.ApplyEffects(c, entities.Effects{NewTrait: trait("brave")})
	c = engine.ApplyEffects(c, entities.Effects{NewTrait: trait("curious")})
	c = engine.ApplyEffects(c, entities.Effects{NewTrait: nil})

	assert.Equal(t, []string{"brave", "curious"}, c.Traits)
}

func TestApplyEffects_DoesNotMutateInput(t *testing.T) {
	c := newTestCompanion()
	c.Traits = make([]string, 0, 4)
	c.Traits = append(c.Traits, "loyal")
	before := c.Clone()

	got := engine.ApplyEffects(c, entities.Effects{
		ExperienceGain: 500,
		HPDelta:        -10,
		MoraleDelta:    -10,
		NewTrait:       trait("bold"),
	})

	assert.Equal(t, before, c)
	assert.NotSame(t, c, got)
	assert.Equal(t, []string{"loyal"}, c.Traits)
	assert.Equal(t, []string{"loyal", "bold"}, got.Traits)
}

func TestApplyEffects_MultiLevelJump(t *testing.T) {
	c := newTestCompanion()
	c.Stats.CurrentHP = 12
	c.Stats.CurrentMorale = 30

	got := engine.ApplyEffects(c, entities.Effects{ExperienceGain: 250})

	// 250 - 100 at level 2, then - 150 at level 3
	assert.Equal(t, 3, got.Level)
	assert.Equal(t, 0, got.Experience)
	assert.Equal(t, 225, got.ExperienceToNextLevel)
	assert.Equal(t, 70, got.Stats.MaxHP)
	assert.Equal(t, 70, got.Stats.CurrentHP)
	assert.Equal(t, 110, got.Stats.MaxMorale)
	assert.Equal(t, 110, got.Stats.CurrentMorale)
}

func TestApplyEffects_ZeroExperienceNeverLevels(t *testing.T) {
	c := newTestCompanion()
	c.Experience = 99

	got := engine.ApplyEffects(c, entities.Effects{ExperienceGain: 0})

	assert.Equal(t, 1, got.Level)
	assert.Equal(t, 99, got.Experience)
}

func TestAddExperience_CarriesRemainder(t *testing.T) {
	c := newTestCompanion()
	c.Experience = 90

	got := engine.AddExperience(c, 25)

	assert.Equal(t, 2, got.Level)
	assert.Equal(t, 15, got.Experience)
	assert.Equal(t, 150, got.ExperienceToNextLevel)
}

func TestAddExperience_Terminates(t *testing.T) {
	for _, gain := range []int{1, 99, 100, 101, 1_000, 123_456, 10_000_000} {
		got := engine.AddExperience(newTestCompanion(), gain)
		assert.Less(t, got.Experience, got.ExperienceToNextLevel, "gain %d", gain)
		assert.GreaterOrEqual(t, got.Experience, 0, "gain %d", gain)
	}

	t.Run("repairs a corrupt threshold", func(t *testing.T) {
		c := newTestCompanion()
		c.ExperienceToNextLevel = 0

		got := engine.AddExperience(c, 10)

		assert.Equal(t, 1, got.Level)
		assert.Equal(t, 100, got.ExperienceToNextLevel)
	})
}

func TestLevelUp(t *testing.T) {
	c := newTestCompanion()
	c.Experience = 130
	c.Stats.CurrentHP = 1
	c.Stats.CurrentMorale = 1

	got := engine.LevelUp(c)

	assert.Equal(t, 2, got.Level)
	assert.Equal(t, 30, got.Experience)
	assert.Equal(t, 150, got.ExperienceToNextLevel)
	assert.Equal(t, entities.CompanionStats{MaxHP: 60, CurrentHP: 60, MaxMorale: 105, CurrentMorale: 105}, got.Stats)
}

func TestNextThreshold(t *testing.T) {
	assert.Equal(t, 150, engine.NextThreshold(100))
	assert.Equal(t, 225, engine.NextThreshold(150))
	assert.Equal(t, 337, engine.NextThreshold(225))
	assert.Equal(t, 2, engine.NextThreshold(1))
}
