package narrative_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/pokestory-api/internal/entities"
	"github.com/KirkDiggler/pokestory-api/internal/errors"
	"github.com/KirkDiggler/pokestory-api/internal/narrative"
	"github.com/KirkDiggler/pokestory-api/internal/testutils"
)

func TestBuildPrompt(t *testing.T) {
	catalog, err := narrative.LoadCatalog()
	require.NoError(t, err)

	guide, err := catalog.Guide(entities.LanguageEnglish, 3)
	require.NoError(t, err)

	protagonist := testutils.CreateTestCompanion("comp-1")
	protagonist.Traits = []string{"brave", "curious"}

	prompt, err := narrative.BuildPrompt(narrative.PromptInput{
		Language:    entities.LanguageEnglish,
		Guide:       guide,
		Protagonist: protagonist,
		CurrentElements: []entities.Element{
			testutils.CreateTestElement(1, "bulbasaur"),
		},
		NewElements: []entities.Element{
			testutils.CreateTestElement(25, "pikachu"),
			testutils.CreateTestLocation(12, "viridian-forest"),
		},
		History: []string{"It began in a quiet town.", "A storm rolled in."},
	})
	require.NoError(t, err)

	assert.Contains(t, prompt, "Step: 3/10")
	assert.Contains(t, prompt, guide.Title)
	assert.Contains(t, prompt, guide.Objective)
	assert.Contains(t, prompt, "Bulbi (bulbasaur)")
	assert.Contains(t, prompt, "HP: 50/50")
	assert.Contains(t, prompt, "brave, curious")
	assert.Contains(t, prompt, "pikachu, viridian-forest")
	assert.Contains(t, prompt, "A storm rolled in.")
	assert.Contains(t, prompt, "WRITE ALL TEXT IN ENGLISH")
	assert.Contains(t, prompt, `"experienceGain"`)
}

func TestBuildPromptSpanish(t *testing.T) {
	catalog, err := narrative.LoadCatalog()
	require.NoError(t, err)

	guide, err := catalog.Guide(entities.LanguageSpanish, 1)
	require.NoError(t, err)

	prompt, err := narrative.BuildPrompt(narrative.PromptInput{
		Language:    entities.LanguageSpanish,
		Guide:       guide,
		Protagonist: testutils.CreateTestCompanion("comp-1"),
	})
	require.NoError(t, err)

	assert.Contains(t, prompt, "La Inquietud Latente")
	assert.NotContains(t, prompt, "Previous story context")
}

func TestBuildPromptUnknownLanguage(t *testing.T) {
	_, err := narrative.BuildPrompt(narrative.PromptInput{Language: entities.Language("fr")})
	assert.True(t, errors.IsInvalidArgument(err))
}
