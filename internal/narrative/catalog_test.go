package narrative_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/pokestory-api/internal/entities"
	"github.com/KirkDiggler/pokestory-api/internal/errors"
	"github.com/KirkDiggler/pokestory-api/internal/narrative"
)

func TestLoadCatalog(t *testing.T) {
	catalog, err := narrative.LoadCatalog()
	require.NoError(t, err)

	for _, lang := range []entities.Language{entities.LanguageSpanish, entities.LanguageEnglish} {
		for step := entities.FirstStep; step <= entities.FinalStep; step++ {
			guide, err := catalog.Guide(lang, step)
			require.NoError(t, err, "%s step %d", lang, step)
			assert.Equal(t, step, guide.Step)
			assert.NotEmpty(t, guide.Phase)
			assert.NotEmpty(t, guide.Title)
			assert.NotEmpty(t, guide.Objective)
		}
	}
}

func TestGuideLookup(t *testing.T) {
	catalog, err := narrative.LoadCatalog()
	require.NoError(t, err)

	first, err := catalog.Guide(entities.LanguageEnglish, 1)
	require.NoError(t, err)
	assert.Equal(t, "The Latent Restlessness", first.Title)

	primero, err := catalog.Guide(entities.LanguageSpanish, 1)
	require.NoError(t, err)
	assert.Equal(t, "La Inquietud Latente", primero.Title)

	t.Run("step out of range", func(t *testing.T) {
		_, err := catalog.Guide(entities.LanguageEnglish, 0)
		assert.True(t, errors.IsInvalidArgument(err))

		_, err = catalog.Guide(entities.LanguageEnglish, entities.FinalStep+1)
		assert.True(t, errors.IsInvalidArgument(err))
	})

	t.Run("unknown language", func(t *testing.T) {
		_, err := catalog.Guide(entities.Language("fr"), 1)
		assert.True(t, errors.IsInvalidArgument(err))
	})
}

func TestFallback(t *testing.T) {
	catalog, err := narrative.LoadCatalog()
	require.NoError(t, err)

	result := catalog.Fallback(entities.LanguageSpanish)
	require.NotNil(t, result)
	assert.True(t, result.Fallback)
	assert.NotEmpty(t, result.StoryText)
	require.Len(t, result.Options, entities.OptionsPerStep)
	for _, opt := range result.Options {
		assert.NotEmpty(t, opt.Text)
		assert.Equal(t, entities.Effects{}, opt.Effects, "fallback options change nothing")
	}

	t.Run("unknown language uses english", func(t *testing.T) {
		fr := catalog.Fallback(entities.Language("fr"))
		en := catalog.Fallback(entities.LanguageEnglish)
		assert.Equal(t, en.StoryText, fr.StoryText)
	})

	t.Run("returns a fresh copy", func(t *testing.T) {
		a := catalog.Fallback(entities.LanguageEnglish)
		a.Options[0].Text = "changed"
		b := catalog.Fallback(entities.LanguageEnglish)
		assert.NotEqual(t, "changed", b.Options[0].Text)
	})
}

func TestParseCatalogRejectsIncompleteContent(t *testing.T) {
	testCases := []struct {
		name string
		yaml string
	}{
		{
			name: "not yaml",
			yaml: "languages: [",
		},
		{
			name: "missing language",
			yaml: `
languages:
  en:
    fallback: {story_text: "x", options: [a, b, c, d]}
    guides: []
`,
		},
		{
			name: "short fallback options",
			yaml: `
languages:
  es:
    fallback: {story_text: "x", options: [a]}
    guides: []
  en:
    fallback: {story_text: "x", options: [a]}
    guides: []
`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := narrative.ParseCatalog([]byte(tc.yaml))
			require.Error(t, err)
			assert.True(t, errors.IsInvalidArgument(err))
		})
	}
}
