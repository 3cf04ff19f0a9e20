package narrative_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/pokestory-api/internal/errors"
	"github.com/KirkDiggler/pokestory-api/internal/narrative"
)

const validSegment = `{
  "storyText": "The wind carried the smell of smoke over Pallet Town.",
  "iconName": "Flame",
  "options": [
    {"text": "Follow the smoke", "effects": {"experienceGain": 30, "hpDelta": -10, "moraleDelta": 0, "newTrait": "Bold"}},
    {"text": "Warn the professor", "effects": {"experienceGain": 10, "hpDelta": 0, "moraleDelta": 5, "newTrait": null}},
    {"text": "Hide and watch", "effects": {"experienceGain": 0, "hpDelta": 5, "moraleDelta": -10, "newTrait": ""}},
    {"text": "Call for help", "effects": {"experienceGain": 5, "hpDelta": 0, "moraleDelta": 0}}
  ]
}`

func TestCleanJSON(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "bare object", input: `{"a":1}`, expected: `{"a":1}`},
		{name: "json fence", input: "```json\n{\"a\":1}\n```", expected: `{"a":1}`},
		{name: "plain fence", input: "```\n{\"a\":1}\n```", expected: `{"a":1}`},
		{name: "chatter around object", input: "Sure! Here it is: {\"a\":{\"b\":2}} Enjoy.", expected: `{"a":{"b":2}}`},
		{name: "no object", input: "  nothing here  ", expected: "nothing here"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, narrative.CleanJSON(tc.input))
		})
	}
}

func TestParseStepResult(t *testing.T) {
	result, err := narrative.ParseStepResult("```json\n" + validSegment + "\n```")
	require.NoError(t, err)

	assert.Equal(t, "The wind carried the smell of smoke over Pallet Town.", result.StoryText)
	assert.Equal(t, "Flame", result.IconName)
	assert.False(t, result.Fallback)
	require.Len(t, result.Options, 4)

	first := result.Options[0]
	assert.Equal(t, "Follow the smoke", first.Text)
	assert.Equal(t, 30, first.Effects.ExperienceGain)
	assert.Equal(t, -10, first.Effects.HPDelta)
	require.NotNil(t, first.Effects.NewTrait)
	assert.Equal(t, "Bold", *first.Effects.NewTrait)

	assert.Nil(t, result.Options[1].Effects.NewTrait)
	assert.Nil(t, result.Options[2].Effects.NewTrait, "blank trait means no trait")
	assert.Nil(t, result.Options[3].Effects.NewTrait)
}

func TestParseStepResultDropsBadIcon(t *testing.T) {
	raw := `{"storyText":"x","iconName":"<script>","options":[
		{"text":"a","effects":{"experienceGain":0}},
		{"text":"b","effects":{"experienceGain":0}},
		{"text":"c","effects":{"experienceGain":0}},
		{"text":"d","effects":{"experienceGain":0}}]}`

	result, err := narrative.ParseStepResult(raw)
	require.NoError(t, err)
	assert.Empty(t, result.IconName)
}

func TestParseStepResultRejections(t *testing.T) {
	testCases := []struct {
		name    string
		raw     string
		errPart string
	}{
		{
			name:    "empty",
			raw:     "",
			errPart: "empty",
		},
		{
			name:    "not json",
			raw:     "{storyText: nope",
			errPart: "not valid JSON",
		},
		{
			name: "three options",
			raw: `{"storyText":"x","options":[
				{"text":"a","effects":{"experienceGain":0}},
				{"text":"b","effects":{"experienceGain":0}},
				{"text":"c","effects":{"experienceGain":0}}]}`,
			errPart: "want exactly 4, got 3",
		},
		{
			name: "missing story text",
			raw: `{"storyText":"  ","options":[
				{"text":"a","effects":{"experienceGain":0}},
				{"text":"b","effects":{"experienceGain":0}},
				{"text":"c","effects":{"experienceGain":0}},
				{"text":"d","effects":{"experienceGain":0}}]}`,
			errPart: "storyText",
		},
		{
			name: "negative experience",
			raw: `{"storyText":"x","options":[
				{"text":"a","effects":{"experienceGain":-5}},
				{"text":"b","effects":{"experienceGain":0}},
				{"text":"c","effects":{"experienceGain":0}},
				{"text":"d","effects":{"experienceGain":0}}]}`,
			errPart: "must not be negative",
		},
		{
			name: "option without effects",
			raw: `{"storyText":"x","options":[
				{"text":"a"},
				{"text":"b","effects":{"experienceGain":0}},
				{"text":"c","effects":{"experienceGain":0}},
				{"text":"d","effects":{"experienceGain":0}}]}`,
			errPart: "options[0].effects",
		},
		{
			name: "option without text",
			raw: `{"storyText":"x","options":[
				{"text":"a","effects":{"experienceGain":0}},
				{"text":"","effects":{"experienceGain":0}},
				{"text":"c","effects":{"experienceGain":0}},
				{"text":"d","effects":{"experienceGain":0}}]}`,
			errPart: "options[1].text",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := narrative.ParseStepResult(tc.raw)
			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, errors.IsInvalidArgument(err))
			assert.Contains(t, err.Error(), tc.errPart)
		})
	}
}
