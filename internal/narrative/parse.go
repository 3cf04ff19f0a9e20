package narrative

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/KirkDiggler/pokestory-api/internal/entities"
	"github.com/KirkDiggler/pokestory-api/internal/errors"
)

var (
	fencePattern  = regexp.MustCompile("```(?:json)?\\n?")
	objectPattern = regexp.MustCompile(`(?s)\{.*\}`)
	iconPattern   = regexp.MustCompile(`^[A-Z][A-Za-z0-9]{0,39}$`)
)

// Model output uses camelCase keys

type wireEffects struct {
	ExperienceGain *int    `json:"experienceGain"`
	HPDelta        int     `json:"hpDelta"`
	MoraleDelta    int     `json:"moraleDelta"`
	NewTrait       *string `json:"newTrait"`
}

type wireOption struct {
	Text    string       `json:"text"`
	Effects *wireEffects `json:"effects"`
}

type wireStep struct {
	StoryText string       `json:"storyText"`
	Options   []wireOption `json:"options"`
	IconName  string       `json:"iconName"`
}

// CleanJSON strips markdown fences and keeps the outermost {...} span
func CleanJSON(text string) string {
	text = fencePattern.ReplaceAllString(text, "")
	if match := objectPattern.FindString(text); match != "" {
		return match
	}
	return strings.TrimSpace(text)
}

// ParseStepResult decodes and validates a generated segment. Anything that
// fails is returned as an InvalidArgument error listing what was wrong; the
// caller decides whether to substitute the fallback.
func ParseStepResult(raw string) (*entities.StepResult, error) {
	cleaned := CleanJSON(raw)
	if cleaned == "" {
		return nil, errors.InvalidArgument("generated segment is empty")
	}

	var step wireStep
	if err := json.Unmarshal([]byte(cleaned), &step); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "generated segment is not valid JSON")
	}

	vb := errors.NewValidationBuilder()
	if strings.TrimSpace(step.StoryText) == "" {
		vb.RequiredField("storyText")
	}
	if len(step.Options) != entities.OptionsPerStep {
		vb.Fieldf("options", "want exactly %d, got %d", entities.OptionsPerStep, len(step.Options))
	}

	options := make([]entities.StoryOption, 0, len(step.Options))
	for i, opt := range step.Options {
		field := "options[" + strconv.Itoa(i) + "]"
		if strings.TrimSpace(opt.Text) == "" {
			vb.RequiredField(field + ".text")
		}
		if opt.Effects == nil {
			vb.RequiredField(field + ".effects")
			continue
		}
		if opt.Effects.ExperienceGain == nil {
			vb.RequiredField(field + ".effects.experienceGain")
			continue
		}
		if *opt.Effects.ExperienceGain < 0 {
			vb.Fieldf(field+".effects.experienceGain", "must not be negative, got %d", *opt.Effects.ExperienceGain)
		}

		options = append(options, entities.StoryOption{
			Text: strings.TrimSpace(opt.Text),
			Effects: entities.Effects{
				ExperienceGain: *opt.Effects.ExperienceGain,
				HPDelta:        opt.Effects.HPDelta,
				MoraleDelta:    opt.Effects.MoraleDelta,
				NewTrait:       normalizeTrait(opt.Effects.NewTrait),
			},
		})
	}

	if err := vb.Build(); err != nil {
		return nil, err
	}

	icon := strings.TrimSpace(step.IconName)
	if !iconPattern.MatchString(icon) {
		icon = ""
	}

	return &entities.StepResult{
		StoryText: strings.TrimSpace(step.StoryText),
		Options:   options,
		IconName:  icon,
	}, nil
}

// normalizeTrait treats blank traits as no trait
func normalizeTrait(trait *string) *string {
	if trait == nil {
		return nil
	}
	t := strings.TrimSpace(*trait)
	if t == "" {
		return nil
	}
	return &t
}
