// Package narrative owns everything about story text: the ten authored
// guides, prompt construction, parsing and validating generated segments,
// the local fallback, and the LLM-backed Generator.
package narrative

import (
	"embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/pokestory-api/internal/entities"
	"github.com/KirkDiggler/pokestory-api/internal/errors"
)

//go:embed content/guides.yaml content/prompt_*.tmpl
var content embed.FS

// Guide is the authored direction for one step of the arc
type Guide struct {
	Step      int    `yaml:"step"`
	Phase     string `yaml:"phase"`
	Title     string `yaml:"title"`
	Objective string `yaml:"objective"`
}

type fallbackCopy struct {
	StoryText string   `yaml:"story_text"`
	Options   []string `yaml:"options"`
}

type languageContent struct {
	Fallback fallbackCopy `yaml:"fallback"`
	Guides   []Guide      `yaml:"guides"`
}

type catalogFile struct {
	Languages map[entities.Language]languageContent `yaml:"languages"`
}

// Catalog holds the guides and fallback copy for every language
type Catalog struct {
	languages map[entities.Language]languageContent
}

// LoadCatalog parses the embedded content and checks it covers every step
// and language.
func LoadCatalog() (*Catalog, error) {
	data, err := content.ReadFile("content/guides.yaml")
	if err != nil {
		return nil, errors.Wrap(err, "failed to read embedded guides")
	}
	return ParseCatalog(data)
}

// ParseCatalog builds a catalog from YAML
func ParseCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "guides are not valid YAML")
	}

	vb := errors.NewValidationBuilder()
	for _, lang := range entities.Languages() {
		lc, ok := file.Languages[entities.Language(lang)]
		if !ok {
			vb.Fieldf(lang, "language missing")
			continue
		}

		sort.Slice(lc.Guides, func(i, j int) bool { return lc.Guides[i].Step < lc.Guides[j].Step })
		if len(lc.Guides) != entities.FinalStep {
			vb.Fieldf(lang+".guides", "want %d guides, got %d", entities.FinalStep, len(lc.Guides))
		}
		for i, g := range lc.Guides {
			if g.Step != i+1 {
				vb.Fieldf(lang+".guides", "step %d out of sequence at position %d", g.Step, i+1)
				break
			}
			if g.Title == "" || g.Objective == "" {
				vb.Fieldf(lang+".guides", "step %d is missing a title or objective", g.Step)
			}
		}

		if lc.Fallback.StoryText == "" {
			vb.RequiredField(lang + ".fallback.story_text")
		}
		if len(lc.Fallback.Options) != entities.OptionsPerStep {
			vb.Fieldf(lang+".fallback.options", "want %d options, got %d", entities.OptionsPerStep, len(lc.Fallback.Options))
		}

		file.Languages[entities.Language(lang)] = lc
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	return &Catalog{languages: file.Languages}, nil
}

// Guide returns the guide for step in language
func (c *Catalog) Guide(language entities.Language, step int) (Guide, error) {
	lc, ok := c.languages[language]
	if !ok {
		return Guide{}, errors.InvalidArgumentf("unsupported language %q", language)
	}
	if step < entities.FirstStep || step > entities.FinalStep {
		return Guide{}, errors.InvalidArgumentf("step %d outside %d..%d", step, entities.FirstStep, entities.FinalStep)
	}
	return lc.Guides[step-1], nil
}

// Fallback returns the locally authored segment: generic text and four
// options that change nothing.
func (c *Catalog) Fallback(language entities.Language) *entities.StepResult {
	lc, ok := c.languages[language]
	if !ok {
		lc = c.languages[entities.LanguageEnglish]
	}

	options := make([]entities.StoryOption, len(lc.Fallback.Options))
	for i, text := range lc.Fallback.Options {
		options[i] = entities.StoryOption{Text: text}
	}

	return &entities.StepResult{
		StoryText: lc.Fallback.StoryText,
		Options:   options,
		Fallback:  true,
	}
}

// String is used in log lines
func (g Guide) String() string {
	return fmt.Sprintf("%d: %s", g.Step, g.Title)
}
