package narrative

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/KirkDiggler/pokestory-api/internal/entities"
	"github.com/KirkDiggler/pokestory-api/internal/errors"
)

var promptFuncs = template.FuncMap{
	"join": strings.Join,
	"names": func(elements []entities.Element) string {
		names := make([]string, len(elements))
		for i, e := range elements {
			names[i] = e.Name
		}
		return strings.Join(names, ", ")
	},
}

var promptTemplates = template.Must(
	template.New("prompts").Funcs(promptFuncs).ParseFS(content, "content/prompt_*.tmpl"),
)

// PromptInput is everything the model sees for one step
type PromptInput struct {
	Language        entities.Language
	Guide           Guide
	Protagonist     *entities.Companion
	CurrentElements []entities.Element
	NewElements     []entities.Element
	History         []string
}

type promptData struct {
	PromptInput
	FinalStep int
}

// BuildPrompt renders the step prompt in the requested language
func BuildPrompt(input PromptInput) (string, error) {
	name := "prompt_" + string(input.Language) + ".tmpl"
	tmpl := promptTemplates.Lookup(name)
	if tmpl == nil {
		return "", errors.InvalidArgumentf("no prompt for language %q", input.Language)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, promptData{PromptInput: input, FinalStep: entities.FinalStep}); err != nil {
		return "", errors.Wrap(err, "failed to render prompt")
	}

	return strings.TrimSpace(buf.String()), nil
}
