package narrative

//go:generate mockgen -destination=mock/mock_generator.go -package=narrativemock github.com/KirkDiggler/pokestory-api/internal/narrative Generator

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/KirkDiggler/pokestory-api/internal/entities"
	"github.com/KirkDiggler/pokestory-api/internal/errors"
)

// Model defaults, tuned for short structured segments
const (
	DefaultBaseURL     = "https://generativelanguage.googleapis.com/v1beta/openai/"
	DefaultModel       = "gemini-2.5-flash"
	DefaultTemperature = 0.7
	DefaultTopP        = 0.95
	DefaultMaxTokens   = 1000

	pingPrompt = "Respond with a simple 'OK' if you can read this message."
)

// Generator produces validated story segments
type Generator interface {
	// GenerateStep requests the segment for input.Step.
	// Returns errors.InvalidArgument when the response fails validation and
	// errors.Unavailable or errors.ResourceExhausted for transport failures.
	GenerateStep(ctx context.Context, input *GenerateStepInput) (*GenerateStepOutput, error)

	// Ping checks the model answers at all
	Ping(ctx context.Context) error
}

// GenerateStepInput defines the request for one segment
type GenerateStepInput struct {
	Language        entities.Language
	Step            int
	Protagonist     *entities.Companion
	CurrentElements []entities.Element
	NewElements     []entities.Element
	History         []string
}

// GenerateStepOutput defines the response for one segment
type GenerateStepOutput struct {
	Result *entities.StepResult
}

// OpenAIConfig configures a Generator against any OpenAI-compatible endpoint
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	TopP        float32
	MaxTokens   int
	Catalog     *Catalog
	HTTPClient  *http.Client
}

// Validate ensures all required dependencies are provided
func (c *OpenAIConfig) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("APIKey", c.APIKey, vb)
	if c.Catalog == nil {
		vb.RequiredField("Catalog")
	}
	if c.MaxTokens < 0 {
		vb.Field("MaxTokens", "cannot be negative")
	}
	return vb.Build()
}

type openAIGenerator struct {
	client      *openai.Client
	catalog     *Catalog
	model       string
	temperature float32
	topP        float32
	maxTokens   int
}

// NewOpenAI creates a Generator backed by go-openai
func NewOpenAI(cfg *OpenAIConfig) (Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	config := openai.DefaultConfig(cfg.APIKey)
	baseURL := DefaultBaseURL
	if cfg.BaseURL != "" {
		baseURL = cfg.BaseURL
	}
	config.BaseURL = strings.TrimRight(baseURL, "/")
	if cfg.HTTPClient != nil {
		config.HTTPClient = cfg.HTTPClient
	}

	g := &openAIGenerator{
		client:      openai.NewClientWithConfig(config),
		catalog:     cfg.Catalog,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		topP:        cfg.TopP,
		maxTokens:   cfg.MaxTokens,
	}
	if g.model == "" {
		g.model = DefaultModel
	}
	if g.temperature == 0 {
		g.temperature = DefaultTemperature
	}
	if g.topP == 0 {
		g.topP = DefaultTopP
	}
	if g.maxTokens == 0 {
		g.maxTokens = DefaultMaxTokens
	}

	return g, nil
}

func (g *openAIGenerator) GenerateStep(ctx context.Context, input *GenerateStepInput) (*GenerateStepOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	guide, err := g.catalog.Guide(input.Language, input.Step)
	if err != nil {
		return nil, err
	}

	prompt, err := BuildPrompt(PromptInput{
		Language:        input.Language,
		Guide:           guide,
		Protagonist:     input.Protagonist,
		CurrentElements: input.CurrentElements,
		NewElements:     input.NewElements,
		History:         input.History,
	})
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "generating story step",
		"step", input.Step,
		"guide", guide.Title,
		"language", input.Language,
		"prompt_bytes", len(prompt))

	text, err := g.complete(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: g.temperature,
		TopP:        g.topP,
		MaxTokens:   g.maxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, err
	}

	result, err := ParseStepResult(text)
	if err != nil {
		generationRequests.WithLabelValues(g.model, outcomeRejected).Inc()
		slog.WarnContext(ctx, "generated step rejected",
			"step", input.Step,
			"error", err,
			"response_prefix", truncate(text, 200))
		return nil, err
	}

	generationRequests.WithLabelValues(g.model, outcomeSuccess).Inc()
	return &GenerateStepOutput{Result: result}, nil
}

func (g *openAIGenerator) Ping(ctx context.Context) error {
	text, err := g.complete(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: pingPrompt},
		},
		Temperature: 0,
		MaxTokens:   10,
	})
	if err != nil {
		return err
	}

	if !strings.Contains(text, "OK") {
		return errors.Unavailablef("model answered ping with %q", truncate(text, 40))
	}
	return nil
}

// complete sends one chat request and returns the first choice's text
func (g *openAIGenerator) complete(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
	start := time.Now()
	resp, err := g.client.CreateChatCompletion(ctx, req)
	generationDuration.WithLabelValues(g.model).Observe(time.Since(start).Seconds())

	if err != nil {
		generationRequests.WithLabelValues(g.model, outcomeTransport).Inc()
		return "", classifyTransportError(err)
	}

	generationTokens.WithLabelValues(g.model, "prompt").Add(float64(resp.Usage.PromptTokens))
	generationTokens.WithLabelValues(g.model, "completion").Add(float64(resp.Usage.CompletionTokens))

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		generationRequests.WithLabelValues(g.model, outcomeEmpty).Inc()
		return "", errors.Unavailablef("model %s returned an empty response", g.model)
	}

	return resp.Choices[0].Message.Content, nil
}

func classifyTransportError(err error) error {
	var apiErr *openai.APIError
	if stderrors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests:
			return errors.WrapWithCode(err, errors.CodeResourceExhausted, "model rate limited")
		case http.StatusUnauthorized, http.StatusForbidden:
			return errors.WrapWithCode(err, errors.CodeFailedPrecondition, "model rejected credentials")
		}
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.WrapWithCode(err, errors.CodeDeadlineExceeded, "model request timed out")
	}
	if stderrors.Is(err, context.Canceled) {
		return errors.WrapWithCode(err, errors.CodeCanceled, "model request canceled")
	}
	return errors.WrapWithCode(err, errors.CodeUnavailable, "model request failed")
}

// truncate keeps the first n runes of s, so a multi-byte character is
// never split in a log line.
func truncate(s string, n int) string {
	count := 0
	for pos := range s {
		if count == n {
			return s[:pos] + "..."
		}
		count++
	}
	return s
}
