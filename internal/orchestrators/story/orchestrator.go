// Package story sequences a ten-step playthrough: it applies each choice to
// the protagonist, writes the result back to the roster, draws new elements
// and asks the narrative generator for the next segment.
package story

//go:generate mockgen -destination=mock/mock_service.go -package=storymock github.com/KirkDiggler/pokestory-api/internal/orchestrators/story Service

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/pokestory-api/internal/clients/pokeapi"
	"github.com/KirkDiggler/pokestory-api/internal/engine"
	"github.com/KirkDiggler/pokestory-api/internal/entities"
	"github.com/KirkDiggler/pokestory-api/internal/errors"
	"github.com/KirkDiggler/pokestory-api/internal/narrative"
	"github.com/KirkDiggler/pokestory-api/internal/orchestrators/roster"
	"github.com/KirkDiggler/pokestory-api/internal/pkg/clock"
	"github.com/KirkDiggler/pokestory-api/internal/pkg/idgen"
	"github.com/KirkDiggler/pokestory-api/internal/repositories/playthrough"
	"github.com/KirkDiggler/pokestory-api/internal/repositories/savedstories"
)

// Map icons used when the segment does not name one
const (
	FirstStepIcon   = "Home"
	DefaultStepIcon = "MapPin"
)

// DefaultLanguage narrates when the caller does not pick one
const DefaultLanguage = entities.LanguageSpanish

// Service defines the interface for playthrough operations
type Service interface {
	// Start begins a playthrough at step 1.
	// Returns errors.ResourceExhausted when a fresh protagonist cannot be
	// adopted because the roster is full.
	Start(ctx context.Context, input *StartInput) (*StartOutput, error)

	// Choose applies an option and advances the playthrough.
	// Returns errors.FailedPrecondition once the playthrough has ended and
	// errors.Aborted while another choice for the session is in flight.
	// A session left mid-advance by an earlier failure is finished instead,
	// and the output reports Resumed.
	Choose(ctx context.Context, input *ChooseInput) (*ChooseOutput, error)

	// Get returns a snapshot, finishing an interrupted advance first
	Get(ctx context.Context, input *GetInput) (*GetOutput, error)
}

// Config holds the dependencies for the story orchestrator
type Config struct {
	Roster       roster.Service
	Species      pokeapi.Client
	Generator    narrative.Generator
	Catalog      *narrative.Catalog
	Playthroughs playthrough.Repository
	SavedStories savedstories.Repository
	IDGenerator  idgen.Generator
	Clock        clock.Clock
	// EventBus receives level-up and ending events
	EventBus events.EventBus
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Roster == nil {
		vb.RequiredField("Roster")
	}
	if c.Species == nil {
		vb.RequiredField("Species")
	}
	if c.Generator == nil {
		vb.RequiredField("Generator")
	}
	if c.Catalog == nil {
		vb.RequiredField("Catalog")
	}
	if c.Playthroughs == nil {
		vb.RequiredField("Playthroughs")
	}
	if c.SavedStories == nil {
		vb.RequiredField("SavedStories")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	if c.EventBus == nil {
		vb.RequiredField("EventBus")
	}

	return vb.Build()
}

type orchestrator struct {
	roster       roster.Service
	species      pokeapi.Client
	generator    narrative.Generator
	catalog      *narrative.Catalog
	playthroughs playthrough.Repository
	savedStories savedstories.Repository
	idGen        idgen.Generator
	clock        clock.Clock
	events       events.EventBus

	// sessions with a choice being applied
	inflight sync.Map
}

// NewOrchestrator creates a new story orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	clk := cfg.Clock
	if clk == nil {
		clk = clock.New()
	}

	return &orchestrator{
		roster:       cfg.Roster,
		species:      cfg.Species,
		generator:    cfg.Generator,
		catalog:      cfg.Catalog,
		playthroughs: cfg.Playthroughs,
		savedStories: cfg.SavedStories,
		idGen:        cfg.IDGenerator,
		clock:        clk,
		events:       cfg.EventBus,
	}, nil
}

func (o *orchestrator) Start(ctx context.Context, input *StartInput) (*StartOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	language := input.Language
	if language == "" {
		language = DefaultLanguage
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("player_id", input.PlayerID, vb)
	hasCompanion := strings.TrimSpace(input.CompanionID) != ""
	hasSpecies := strings.TrimSpace(input.Species) != ""
	if hasCompanion == hasSpecies {
		vb.Field("protagonist", "exactly one of companion_id or species is required")
	}
	errors.ValidateEnum("language", string(language), entities.Languages(), vb)
	for _, id := range input.Generations {
		if len(entities.GenerationsByID([]int{id})) == 0 {
			vb.Fieldf("generations", "unknown generation %d", id)
		}
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	var (
		protagonist *entities.Companion
		element     entities.Element
		adopted     bool
		err         error
	)
	if hasCompanion {
		protagonist, element, err = o.existingProtagonist(ctx, input, language)
	} else {
		protagonist, element, err = o.adoptProtagonist(ctx, input, language)
		adopted = err == nil
	}
	if err != nil {
		return nil, err
	}

	now := o.clock.Now()
	state := &entities.StoryState{
		ID:                  o.idGen.Generate(),
		PlayerID:            input.PlayerID,
		Language:            language,
		Generations:         slices.Clone(input.Generations),
		CurrentStep:         entities.FirstStep,
		Status:              entities.StoryStatusActive,
		Protagonist:         protagonist,
		AccumulatedElements: []entities.Element{element},
		StoryHistory:        []string{},
		MapNodes:            []entities.MapNode{},
		StartedAt:           now,
		UpdatedAt:           now,
	}

	o.advance(ctx, state)

	if err := o.save(ctx, state); err != nil {
		return nil, err
	}

	source := "existing"
	if adopted {
		source = "adopted"
	}
	storiesStarted.WithLabelValues(source).Inc()

	slog.InfoContext(ctx, "story started",
		"session_id", state.ID,
		"player_id", state.PlayerID,
		"companion_id", protagonist.ID,
		"language", language,
		"fallback", state.CurrentSegment.Fallback)

	return &StartOutput{State: state.Clone(), Adopted: adopted}, nil
}

func (o *orchestrator) existingProtagonist(ctx context.Context, input *StartInput, language entities.Language) (*entities.Companion, entities.Element, error) {
	out, err := o.roster.Get(ctx, &roster.GetInput{
		PlayerID:    input.PlayerID,
		CompanionID: input.CompanionID,
	})
	if err != nil {
		return nil, entities.Element{}, errors.Wrap(err, "failed to load protagonist")
	}

	companion := out.Companion
	element := entities.Element{
		Name:        companion.SpeciesName,
		Kind:        entities.ElementKindPokemon,
		InternalURL: "/pokemon/" + companion.SpeciesName,
		SpriteURL:   companion.SpriteURL,
	}

	// The dex number is only cosmetic here; a lookup failure is not fatal
	details, err := o.species.GetPokemon(ctx, companion.SpeciesName, language)
	if err != nil {
		slog.WarnContext(ctx, "protagonist species lookup failed",
			"species", companion.SpeciesName,
			"error", err)
	} else {
		element.ID = details.ID
	}

	return companion.Clone(), element, nil
}

func (o *orchestrator) adoptProtagonist(ctx context.Context, input *StartInput, language entities.Language) (*entities.Companion, entities.Element, error) {
	species := strings.ToLower(strings.TrimSpace(input.Species))

	details, err := o.species.GetPokemon(ctx, species, language)
	if err != nil {
		return nil, entities.Element{}, errors.Wrapf(err, "failed to look up species %s", species)
	}

	companion := engine.NewCompanion(engine.NewCompanionInput{
		Species:   details.Name,
		Nickname:  strings.TrimSpace(input.Nickname),
		SpriteURL: details.SpriteURL,
	})

	out, err := o.roster.Adopt(ctx, &roster.AdoptInput{
		PlayerID:  input.PlayerID,
		Companion: companion,
	})
	if err != nil {
		return nil, entities.Element{}, errors.Wrap(err, "failed to adopt protagonist")
	}
	if !out.Adopted {
		return nil, entities.Element{}, errors.ResourceExhaustedf(
			"roster already holds %d companions; release one to start with a new protagonist",
			entities.MaxRosterSize)
	}

	element := entities.Element{
		ID:          details.ID,
		Name:        details.Name,
		Kind:        entities.ElementKindPokemon,
		InternalURL: "/pokemon/" + details.Name,
		SpriteURL:   details.SpriteURL,
	}

	return out.Companion, element, nil
}

func (o *orchestrator) Choose(ctx context.Context, input *ChooseInput) (*ChooseOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("player_id", input.PlayerID, vb)
	errors.ValidateRequired("session_id", input.SessionID, vb)
	errors.ValidateRange("option_index", input.OptionIndex, 0, entities.OptionsPerStep-1, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	if _, busy := o.inflight.LoadOrStore(input.SessionID, struct{}{}); busy {
		rejectedChoices.WithLabelValues("generating").Inc()
		return nil, errors.Abortedf("session %s is already advancing", input.SessionID)
	}
	defer o.inflight.Delete(input.SessionID)

	state, err := o.load(ctx, input.PlayerID, input.SessionID)
	if err != nil {
		return nil, err
	}

	if state.Terminal() {
		rejectedChoices.WithLabelValues("terminal").Inc()
		return nil, errors.FailedPreconditionf("story %s has already %s", state.ID, state.Status).
			WithMeta("status", string(state.Status))
	}

	if state.Generating {
		slog.InfoContext(ctx, "resuming interrupted advance instead of applying option",
			"session_id", state.ID,
			"step", state.CurrentStep,
			"option_index", input.OptionIndex)
		if err := o.resume(ctx, state); err != nil {
			return nil, err
		}
		stepTransitions.WithLabelValues("resumed").Inc()
		return &ChooseOutput{State: state.Clone(), Resumed: true}, nil
	}

	segment := state.CurrentSegment
	if segment == nil || input.OptionIndex >= len(segment.Options) {
		return nil, errors.FailedPreconditionf("story %s has no option %d", state.ID, input.OptionIndex)
	}
	option := segment.Options[input.OptionIndex]

	before := state.Protagonist
	after := engine.ApplyEffects(before, option.Effects)
	gained := after.Level - before.Level

	// after depends only on the stored state, so a retry records the same values
	protagonist, err := o.recordProgress(ctx, state.PlayerID, after)
	if err != nil {
		return nil, err
	}

	state.Protagonist = protagonist
	state.StoryHistory = append(state.StoryHistory, segment.StoryText)
	state.UpdatedAt = o.clock.Now()

	switch {
	case after.Fainted():
		state.Status = entities.StoryStatusFailed
	case state.CurrentStep+1 > entities.FinalStep:
		state.Status = entities.StoryStatusCompleted
	default:
		state.CurrentStep++
		state.Generating = true
	}

	// From here the choice is settled; a later failure resumes instead of
	// applying the option again.
	if err := o.save(ctx, state); err != nil {
		return nil, err
	}

	output := &ChooseOutput{LeveledUp: gained}
	if gained > 0 {
		levelUps.Add(float64(gained))
		o.publishLevelUp(ctx, state, gained)
	}

	if state.Terminal() {
		output.SavedStoryID = o.archive(ctx, state)
		stepTransitions.WithLabelValues(string(state.Status)).Inc()
		o.publishEnding(ctx, state, output.SavedStoryID)
		slog.InfoContext(ctx, "story ended",
			"session_id", state.ID,
			"player_id", state.PlayerID,
			"status", state.Status,
			"step", state.CurrentStep,
			"level", protagonist.Level)
	} else {
		if err := o.resume(ctx, state); err != nil {
			return nil, err
		}
		stepTransitions.WithLabelValues("advanced").Inc()
	}

	output.State = state.Clone()
	return output, nil
}

// recordProgress settles the protagonist's progression on the roster and
// returns the stored companion, so roster-side edits such as a rename carry
// into the story. A companion released mid-story keeps playing from the
// working copy.
func (o *orchestrator) recordProgress(ctx context.Context, playerID string, companion *entities.Companion) (*entities.Companion, error) {
	out, err := o.roster.RecordProgress(ctx, &roster.RecordProgressInput{
		PlayerID:  playerID,
		Companion: companion,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to write protagonist back to roster")
	}
	if !out.Recorded {
		slog.WarnContext(ctx, "protagonist no longer on roster",
			"player_id", playerID,
			"companion_id", companion.ID)
		return companion, nil
	}
	return out.Companion, nil
}

// resume fills in the segment for a state whose choice is already settled
// and stores it with Generating cleared.
func (o *orchestrator) resume(ctx context.Context, state *entities.StoryState) error {
	o.advance(ctx, state)
	state.Generating = false
	state.UpdatedAt = o.clock.Now()
	return o.save(ctx, state)
}

// advance draws elements for state.CurrentStep and fills in its segment.
// It never fails: a missing segment is replaced by the fallback.
func (o *orchestrator) advance(ctx context.Context, state *entities.StoryState) {
	newElements := o.drawElements(ctx, state)
	segment := o.generate(ctx, state, newElements)

	state.AccumulatedElements = append(state.AccumulatedElements, newElements...)
	state.CurrentSegment = segment
	state.MapNodes = append(state.MapNodes, o.mapNode(state.Language, state.CurrentStep, segment))
}

func (o *orchestrator) drawElements(ctx context.Context, state *entities.StoryState) []entities.Element {
	elements, err := o.species.RandomElements(ctx, ElementsPerStep, state.Generations)
	if err != nil {
		slog.WarnContext(ctx, "continuing without new story elements",
			"session_id", state.ID,
			"step", state.CurrentStep,
			"error", err)
		return nil
	}
	return elements
}

func (o *orchestrator) generate(ctx context.Context, state *entities.StoryState, newElements []entities.Element) *entities.StepResult {
	out, err := o.generator.GenerateStep(ctx, &narrative.GenerateStepInput{
		Language:        state.Language,
		Step:            state.CurrentStep,
		Protagonist:     state.Protagonist,
		CurrentElements: state.AccumulatedElements,
		NewElements:     newElements,
		History:         state.StoryHistory,
	})
	if err == nil && out != nil && out.Result != nil {
		return out.Result
	}

	code := errors.GetCode(err)
	if err == nil {
		code = errors.CodeInternal
	}
	fallbackSegments.WithLabelValues(string(code)).Inc()
	slog.WarnContext(ctx, "using fallback segment",
		"session_id", state.ID,
		"step", state.CurrentStep,
		"code", code,
		"retryable", errors.IsRetryable(err),
		"error", err)

	return o.catalog.Fallback(state.Language)
}

func (o *orchestrator) mapNode(language entities.Language, step int, segment *entities.StepResult) entities.MapNode {
	icon := segment.IconName
	if icon == "" {
		icon = DefaultStepIcon
		if step == entities.FirstStep {
			icon = FirstStepIcon
		}
	}

	node := entities.MapNode{Step: step, IconName: icon}
	if guide, err := o.catalog.Guide(language, step); err == nil {
		node.Title = guide.Title
	}
	return node
}

// archive records a finished playthrough. Failures are logged: the
// playthrough itself has already been settled.
func (o *orchestrator) archive(ctx context.Context, state *entities.StoryState) string {
	saved := &entities.SavedStory{
		ID:                 o.idGen.Generate(),
		PlayerID:           state.PlayerID,
		Outcome:            state.Status,
		Language:           state.Language,
		ProtagonistName:    state.Protagonist.DisplayName(),
		ProtagonistSpecies: state.Protagonist.SpeciesName,
		SpriteURL:          state.Protagonist.SpriteURL,
		Level:              state.Protagonist.Level,
		History:            slices.Clone(state.StoryHistory),
		MapNodes:           slices.Clone(state.MapNodes),
		SavedAt:            o.clock.Now(),
	}

	if _, err := o.savedStories.Save(ctx, savedstories.SaveInput{Story: saved}); err != nil {
		slog.ErrorContext(ctx, "failed to archive story",
			"session_id", state.ID,
			"player_id", state.PlayerID,
			"error", err)
		return ""
	}
	return saved.ID
}

func (o *orchestrator) Get(ctx context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("player_id", input.PlayerID, vb)
	errors.ValidateRequired("session_id", input.SessionID, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	state, err := o.load(ctx, input.PlayerID, input.SessionID)
	if err != nil {
		return nil, err
	}
	if !state.Generating {
		if _, busy := o.inflight.Load(state.ID); busy {
			state.Generating = true
		}
		return &GetOutput{State: state}, nil
	}

	if _, busy := o.inflight.LoadOrStore(state.ID, struct{}{}); busy {
		return &GetOutput{State: state}, nil
	}
	defer o.inflight.Delete(state.ID)

	// reload under the guard; a Choose may have finished in between
	state, err = o.load(ctx, input.PlayerID, input.SessionID)
	if err != nil {
		return nil, err
	}
	if state.Generating {
		slog.InfoContext(ctx, "resuming interrupted advance",
			"session_id", state.ID,
			"step", state.CurrentStep)
		if err := o.resume(ctx, state); err != nil {
			return nil, err
		}
	}

	return &GetOutput{State: state}, nil
}

// load hides other players' sessions behind NotFound
func (o *orchestrator) load(ctx context.Context, playerID, sessionID string) (*entities.StoryState, error) {
	out, err := o.playthroughs.Get(ctx, playthrough.GetInput{ID: sessionID})
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NotFoundf("story %s not found", sessionID)
		}
		return nil, errors.Wrap(err, "failed to load story")
	}
	if out.State.PlayerID != playerID {
		return nil, errors.NotFoundf("story %s not found", sessionID)
	}
	return out.State, nil
}

func (o *orchestrator) save(ctx context.Context, state *entities.StoryState) error {
	if _, err := o.playthroughs.Save(ctx, playthrough.SaveInput{State: state}); err != nil {
		return errors.Wrap(err, "failed to save story")
	}
	return nil
}
