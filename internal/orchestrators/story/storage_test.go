package story_test

import (
	"context"
	"testing"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	pokeapimock "github.com/KirkDiggler/pokestory-api/internal/clients/pokeapi/mock"
	"github.com/KirkDiggler/pokestory-api/internal/entities"
	"github.com/KirkDiggler/pokestory-api/internal/errors"
	"github.com/KirkDiggler/pokestory-api/internal/narrative"
	narrativemock "github.com/KirkDiggler/pokestory-api/internal/narrative/mock"
	"github.com/KirkDiggler/pokestory-api/internal/orchestrators/roster"
	rostermock "github.com/KirkDiggler/pokestory-api/internal/orchestrators/roster/mock"
	"github.com/KirkDiggler/pokestory-api/internal/orchestrators/story"
	"github.com/KirkDiggler/pokestory-api/internal/pkg/clock"
	"github.com/KirkDiggler/pokestory-api/internal/pkg/idgen"
	"github.com/KirkDiggler/pokestory-api/internal/repositories/playthrough"
	playthroughmock "github.com/KirkDiggler/pokestory-api/internal/repositories/playthrough/mock"
	"github.com/KirkDiggler/pokestory-api/internal/repositories/savedstories"
	savedstoriesmock "github.com/KirkDiggler/pokestory-api/internal/repositories/savedstories/mock"
	"github.com/KirkDiggler/pokestory-api/internal/testutils"
)

// StorageErrorTestSuite drives the orchestrator against failing collaborators
type StorageErrorTestSuite struct {
	suite.Suite
	ctrl         *gomock.Controller
	roster       *rostermock.MockService
	species      *pokeapimock.MockClient
	generator    *narrativemock.MockGenerator
	playthroughs *playthroughmock.MockRepository
	savedStories *savedstoriesmock.MockRepository
	service      story.Service
	ctx          context.Context
}

func (s *StorageErrorTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.roster = rostermock.NewMockService(s.ctrl)
	s.species = pokeapimock.NewMockClient(s.ctrl)
	s.generator = narrativemock.NewMockGenerator(s.ctrl)
	s.playthroughs = playthroughmock.NewMockRepository(s.ctrl)
	s.savedStories = savedstoriesmock.NewMockRepository(s.ctrl)
	s.ctx = context.Background()

	catalog, err := narrative.LoadCatalog()
	s.Require().NoError(err)

	s.service, err = story.NewOrchestrator(&story.Config{
		Roster:       s.roster,
		Species:      s.species,
		Generator:    s.generator,
		Catalog:      catalog,
		Playthroughs: s.playthroughs,
		SavedStories: s.savedStories,
		IDGenerator:  idgen.NewSequential("story"),
		Clock:        &clock.Fixed{At: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
		EventBus:     events.NewBus(),
	})
	s.Require().NoError(err)
}

func (s *StorageErrorTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

// finalStepState is a session on its last step whose protagonist is healthy
func (s *StorageErrorTestSuite) finalStepState() *entities.StoryState {
	return &entities.StoryState{
		ID:                  "story_9",
		PlayerID:            testPlayerID,
		Language:            entities.LanguageEnglish,
		CurrentStep:         entities.FinalStep,
		Status:              entities.StoryStatusActive,
		Protagonist:         testutils.CreateTestCompanion("comp-1"),
		AccumulatedElements: []entities.Element{testutils.CreateTestElement(1, "bulbasaur")},
		StoryHistory:        []string{"one", "two"},
		CurrentSegment:      testutils.CreateTestStepResult("The end draws near.", 10),
		MapNodes:            []entities.MapNode{},
	}
}

// midStoryState is finalStepState moved back to an earlier step
func (s *StorageErrorTestSuite) midStoryState(step int) *entities.StoryState {
	state := s.finalStepState()
	state.CurrentStep = step
	return state
}

// recordProgressEcho accepts every write and returns the written companion
func (s *StorageErrorTestSuite) recordProgressEcho(experiences *[]int) *gomock.Call {
	return s.roster.EXPECT().
		RecordProgress(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *roster.RecordProgressInput) (*roster.RecordProgressOutput, error) {
			*experiences = append(*experiences, input.Companion.Experience)
			return &roster.RecordProgressOutput{Recorded: true, Companion: input.Companion.Clone()}, nil
		})
}

// storeInMemory backs the playthrough mock with one stored state. The n-th
// Save (counting from 1) fails when failing[n] is set.
func (s *StorageErrorTestSuite) storeInMemory(initial *entities.StoryState, failing map[int]bool) **entities.StoryState {
	stored := initial.Clone()
	saves := 0
	s.playthroughs.EXPECT().
		Get(gomock.Any(), playthrough.GetInput{ID: initial.ID}).
		DoAndReturn(func(context.Context, playthrough.GetInput) (*playthrough.GetOutput, error) {
			return &playthrough.GetOutput{State: stored.Clone()}, nil
		}).
		AnyTimes()
	s.playthroughs.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input playthrough.SaveInput) (*playthrough.SaveOutput, error) {
			saves++
			if failing[saves] {
				return nil, errors.Unavailable("redis is down")
			}
			stored = input.State.Clone()
			return &playthrough.SaveOutput{}, nil
		}).
		AnyTimes()
	return &stored
}

func (s *StorageErrorTestSuite) expectNextSegment(text string) {
	s.species.EXPECT().
		RandomElements(gomock.Any(), story.ElementsPerStep, gomock.Any()).
		Return(nil, nil).
		AnyTimes()
	s.generator.EXPECT().
		GenerateStep(gomock.Any(), gomock.Any()).
		Return(&narrative.GenerateStepOutput{Result: testutils.CreateTestStepResult(text, 10)}, nil).
		AnyTimes()
}

func (s *StorageErrorTestSuite) TestSegmentSaveFailureResumesOnRetry() {
	var experiences []int
	s.recordProgressEcho(&experiences).Times(1)
	s.expectNextSegment("A new path opens.")

	// the settled choice is stored, the segment save fails
	stored := s.storeInMemory(s.midStoryState(5), map[int]bool{2: true})

	_, err := s.service.Choose(s.ctx, &story.ChooseInput{PlayerID: testPlayerID, SessionID: "story_9"})
	s.Require().True(errors.IsUnavailable(err))

	checkpoint := *stored
	s.Equal(6, checkpoint.CurrentStep)
	s.True(checkpoint.Generating)
	s.Equal([]string{"one", "two", "The end draws near."}, checkpoint.StoryHistory)

	out, err := s.service.Choose(s.ctx, &story.ChooseInput{PlayerID: testPlayerID, SessionID: "story_9", OptionIndex: 2})
	s.Require().NoError(err)
	s.True(out.Resumed)
	s.Zero(out.LeveledUp)

	state := out.State
	s.Equal(6, state.CurrentStep)
	s.False(state.Generating)
	s.Equal("A new path opens.", state.CurrentSegment.StoryText)
	s.Equal([]string{"one", "two", "The end draws near."}, state.StoryHistory)
	s.Equal(10, state.Protagonist.Experience)
	s.Equal([]int{10}, experiences, "effects are settled once")

	s.False((*stored).Generating)
	s.Require().Len((*stored).MapNodes, 1)
	s.Equal(6, (*stored).MapNodes[0].Step)
}

func (s *StorageErrorTestSuite) TestSettleSaveFailureRecordsSameProgress() {
	var experiences []int
	s.recordProgressEcho(&experiences).Times(2)
	s.expectNextSegment("A new path opens.")

	stored := s.storeInMemory(s.midStoryState(5), map[int]bool{1: true})

	_, err := s.service.Choose(s.ctx, &story.ChooseInput{PlayerID: testPlayerID, SessionID: "story_9"})
	s.Require().True(errors.IsUnavailable(err))
	s.Equal(5, (*stored).CurrentStep)
	s.False((*stored).Generating)

	out, err := s.service.Choose(s.ctx, &story.ChooseInput{PlayerID: testPlayerID, SessionID: "story_9"})
	s.Require().NoError(err)
	s.False(out.Resumed)
	s.Equal(6, out.State.CurrentStep)
	s.Equal([]int{10, 10}, experiences, "a retry writes the same absolute values")
	s.Equal([]string{"one", "two", "The end draws near."}, out.State.StoryHistory)
}

func (s *StorageErrorTestSuite) TestGetFinishesInterruptedAdvance() {
	s.expectNextSegment("A new path opens.")

	checkpoint := s.midStoryState(6)
	checkpoint.Generating = true
	stored := s.storeInMemory(checkpoint, nil)

	out, err := s.service.Get(s.ctx, &story.GetInput{PlayerID: testPlayerID, SessionID: "story_9"})
	s.Require().NoError(err)
	s.False(out.State.Generating)
	s.Equal(6, out.State.CurrentStep)
	s.Equal("A new path opens.", out.State.CurrentSegment.StoryText)
	s.False((*stored).Generating)
}

func (s *StorageErrorTestSuite) TestStartSaveFailure() {
	s.roster.EXPECT().
		Get(gomock.Any(), &roster.GetInput{PlayerID: testPlayerID, CompanionID: "comp-1"}).
		Return(&roster.GetOutput{Companion: testutils.CreateTestCompanion("comp-1")}, nil)
	s.species.EXPECT().
		GetPokemon(gomock.Any(), testutils.TestSpeciesName, entities.LanguageSpanish).
		Return(&entities.Pokemon{ID: 1, Name: testutils.TestSpeciesName}, nil)
	s.species.EXPECT().
		RandomElements(gomock.Any(), story.ElementsPerStep, gomock.Any()).
		Return(nil, nil)
	s.generator.EXPECT().
		GenerateStep(gomock.Any(), gomock.Any()).
		Return(&narrative.GenerateStepOutput{Result: testutils.CreateTestStepResult("Hello.", 10)}, nil)
	s.playthroughs.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		Return(nil, errors.Unavailable("redis is down"))

	_, err := s.service.Start(s.ctx, &story.StartInput{PlayerID: testPlayerID, CompanionID: "comp-1"})
	s.Require().Error(err)
	s.True(errors.IsUnavailable(err))
}

func (s *StorageErrorTestSuite) TestChooseLoadFailure() {
	s.Run("missing session", func() {
		s.playthroughs.EXPECT().
			Get(gomock.Any(), playthrough.GetInput{ID: "gone"}).
			Return(nil, errors.NotFound("session expired"))

		_, err := s.service.Choose(s.ctx, &story.ChooseInput{PlayerID: testPlayerID, SessionID: "gone"})
		s.True(errors.IsNotFound(err))
	})

	s.Run("storage error keeps its code", func() {
		s.playthroughs.EXPECT().
			Get(gomock.Any(), playthrough.GetInput{ID: "story_1"}).
			Return(nil, errors.Internal("corrupt session"))

		_, err := s.service.Choose(s.ctx, &story.ChooseInput{PlayerID: testPlayerID, SessionID: "story_1"})
		s.True(errors.IsInternal(err))
	})
}

func (s *StorageErrorTestSuite) TestRosterWriteBackFailure() {
	s.playthroughs.EXPECT().
		Get(gomock.Any(), playthrough.GetInput{ID: "story_9"}).
		Return(&playthrough.GetOutput{State: s.finalStepState()}, nil)
	s.roster.EXPECT().
		RecordProgress(gomock.Any(), gomock.Any()).
		Return(nil, errors.Unavailable("redis is down"))

	_, err := s.service.Choose(s.ctx, &story.ChooseInput{PlayerID: testPlayerID, SessionID: "story_9"})
	s.True(errors.IsUnavailable(err))
}

func (s *StorageErrorTestSuite) TestArchiveFailureStillCompletes() {
	s.playthroughs.EXPECT().
		Get(gomock.Any(), playthrough.GetInput{ID: "story_9"}).
		Return(&playthrough.GetOutput{State: s.finalStepState()}, nil)
	var experiences []int
	s.recordProgressEcho(&experiences)
	s.playthroughs.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input playthrough.SaveInput) (*playthrough.SaveOutput, error) {
			s.Equal(entities.StoryStatusCompleted, input.State.Status)
			return &playthrough.SaveOutput{}, nil
		})
	s.savedStories.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input savedstories.SaveInput) (*savedstories.SaveOutput, error) {
			s.Equal(entities.StoryStatusCompleted, input.Story.Outcome)
			s.Equal([]string{"one", "two", "The end draws near."}, input.Story.History)
			return nil, errors.Unavailable("redis is down")
		})

	out, err := s.service.Choose(s.ctx, &story.ChooseInput{PlayerID: testPlayerID, SessionID: "story_9"})
	s.Require().NoError(err)
	s.Equal(entities.StoryStatusCompleted, out.State.Status)
	s.Empty(out.SavedStoryID)
	s.Equal(10, out.State.Protagonist.Experience)
}

func TestStorageErrorTestSuite(t *testing.T) {
	suite.Run(t, new(StorageErrorTestSuite))
}
