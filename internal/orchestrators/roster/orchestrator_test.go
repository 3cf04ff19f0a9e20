package roster_test

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/pokestory-api/internal/entities"
	"github.com/KirkDiggler/pokestory-api/internal/errors"
	"github.com/KirkDiggler/pokestory-api/internal/orchestrators/roster"
	"github.com/KirkDiggler/pokestory-api/internal/pkg/idgen"
	rosterrepo "github.com/KirkDiggler/pokestory-api/internal/repositories/roster"
	rosterrepomock "github.com/KirkDiggler/pokestory-api/internal/repositories/roster/mock"
	"github.com/KirkDiggler/pokestory-api/internal/testutils"
)

const (
	testPlayerID  = "player_456"
	testRosterKey = "roster:player_456"
)

type OrchestratorTestSuite struct {
	suite.Suite
	mr      *miniredis.Miniredis
	service roster.Service
	ctx     context.Context
}

func (s *OrchestratorTestSuite) SetupTest() {
	mr, client := testutils.CreateTestRedisServer(s.T())
	repo, err := rosterrepo.NewRedis(&rosterrepo.RedisConfig{Client: client})
	s.Require().NoError(err)

	service, err := roster.NewOrchestrator(&roster.Config{
		Repository:  repo,
		IDGenerator: idgen.NewSequential("companion"),
	})
	s.Require().NoError(err)

	s.mr = mr
	s.service = service
	s.ctx = context.Background()
}

func (s *OrchestratorTestSuite) adopt(species string) *roster.AdoptOutput {
	companion := testutils.CreateTestCompanion("")
	companion.SpeciesName = species
	out, err := s.service.Adopt(s.ctx, &roster.AdoptInput{PlayerID: testPlayerID, Companion: companion})
	s.Require().NoError(err)
	return out
}

func (s *OrchestratorTestSuite) TestNewOrchestratorValidation() {
	_, err := roster.NewOrchestrator(&roster.Config{})
	s.Require().Error(err)
	s.Assert().True(errors.IsInvalidArgument(err))
	s.Assert().Contains(err.Error(), "Repository")
}

func (s *OrchestratorTestSuite) TestLoadEmpty() {
	out, err := s.service.Load(s.ctx, &roster.LoadInput{PlayerID: testPlayerID})
	s.Require().NoError(err)
	s.Assert().Equal(0, out.Roster.Len())
	s.Assert().NotNil(out.Roster.Companions)
}

func (s *OrchestratorTestSuite) TestLoadCorruptReturnsEmptyAndDiscards() {
	s.Require().NoError(s.mr.Set(testRosterKey, "][ definitely not json"))

	out, err := s.service.Load(s.ctx, &roster.LoadInput{PlayerID: testPlayerID})
	s.Require().NoError(err)
	s.Assert().Equal(0, out.Roster.Len())
	s.Assert().False(s.mr.Exists(testRosterKey))
}

func (s *OrchestratorTestSuite) TestAdoptUntilFull() {
	first := s.adopt("bulbasaur")
	s.Assert().True(first.Adopted)
	s.Assert().Equal("companion_1", first.Companion.ID)

	s.adopt("charmander")
	third := s.adopt("squirtle")
	s.Assert().True(third.Adopted)
	s.Assert().Equal(3, third.Roster.Len())

	fourth := s.adopt("pikachu")
	s.Assert().False(fourth.Adopted)
	s.Assert().Nil(fourth.Companion)

	loaded, err := s.service.Load(s.ctx, &roster.LoadInput{PlayerID: testPlayerID})
	s.Require().NoError(err)
	s.Require().Equal(3, loaded.Roster.Len())
	species := make([]string, 0, 3)
	for _, c := range loaded.Roster.Companions {
		species = append(species, c.SpeciesName)
	}
	s.Assert().Equal([]string{"bulbasaur", "charmander", "squirtle"}, species)
}

func (s *OrchestratorTestSuite) TestAdoptKeepsGivenID() {
	out, err := s.service.Adopt(s.ctx, &roster.AdoptInput{
		PlayerID:  testPlayerID,
		Companion: testutils.CreateTestCompanion("comp-fixed"),
	})
	s.Require().NoError(err)
	s.Assert().Equal("comp-fixed", out.Companion.ID)

	_, err = s.service.Adopt(s.ctx, &roster.AdoptInput{
		PlayerID:  testPlayerID,
		Companion: testutils.CreateTestCompanion("comp-fixed"),
	})
	s.Assert().Equal(errors.CodeAlreadyExists, errors.GetCode(err))
}

func (s *OrchestratorTestSuite) TestAdoptValidation() {
	_, err := s.service.Adopt(s.ctx, &roster.AdoptInput{PlayerID: testPlayerID})
	s.Assert().True(errors.IsInvalidArgument(err))

	_, err = s.service.Adopt(s.ctx, nil)
	s.Assert().True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestRelease() {
	s.adopt("bulbasaur")
	second := s.adopt("charmander")

	out, err := s.service.Release(s.ctx, &roster.ReleaseInput{PlayerID: testPlayerID, CompanionID: second.Companion.ID})
	s.Require().NoError(err)
	s.Assert().True(out.Released)
	s.Assert().Equal(1, out.Roster.Len())

	again, err := s.service.Release(s.ctx, &roster.ReleaseInput{PlayerID: testPlayerID, CompanionID: second.Companion.ID})
	s.Require().NoError(err)
	s.Assert().False(again.Released)
	s.Assert().Equal(1, again.Roster.Len())
}

func (s *OrchestratorTestSuite) TestReleaseFreesSlot() {
	s.adopt("bulbasaur")
	s.adopt("charmander")
	third := s.adopt("squirtle")

	_, err := s.service.Release(s.ctx, &roster.ReleaseInput{PlayerID: testPlayerID, CompanionID: third.Companion.ID})
	s.Require().NoError(err)

	s.Assert().True(s.adopt("pikachu").Adopted)
}

func (s *OrchestratorTestSuite) TestUpdate() {
	adopted := s.adopt("bulbasaur")

	changed := adopted.Companion.Clone()
	changed.Level = 4
	changed.Traits = append(changed.Traits, "curious")

	out, err := s.service.Update(s.ctx, &roster.UpdateInput{PlayerID: testPlayerID, Companion: changed})
	s.Require().NoError(err)
	s.Assert().True(out.Updated)

	got, err := s.service.Get(s.ctx, &roster.GetInput{PlayerID: testPlayerID, CompanionID: changed.ID})
	s.Require().NoError(err)
	s.Assert().Equal(changed, got.Companion)
}

func (s *OrchestratorTestSuite) TestUpdateUnknownIsNotAnError() {
	s.adopt("bulbasaur")

	out, err := s.service.Update(s.ctx, &roster.UpdateInput{
		PlayerID:  testPlayerID,
		Companion: testutils.CreateTestCompanion("ghost"),
	})
	s.Require().NoError(err)
	s.Assert().False(out.Updated)

	loaded, err := s.service.Load(s.ctx, &roster.LoadInput{PlayerID: testPlayerID})
	s.Require().NoError(err)
	s.Assert().Equal(1, loaded.Roster.Len())
}

func (s *OrchestratorTestSuite) TestRename() {
	adopted := s.adopt("bulbasaur")

	out, err := s.service.Rename(s.ctx, &roster.RenameInput{
		PlayerID:    testPlayerID,
		CompanionID: adopted.Companion.ID,
		Nickname:    "  Leafy  ",
	})
	s.Require().NoError(err)
	s.Assert().Equal("Leafy", out.Companion.Nickname)
	s.Assert().Equal("bulbasaur", out.Companion.SpeciesName)

	s.Run("unknown companion", func() {
		_, err := s.service.Rename(s.ctx, &roster.RenameInput{PlayerID: testPlayerID, CompanionID: "ghost", Nickname: "x"})
		s.Assert().True(errors.IsNotFound(err))
	})

	s.Run("blank nickname", func() {
		_, err := s.service.Rename(s.ctx, &roster.RenameInput{PlayerID: testPlayerID, CompanionID: adopted.Companion.ID, Nickname: "   "})
		s.Assert().True(errors.IsInvalidArgument(err))
	})
}

func (s *OrchestratorTestSuite) TestRecordProgressKeepsNickname() {
	adopted := s.adopt("bulbasaur")
	working := adopted.Companion.Clone()

	_, err := s.service.Rename(s.ctx, &roster.RenameInput{
		PlayerID:    testPlayerID,
		CompanionID: adopted.Companion.ID,
		Nickname:    "Leafy",
	})
	s.Require().NoError(err)

	working.Level = 3
	working.Experience = 12
	working.ExperienceToNextLevel = 300
	working.Traits = append(working.Traits, "brave")

	out, err := s.service.RecordProgress(s.ctx, &roster.RecordProgressInput{PlayerID: testPlayerID, Companion: working})
	s.Require().NoError(err)
	s.Assert().True(out.Recorded)
	s.Assert().Equal("Leafy", out.Companion.Nickname)
	s.Assert().Equal(3, out.Companion.Level)
	s.Assert().Equal(12, out.Companion.Experience)
	s.Assert().Contains(out.Companion.Traits, "brave")

	s.Run("same values twice leave the roster unchanged", func() {
		again, err := s.service.RecordProgress(s.ctx, &roster.RecordProgressInput{PlayerID: testPlayerID, Companion: working})
		s.Require().NoError(err)
		s.Assert().Equal(out.Companion, again.Companion)
	})

	got, err := s.service.Get(s.ctx, &roster.GetInput{PlayerID: testPlayerID, CompanionID: adopted.Companion.ID})
	s.Require().NoError(err)
	s.Assert().Equal(out.Companion, got.Companion)
}

func (s *OrchestratorTestSuite) TestRecordProgressUnknownAndInvalid() {
	s.adopt("bulbasaur")

	out, err := s.service.RecordProgress(s.ctx, &roster.RecordProgressInput{
		PlayerID:  testPlayerID,
		Companion: testutils.CreateTestCompanion("ghost"),
	})
	s.Require().NoError(err)
	s.Assert().False(out.Recorded)

	_, err = s.service.RecordProgress(s.ctx, &roster.RecordProgressInput{})
	s.Assert().True(errors.IsInvalidArgument(err))
	s.Assert().Len(errors.GetViolations(err), 2)
}

func (s *OrchestratorTestSuite) TestSaveRejectsOversizedRoster() {
	_, err := s.service.Save(s.ctx, &roster.SaveInput{PlayerID: testPlayerID, Roster: testutils.CreateTestRoster(4)})
	s.Assert().True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestSaveThenLoad() {
	saved := testutils.CreateTestRoster(2)
	_, err := s.service.Save(s.ctx, &roster.SaveInput{PlayerID: testPlayerID, Roster: saved})
	s.Require().NoError(err)

	raw, err := s.mr.Get(testRosterKey)
	s.Require().NoError(err)
	var stored entities.Roster
	s.Require().NoError(json.Unmarshal([]byte(raw), &stored))
	s.Assert().Equal(saved, &stored)
}

func (s *OrchestratorTestSuite) TestConcurrentAdoptsNeverExceedCapacity() {
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			companion := testutils.CreateTestCompanion("")
			companion.SpeciesName = fmt.Sprintf("species-%d", i)
			_, _ = s.service.Adopt(s.ctx, &roster.AdoptInput{PlayerID: testPlayerID, Companion: companion})
		}(i)
	}
	wg.Wait()

	loaded, err := s.service.Load(s.ctx, &roster.LoadInput{PlayerID: testPlayerID})
	s.Require().NoError(err)
	s.Assert().Equal(entities.MaxRosterSize, loaded.Roster.Len())
}

func (s *OrchestratorTestSuite) TestRepair() {
	s.Require().NoError(s.mr.Set("roster:broken", "nope"))
	s.adopt("bulbasaur")

	out, err := s.service.Repair(s.ctx, &roster.RepairInput{})
	s.Require().NoError(err)
	s.Assert().Equal(2, out.Checked)
	s.Assert().Equal([]string{"roster:broken"}, out.CorruptKeys)
}

func TestOrchestratorTestSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}

type OrchestratorStorageErrorSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	mockRepo *rosterrepomock.MockRepository
	service  roster.Service
	ctx      context.Context
}

func (s *OrchestratorStorageErrorSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockRepo = rosterrepomock.NewMockRepository(s.ctrl)

	service, err := roster.NewOrchestrator(&roster.Config{
		Repository:  s.mockRepo,
		IDGenerator: idgen.NewSequential("companion"),
	})
	s.Require().NoError(err)
	s.service = service
	s.ctx = context.Background()
}

func (s *OrchestratorStorageErrorSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *OrchestratorStorageErrorSuite) TestLoadPropagatesStorageFailure() {
	s.mockRepo.EXPECT().
		Get(s.ctx, rosterrepo.GetInput{PlayerID: testPlayerID}).
		Return(nil, errors.Unavailablef("connection refused"))

	_, err := s.service.Load(s.ctx, &roster.LoadInput{PlayerID: testPlayerID})
	s.Require().Error(err)
	s.Assert().True(errors.IsUnavailable(err))
}

func (s *OrchestratorStorageErrorSuite) TestAdoptSaveFailureSurfaces() {
	s.mockRepo.EXPECT().
		Get(s.ctx, rosterrepo.GetInput{PlayerID: testPlayerID}).
		Return(nil, errors.NotFound("roster not found"))
	s.mockRepo.EXPECT().
		Save(s.ctx, gomock.Any()).
		Return(nil, errors.Internal("disk full"))

	_, err := s.service.Adopt(s.ctx, &roster.AdoptInput{
		PlayerID:  testPlayerID,
		Companion: testutils.CreateTestCompanion(""),
	})
	s.Assert().True(errors.IsInternal(err))
}

func (s *OrchestratorStorageErrorSuite) TestCorruptDeleteFailureStillReturnsEmpty() {
	s.mockRepo.EXPECT().
		Get(s.ctx, rosterrepo.GetInput{PlayerID: testPlayerID}).
		Return(nil, errors.DataLossf("bad blob"))
	s.mockRepo.EXPECT().
		Delete(s.ctx, rosterrepo.DeleteInput{PlayerID: testPlayerID}).
		Return(nil, errors.Internal("delete failed"))

	out, err := s.service.Load(s.ctx, &roster.LoadInput{PlayerID: testPlayerID})
	s.Require().NoError(err)
	s.Assert().Equal(0, out.Roster.Len())
}

func TestOrchestratorStorageErrorSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorStorageErrorSuite))
}
