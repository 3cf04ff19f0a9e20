package playthrough_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/pokestory-api/internal/entities"
	"github.com/KirkDiggler/pokestory-api/internal/errors"
	"github.com/KirkDiggler/pokestory-api/internal/repositories/playthrough"
	"github.com/KirkDiggler/pokestory-api/internal/testutils"
)

// RepositoryTestSuite runs the same contract against every implementation
type RepositoryTestSuite struct {
	suite.Suite
	newRepo func() playthrough.Repository
	repo    playthrough.Repository
	ctx     context.Context
}

func (s *RepositoryTestSuite) SetupTest() {
	s.repo = s.newRepo()
	s.ctx = context.Background()
}

func testState(id string) *entities.StoryState {
	started := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return &entities.StoryState{
		ID:                  id,
		PlayerID:            testutils.TestPlayerID,
		Language:            entities.LanguageSpanish,
		Generations:         []int{1, 2},
		CurrentStep:         1,
		Status:              entities.StoryStatusActive,
		Protagonist:         testutils.CreateTestCompanion("comp-1"),
		AccumulatedElements: []entities.Element{testutils.CreateTestElement(1, "bulbasaur")},
		StoryHistory:        []string{},
		CurrentSegment:      testutils.CreateTestStepResult("Once upon a time", 30),
		MapNodes:            []entities.MapNode{{Step: 1, IconName: "Home", Title: "Start"}},
		StartedAt:           started,
		UpdatedAt:           started,
	}
}

func (s *RepositoryTestSuite) TestSaveThenGet() {
	state := testState("story_1")

	_, err := s.repo.Save(s.ctx, playthrough.SaveInput{State: state})
	s.Require().NoError(err)

	out, err := s.repo.Get(s.ctx, playthrough.GetInput{ID: "story_1"})
	s.Require().NoError(err)
	s.Assert().Equal(state, out.State)
}

func (s *RepositoryTestSuite) TestGetReturnsCopy() {
	_, err := s.repo.Save(s.ctx, playthrough.SaveInput{State: testState("story_1")})
	s.Require().NoError(err)

	first, err := s.repo.Get(s.ctx, playthrough.GetInput{ID: "story_1"})
	s.Require().NoError(err)
	first.State.StoryHistory = append(first.State.StoryHistory, "mutated")
	first.State.Protagonist.Nickname = "changed"

	second, err := s.repo.Get(s.ctx, playthrough.GetInput{ID: "story_1"})
	s.Require().NoError(err)
	s.Assert().Empty(second.State.StoryHistory)
	s.Assert().Equal(testutils.TestNickname, second.State.Protagonist.Nickname)
}

func (s *RepositoryTestSuite) TestGetMissing() {
	_, err := s.repo.Get(s.ctx, playthrough.GetInput{ID: "nope"})
	s.Assert().True(errors.IsNotFound(err))
}

func (s *RepositoryTestSuite) TestDelete() {
	_, err := s.repo.Save(s.ctx, playthrough.SaveInput{State: testState("story_1")})
	s.Require().NoError(err)

	_, err = s.repo.Delete(s.ctx, playthrough.DeleteInput{ID: "story_1"})
	s.Require().NoError(err)

	_, err = s.repo.Get(s.ctx, playthrough.GetInput{ID: "story_1"})
	s.Assert().True(errors.IsNotFound(err))

	_, err = s.repo.Delete(s.ctx, playthrough.DeleteInput{ID: "story_1"})
	s.Assert().NoError(err)
}

func (s *RepositoryTestSuite) TestValidation() {
	_, err := s.repo.Save(s.ctx, playthrough.SaveInput{})
	s.Assert().True(errors.IsInvalidArgument(err))

	_, err = s.repo.Save(s.ctx, playthrough.SaveInput{State: &entities.StoryState{}})
	s.Assert().True(errors.IsInvalidArgument(err))

	_, err = s.repo.Get(s.ctx, playthrough.GetInput{})
	s.Assert().True(errors.IsInvalidArgument(err))
}

func TestInMemoryRepository(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{
		newRepo: func() playthrough.Repository { return playthrough.NewInMemory() },
	})
}

func TestRedisRepository(t *testing.T) {
	s := &RepositoryTestSuite{}
	s.newRepo = func() playthrough.Repository {
		_, client := testutils.CreateTestRedisServer(s.T())
		repo, err := playthrough.NewRedis(&playthrough.RedisConfig{Client: client})
		s.Require().NoError(err)
		return repo
	}
	suite.Run(t, s)
}

type RedisTTLTestSuite struct {
	suite.Suite
	mr   *miniredis.Miniredis
	repo playthrough.Repository
	ctx  context.Context
}

func (s *RedisTTLTestSuite) SetupTest() {
	mr, client := testutils.CreateTestRedisServer(s.T())
	repo, err := playthrough.NewRedis(&playthrough.RedisConfig{Client: client, TTL: time.Hour})
	s.Require().NoError(err)

	s.mr = mr
	s.repo = repo
	s.ctx = context.Background()
}

func (s *RedisTTLTestSuite) TestSessionExpires() {
	_, err := s.repo.Save(s.ctx, playthrough.SaveInput{State: testState("story_1")})
	s.Require().NoError(err)
	s.Assert().Equal(time.Hour, s.mr.TTL("playthrough:story_1"))

	s.mr.FastForward(2 * time.Hour)

	_, err = s.repo.Get(s.ctx, playthrough.GetInput{ID: "story_1"})
	s.Assert().True(errors.IsNotFound(err))
}

func (s *RedisTTLTestSuite) TestSaveRefreshesTTL() {
	_, err := s.repo.Save(s.ctx, playthrough.SaveInput{State: testState("story_1")})
	s.Require().NoError(err)

	s.mr.FastForward(45 * time.Minute)
	_, err = s.repo.Save(s.ctx, playthrough.SaveInput{State: testState("story_1")})
	s.Require().NoError(err)

	s.mr.FastForward(45 * time.Minute)
	_, err = s.repo.Get(s.ctx, playthrough.GetInput{ID: "story_1"})
	s.Assert().NoError(err)
}

func (s *RedisTTLTestSuite) TestCorruptSessionIsDataLoss() {
	s.Require().NoError(s.mr.Set("playthrough:story_1", "{"))

	_, err := s.repo.Get(s.ctx, playthrough.GetInput{ID: "story_1"})
	s.Assert().Equal(errors.CodeDataLoss, errors.GetCode(err))
}

func (s *RedisTTLTestSuite) TestConfigValidation() {
	_, err := playthrough.NewRedis(&playthrough.RedisConfig{})
	s.Assert().True(errors.IsInvalidArgument(err))

	_, client := testutils.CreateTestRedisServer(s.T())
	_, err = playthrough.NewRedis(&playthrough.RedisConfig{Client: client, TTL: -time.Second})
	s.Assert().True(errors.IsInvalidArgument(err))
}

func TestRedisTTLTestSuite(t *testing.T) {
	suite.Run(t, new(RedisTTLTestSuite))
}
