package roster_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/pokestory-api/internal/entities"
	"github.com/KirkDiggler/pokestory-api/internal/errors"
	"github.com/KirkDiggler/pokestory-api/internal/repositories/roster"
	"github.com/KirkDiggler/pokestory-api/internal/testutils"
)

const (
	testPlayerID  = "player_456"
	testRosterKey = "roster:player_456"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	mr   *miniredis.Miniredis
	repo roster.Repository
	ctx  context.Context
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	mr, client := testutils.CreateTestRedisServer(s.T())
	repo, err := roster.NewRedis(&roster.RedisConfig{Client: client})
	s.Require().NoError(err)

	s.mr = mr
	s.repo = repo
	s.ctx = context.Background()
}

func (s *RedisRepositoryTestSuite) TestNewRedisValidation() {
	_, err := roster.NewRedis(nil)
	s.Assert().True(errors.IsInvalidArgument(err))

	_, err = roster.NewRedis(&roster.RedisConfig{})
	s.Assert().True(errors.IsInvalidArgument(err))
}

func (s *RedisRepositoryTestSuite) TestSaveThenGet() {
	saved := testutils.CreateTestRoster(2)

	_, err := s.repo.Save(s.ctx, roster.SaveInput{PlayerID: testPlayerID, Roster: saved})
	s.Require().NoError(err)
	s.Assert().True(s.mr.Exists(testRosterKey))

	out, err := s.repo.Get(s.ctx, roster.GetInput{PlayerID: testPlayerID})
	s.Require().NoError(err)
	s.Assert().Equal(saved, out.Roster)
}

func (s *RedisRepositoryTestSuite) TestSaveOverwrites() {
	_, err := s.repo.Save(s.ctx, roster.SaveInput{PlayerID: testPlayerID, Roster: testutils.CreateTestRoster(3)})
	s.Require().NoError(err)

	_, err = s.repo.Save(s.ctx, roster.SaveInput{PlayerID: testPlayerID, Roster: testutils.CreateTestRoster(1)})
	s.Require().NoError(err)

	out, err := s.repo.Get(s.ctx, roster.GetInput{PlayerID: testPlayerID})
	s.Require().NoError(err)
	s.Assert().Equal(1, out.Roster.Len())
}

func (s *RedisRepositoryTestSuite) TestGet() {
	s.Run("missing roster is not found", func() {
		_, err := s.repo.Get(s.ctx, roster.GetInput{PlayerID: "nobody"})
		s.Assert().True(errors.IsNotFound(err))
	})

	s.Run("empty player id", func() {
		_, err := s.repo.Get(s.ctx, roster.GetInput{})
		s.Assert().True(errors.IsInvalidArgument(err))
	})

	s.Run("unparseable blob is data loss", func() {
		s.Require().NoError(s.mr.Set(testRosterKey, "{not json"))

		_, err := s.repo.Get(s.ctx, roster.GetInput{PlayerID: testPlayerID})
		s.Require().Error(err)
		s.Assert().Equal(errors.CodeDataLoss, errors.GetCode(err))
	})

	s.Run("oversized roster is data loss", func() {
		data, err := json.Marshal(testutils.CreateTestRoster(4))
		s.Require().NoError(err)
		s.Require().NoError(s.mr.Set(testRosterKey, string(data)))

		_, err = s.repo.Get(s.ctx, roster.GetInput{PlayerID: testPlayerID})
		s.Assert().Equal(errors.CodeDataLoss, errors.GetCode(err))
	})

	s.Run("companion invariants are checked", func() {
		overHealed := testutils.CreateTestRoster(2)
		overHealed.Companions[1].Stats.CurrentHP = 80

		negativeXP := testutils.CreateTestRoster(1)
		negativeXP.Companions[0].Experience = -5

		for _, bad := range []*entities.Roster{overHealed, negativeXP} {
			data, err := json.Marshal(bad)
			s.Require().NoError(err)
			s.Require().NoError(s.mr.Set(testRosterKey, string(data)))

			_, err = s.repo.Get(s.ctx, roster.GetInput{PlayerID: testPlayerID})
			s.Assert().Equal(errors.CodeDataLoss, errors.GetCode(err))
		}
	})

	s.Run("null companions decode as empty", func() {
		s.Require().NoError(s.mr.Set(testRosterKey, `{"companions":null}`))

		out, err := s.repo.Get(s.ctx, roster.GetInput{PlayerID: testPlayerID})
		s.Require().NoError(err)
		s.Assert().NotNil(out.Roster.Companions)
		s.Assert().Equal(0, out.Roster.Len())
	})
}

func (s *RedisRepositoryTestSuite) TestSaveValidation() {
	_, err := s.repo.Save(s.ctx, roster.SaveInput{Roster: testutils.CreateTestRoster(1)})
	s.Assert().True(errors.IsInvalidArgument(err))

	_, err = s.repo.Save(s.ctx, roster.SaveInput{PlayerID: testPlayerID})
	s.Assert().True(errors.IsInvalidArgument(err))
}

func (s *RedisRepositoryTestSuite) TestDelete() {
	_, err := s.repo.Save(s.ctx, roster.SaveInput{PlayerID: testPlayerID, Roster: testutils.CreateTestRoster(1)})
	s.Require().NoError(err)

	_, err = s.repo.Delete(s.ctx, roster.DeleteInput{PlayerID: testPlayerID})
	s.Require().NoError(err)
	s.Assert().False(s.mr.Exists(testRosterKey))

	// second delete is a no-op
	_, err = s.repo.Delete(s.ctx, roster.DeleteInput{PlayerID: testPlayerID})
	s.Assert().NoError(err)
}

func (s *RedisRepositoryTestSuite) TestRepair() {
	good, err := json.Marshal(testutils.CreateTestRoster(2))
	s.Require().NoError(err)
	s.Require().NoError(s.mr.Set("roster:good", string(good)))
	s.Require().NoError(s.mr.Set("roster:broken", "}{"))
	overHealed := testutils.CreateTestRoster(1)
	overHealed.Companions[0].Stats.CurrentMorale = 250
	bad, err := json.Marshal(overHealed)
	s.Require().NoError(err)
	s.Require().NoError(s.mr.Set("roster:overhealed", string(bad)))
	s.Require().NoError(s.mr.Set("favorites:other", "}{"))

	s.Run("dry run only reports", func() {
		out, err := s.repo.Repair(s.ctx, roster.RepairInput{DryRun: true})
		s.Require().NoError(err)
		s.Assert().Equal(3, out.Checked)
		s.Assert().ElementsMatch([]string{"roster:broken", "roster:overhealed"}, out.CorruptKeys)
		s.Assert().True(s.mr.Exists("roster:broken"))
	})

	s.Run("repair deletes corrupt blobs only", func() {
		out, err := s.repo.Repair(s.ctx, roster.RepairInput{})
		s.Require().NoError(err)
		s.Assert().ElementsMatch([]string{"roster:broken", "roster:overhealed"}, out.CorruptKeys)
		s.Assert().False(s.mr.Exists("roster:broken"))
		s.Assert().False(s.mr.Exists("roster:overhealed"))
		s.Assert().True(s.mr.Exists("roster:good"))
		s.Assert().True(s.mr.Exists("favorites:other"))
	})
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}
