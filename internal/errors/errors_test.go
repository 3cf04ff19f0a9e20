package errors_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/KirkDiggler/pokestory-api/internal/errors"
)

type ErrorsTestSuite struct {
	suite.Suite
}

func TestErrorsSuite(t *testing.T) {
	suite.Run(t, new(ErrorsTestSuite))
}

func (s *ErrorsTestSuite) TestErrorString() {
	err := errors.NotFound("companion not found")
	s.Equal("NOT_FOUND: companion not found", err.Error())

	wrapped := errors.Wrap(err, "failed to load companion")
	s.Equal("NOT_FOUND: failed to load companion: NOT_FOUND: companion not found", wrapped.Error())
}

func (s *ErrorsTestSuite) TestWrapKeepsCode() {
	s.Run("coded error keeps code", func() {
		base := errors.ResourceExhausted("roster is full").WithMeta("capacity", 3)
		wrapped := errors.Wrapf(base, "failed to adopt %s", "pikachu")

		s.True(errors.IsResourceExhausted(wrapped))
		s.Equal(3, errors.GetMeta(wrapped)["capacity"])
		s.Equal("failed to adopt pikachu", errors.GetMessage(wrapped))
	})

	s.Run("plain error becomes internal", func() {
		base := fmt.Errorf("connection refused")
		wrapped := errors.Wrap(base, "failed to reach redis")

		s.True(errors.IsInternal(wrapped))
		s.Equal(base, wrapped.Unwrap())
	})

	s.Run("metadata is copied", func() {
		base := errors.NotFound("story missing").WithMeta("session_id", "story_1")
		wrapped := errors.Wrap(base, "failed to load story").WithMeta("player_id", "ash")

		s.NotContains(base.Meta, "player_id")
		s.Equal("story_1", errors.GetMeta(wrapped)["session_id"])
	})

	s.Run("nil stays nil", func() {
		s.Nil(errors.Wrap(nil, "nothing"))
		s.Nil(errors.WrapWithCode(nil, errors.CodeUnavailable, "nothing"))
	})
}

func (s *ErrorsTestSuite) TestWrapWithCode() {
	base := errors.NotFound("pokemon not found")
	wrapped := errors.WrapWithCode(base, errors.CodeUnavailable, "pokeapi unreachable")

	s.True(errors.IsUnavailable(wrapped))
	s.ErrorIs(wrapped, errors.NotFound("any"))
}

func (s *ErrorsTestSuite) TestGRPCRoundTrip() {
	err := errors.FailedPrecondition("story already completed").WithMeta("session_id", "story_1")

	grpcErr := errors.ToGRPCError(err)
	st, ok := status.FromError(grpcErr)
	s.Require().True(ok)
	s.Equal(codes.FailedPrecondition, st.Code())
	s.Equal("story already completed", st.Message())

	back := errors.FromGRPCError(grpcErr)
	s.True(errors.IsFailedPrecondition(back))
	s.Equal("story_1", errors.GetMeta(back)["session_id"])
}

func (s *ErrorsTestSuite) TestToGRPCErrorPlain() {
	grpcErr := errors.ToGRPCError(fmt.Errorf("boom"))
	st, ok := status.FromError(grpcErr)
	s.Require().True(ok)
	s.Equal(codes.Internal, st.Code())

	s.Nil(errors.ToGRPCError(nil))
}

func (s *ErrorsTestSuite) TestRetryable() {
	s.True(errors.IsRetryable(errors.Abortedf("session %s is generating", "story_1")))
	s.True(errors.IsRetryable(errors.Wrap(errors.Unavailable("pokeapi down"), "failed to draw")))
	s.False(errors.IsRetryable(errors.ResourceExhausted("roster is full")))
	s.False(errors.IsRetryable(fmt.Errorf("boom")))
	s.False(errors.IsRetryable(nil))
}

func (s *ErrorsTestSuite) TestGRPCCodes() {
	s.Equal(codes.Aborted, errors.CodeAborted.GRPCCode())
	s.Equal(codes.DataLoss, errors.CodeDataLoss.GRPCCode())
	s.Equal(codes.Unknown, errors.Code("BOGUS").GRPCCode())

	back := errors.FromGRPCError(status.Error(codes.PermissionDenied, "nope"))
	s.True(errors.IsInternal(back))
}

func (s *ErrorsTestSuite) TestValidationBuilder() {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("player_id", "  ", vb)
	errors.ValidateRange("option_index", 7, 0, 3, vb)
	errors.ValidateEnum("language", "fr", []string{"es", "en"}, vb)

	err := vb.Build()
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
	s.Contains(err.Error(), "language: must be one of: es, en")
	s.Contains(err.Error(), "option_index: must be between 0 and 3")
	s.Contains(err.Error(), "player_id: is required")

	s.NoError(errors.NewValidationBuilder().Build())
}

func (s *ErrorsTestSuite) TestValidationGRPCRoundTrip() {
	vb := errors.NewValidationBuilder()
	vb.RequiredField("session_id")
	errors.ValidateRange("option_index", 9, 0, 3, vb)
	err := vb.Build()

	expected := []errors.FieldViolation{
		{Field: "session_id", Description: "is required"},
		{Field: "option_index", Description: "must be between 0 and 3"},
	}
	s.Equal(expected, errors.GetViolations(err))

	grpcErr := errors.ToGRPCError(err)
	st, ok := status.FromError(grpcErr)
	s.Require().True(ok)
	s.Equal(codes.InvalidArgument, st.Code())
	s.Len(st.Details(), 1)

	back := errors.FromGRPCError(grpcErr)
	s.True(errors.IsInvalidArgument(back))
	s.Equal(expected, errors.GetViolations(back))
}
