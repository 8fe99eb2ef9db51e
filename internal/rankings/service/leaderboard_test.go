package service

import (
	"context"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"trailmark/internal/rankings/models"
	vmodels "trailmark/internal/visits/models"
	dErrors "trailmark/pkg/domain-errors"
	"trailmark/pkg/platform/sentinel"
	"trailmark/pkg/platform/validation"
)

// =============================================================================
// Leaderboard Tests
// =============================================================================
// Justification: ordering and tie-break rules must be total and deterministic
// for stable pagination, and the board cache must only ever be an
// optimization: wrong or unavailable cache state can never change a result,
// only cost a recompute.

func (s *RankingsServiceSuite) TestTopUsers() {
	s.Run("orders by distinct locations descending", func() {
		svc := s.freshService()
		s.mockVisits.EXPECT().ListActive(gomock.Any()).Return(s.ledger(), nil)

		board, err := svc.TopUsers(context.Background(), 10)
		s.Require().NoError(err)
		s.Require().Len(board, 2)

		s.Equal(s.userA, board[0].UserID)
		s.Equal(2, board[0].DistinctLocations)
		s.Equal(3, board[0].TotalVisits)
		s.Equal(s.userB, board[1].UserID)
		s.Equal(1, board[1].DistinctLocations)
	})

	s.Run("breaks ties by ascending user id", func() {
		svc := s.freshService()
		// Both users visit a single distinct location.
		s.mockVisits.EXPECT().ListActive(gomock.Any()).Return([]*vmodels.Visit{
			visitBy(s.userB, "L1"),
			visitBy(s.userA, "L2"),
		}, nil)

		board, err := svc.TopUsers(context.Background(), 10)
		s.Require().NoError(err)
		s.Require().Len(board, 2)
		s.Equal(s.userA, board[0].UserID)
		s.Equal(s.userB, board[1].UserID)
	})

	s.Run("clamps to limit", func() {
		svc := s.freshService()
		s.mockVisits.EXPECT().ListActive(gomock.Any()).Return(s.ledger(), nil)

		board, err := svc.TopUsers(context.Background(), 1)
		s.Require().NoError(err)
		s.Require().Len(board, 1)
		s.Equal(s.userA, board[0].UserID)
	})

	s.Run("limit past the end returns all entries", func() {
		svc := s.freshService()
		s.mockVisits.EXPECT().ListActive(gomock.Any()).Return(s.ledger(), nil)

		board, err := svc.TopUsers(context.Background(), 500)
		s.Require().NoError(err)
		s.Len(board, 2)
	})

	s.Run("rejects non-positive limits", func() {
		svc := s.freshService()
		for _, limit := range []int{0, -1} {
			_, err := svc.TopUsers(context.Background(), limit)
			s.Require().Error(err)
			s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		}
	})

	s.Run("rejects limits past the board cap", func() {
		svc := s.freshService()
		_, err := svc.TopUsers(context.Background(), validation.MaxLeaderboardLimit+1)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *RankingsServiceSuite) TestTopLocations() {
	s.Run("orders by visit count descending", func() {
		svc := s.freshService()
		s.mockVisits.EXPECT().ListActive(gomock.Any()).Return(s.ledger(), nil)

		board, err := svc.TopLocations(context.Background(), 10)
		s.Require().NoError(err)
		s.Require().Len(board, 2)

		s.Equal(vmodels.LocationKey("L1"), board[0].LocationKey)
		s.Equal(3, board[0].TotalVisits)
		s.Equal(2, board[0].DistinctVisitors)
		s.Equal(vmodels.LocationKey("L2"), board[1].LocationKey)
		s.Equal(1, board[1].TotalVisits)
	})

	s.Run("top one is the most visited location", func() {
		svc := s.freshService()
		s.mockVisits.EXPECT().ListActive(gomock.Any()).Return(s.ledger(), nil)

		board, err := svc.TopLocations(context.Background(), 1)
		s.Require().NoError(err)
		s.Require().Len(board, 1)
		s.Equal(vmodels.LocationKey("L1"), board[0].LocationKey)
		s.Equal(3, board[0].TotalVisits)
	})

	s.Run("breaks ties by ascending location key", func() {
		svc := s.freshService()
		s.mockVisits.EXPECT().ListActive(gomock.Any()).Return([]*vmodels.Visit{
			visitBy(s.userA, "L2"),
			visitBy(s.userB, "L1"),
		}, nil)

		board, err := svc.TopLocations(context.Background(), 10)
		s.Require().NoError(err)
		s.Require().Len(board, 2)
		s.Equal(vmodels.LocationKey("L1"), board[0].LocationKey)
		s.Equal(vmodels.LocationKey("L2"), board[1].LocationKey)
	})

	s.Run("carries each tile's place name onto the board", func() {
		svc := s.freshService()
		s.mockVisits.EXPECT().ListActive(gomock.Any()).Return([]*vmodels.Visit{
			visitAt(s.userA, "L1", "Vondelpark"),
			visitAt(s.userB, "L1", "Vondelpark west entrance"),
			visitAt(s.userA, "L2", "Zaanse Schans"),
		}, nil)

		board, err := svc.TopLocations(context.Background(), 10)
		s.Require().NoError(err)
		s.Require().Len(board, 2)
		s.Equal("Vondelpark", board[0].PlaceName)
		s.Equal("Zaanse Schans", board[1].PlaceName)
	})

	s.Run("rejects non-positive limits", func() {
		svc := s.freshService()
		_, err := svc.TopLocations(context.Background(), 0)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *RankingsServiceSuite) TestBoardCache() {
	s.Run("cache hit skips the recompute", func() {
		svc := s.cachedService()
		cached := []models.RankedUser{
			{UserID: s.userA, DistinctLocations: 2, TotalVisits: 3},
			{UserID: s.userB, DistinctLocations: 1, TotalVisits: 1},
		}
		s.mockCache.EXPECT().GetUserBoard(gomock.Any()).Return(cached, nil)

		board, err := svc.TopUsers(context.Background(), 1)
		s.Require().NoError(err)
		s.Require().Len(board, 1)
		s.Equal(s.userA, board[0].UserID)
	})

	s.Run("cache miss recomputes and backfills the full board", func() {
		svc := s.cachedService()
		s.mockCache.EXPECT().GetUserBoard(gomock.Any()).Return(nil, sentinel.ErrNotFound)
		s.mockVisits.EXPECT().ListActive(gomock.Any()).Return(s.ledger(), nil)

		var stored []models.RankedUser
		s.mockCache.EXPECT().SetUserBoard(gomock.Any(), gomock.Any()).
			Do(func(_ context.Context, board []models.RankedUser) {
				stored = board
			}).Return(nil)

		board, err := svc.TopUsers(context.Background(), 1)
		s.Require().NoError(err)
		s.Require().Len(board, 1)
		// The cache holds the whole board even though the caller asked for one.
		s.Require().Len(stored, 2)
		s.Equal(s.userA, stored[0].UserID)
	})

	s.Run("cache read failure degrades to a recompute", func() {
		svc := s.cachedService()
		s.mockCache.EXPECT().GetLocationBoard(gomock.Any()).Return(nil, assert.AnError)
		s.mockVisits.EXPECT().ListActive(gomock.Any()).Return(s.ledger(), nil)
		s.mockCache.EXPECT().SetLocationBoard(gomock.Any(), gomock.Any()).Return(nil)

		board, err := svc.TopLocations(context.Background(), 10)
		s.Require().NoError(err)
		s.Len(board, 2)
	})

	s.Run("cache write failure does not fail the read", func() {
		svc := s.cachedService()
		s.mockCache.EXPECT().GetUserBoard(gomock.Any()).Return(nil, sentinel.ErrNotFound)
		s.mockVisits.EXPECT().ListActive(gomock.Any()).Return(s.ledger(), nil)
		s.mockCache.EXPECT().SetUserBoard(gomock.Any(), gomock.Any()).Return(assert.AnError)

		board, err := svc.TopUsers(context.Background(), 10)
		s.Require().NoError(err)
		s.Len(board, 2)
	})

	s.Run("invalidate drops both boards", func() {
		svc := s.cachedService()
		s.mockCache.EXPECT().Drop(gomock.Any())

		svc.Invalidate(context.Background())
	})

	s.Run("drop failure is swallowed", func() {
		svc := s.cachedService()
		s.mockCache.EXPECT().Drop(gomock.Any()).Return(assert.AnError)

		svc.Invalidate(context.Background())
	})
}
