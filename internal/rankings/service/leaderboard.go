package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"trailmark/internal/rankings/models"
	vmodels "trailmark/internal/visits/models"
	id "trailmark/pkg/domain"
	dErrors "trailmark/pkg/domain-errors"
	"trailmark/pkg/platform/sentinel"
	"trailmark/pkg/platform/validation"
)

// Board labels for cache metrics.
const (
	boardUsers     = "users"
	boardLocations = "locations"
)

// TopUsers returns the limit highest-ranked users by distinct locations
// visited. Descending count; ties break by ascending UserID so the order is
// total and pagination stays stable.
func (s *Service) TopUsers(ctx context.Context, limit int) ([]models.RankedUser, error) {
	if err := validateLimit(limit); err != nil {
		return nil, err
	}
	board, err := s.userBoard(ctx)
	if err != nil {
		return nil, err
	}
	return clamp(board, limit), nil
}

// TopLocations returns the limit most-visited location tiles. Descending
// visit count; ties break by ascending location key.
func (s *Service) TopLocations(ctx context.Context, limit int) ([]models.RankedLocation, error) {
	if err := validateLimit(limit); err != nil {
		return nil, err
	}
	board, err := s.locationBoard(ctx)
	if err != nil {
		return nil, err
	}
	return clamp(board, limit), nil
}

// userBoard serves the full ranked user board, read-through: cache first,
// then rank the current snapshot and backfill the cache.
func (s *Service) userBoard(ctx context.Context) ([]models.RankedUser, error) {
	if board, ok := s.cachedUserBoard(ctx); ok {
		return board, nil
	}
	snap, err := s.currentSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	board := rankUsers(snap.byUser)
	s.storeUserBoard(ctx, board)
	return board, nil
}

func (s *Service) locationBoard(ctx context.Context) ([]models.RankedLocation, error) {
	if board, ok := s.cachedLocationBoard(ctx); ok {
		return board, nil
	}
	snap, err := s.currentSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	board := rankLocations(snap.byLocation)
	s.storeLocationBoard(ctx, board)
	return board, nil
}

// Cache failures on either side degrade to a recompute; a leaderboard read
// never fails because the cache did.

func (s *Service) cachedUserBoard(ctx context.Context) ([]models.RankedUser, bool) {
	if s.cache == nil {
		return nil, false
	}
	start := time.Now()
	board, err := s.cache.GetUserBoard(ctx)
	s.observeCacheOp(start)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			s.warn(ctx, "leaderboard cache read failed", "board", boardUsers, "error", err)
		}
		s.countCacheMiss(boardUsers)
		return nil, false
	}
	s.countCacheHit(boardUsers)
	return board, true
}

func (s *Service) storeUserBoard(ctx context.Context, board []models.RankedUser) {
	if s.cache == nil {
		return
	}
	start := time.Now()
	err := s.cache.SetUserBoard(ctx, board)
	s.observeCacheOp(start)
	if err != nil {
		s.warn(ctx, "leaderboard cache write failed", "board", boardUsers, "error", err)
	}
}

func (s *Service) cachedLocationBoard(ctx context.Context) ([]models.RankedLocation, bool) {
	if s.cache == nil {
		return nil, false
	}
	start := time.Now()
	board, err := s.cache.GetLocationBoard(ctx)
	s.observeCacheOp(start)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			s.warn(ctx, "leaderboard cache read failed", "board", boardLocations, "error", err)
		}
		s.countCacheMiss(boardLocations)
		return nil, false
	}
	s.countCacheHit(boardLocations)
	return board, true
}

func (s *Service) storeLocationBoard(ctx context.Context, board []models.RankedLocation) {
	if s.cache == nil {
		return
	}
	start := time.Now()
	err := s.cache.SetLocationBoard(ctx, board)
	s.observeCacheOp(start)
	if err != nil {
		s.warn(ctx, "leaderboard cache write failed", "board", boardLocations, "error", err)
	}
}

func rankUsers(byUser map[id.UserID]models.UserAggregate) []models.RankedUser {
	board := make([]models.RankedUser, 0, len(byUser))
	for _, agg := range byUser {
		board = append(board, models.RankedUser{
			UserID:            agg.UserID,
			DistinctLocations: agg.DistinctLocations,
			TotalVisits:       agg.TotalVisits,
		})
	}
	sort.Slice(board, func(i, j int) bool {
		if board[i].DistinctLocations != board[j].DistinctLocations {
			return board[i].DistinctLocations > board[j].DistinctLocations
		}
		return board[i].UserID.String() < board[j].UserID.String()
	})
	return board
}

func rankLocations(byLocation map[vmodels.LocationKey]models.LocationAggregate) []models.RankedLocation {
	board := make([]models.RankedLocation, 0, len(byLocation))
	for _, agg := range byLocation {
		board = append(board, models.RankedLocation{
			LocationKey:      agg.LocationKey,
			PlaceName:        agg.PlaceName,
			TotalVisits:      agg.TotalVisits,
			DistinctVisitors: agg.DistinctVisitors,
		})
	}
	sort.Slice(board, func(i, j int) bool {
		if board[i].TotalVisits != board[j].TotalVisits {
			return board[i].TotalVisits > board[j].TotalVisits
		}
		return board[i].LocationKey < board[j].LocationKey
	})
	return board
}

func validateLimit(limit int) error {
	if limit <= 0 {
		return dErrors.New(dErrors.CodeValidation, "limit must be a positive integer")
	}
	if limit > validation.MaxLeaderboardLimit {
		return dErrors.New(dErrors.CodeValidation, "limit exceeds the maximum board size")
	}
	return nil
}

// clamp returns at most limit entries. A limit past the end returns the whole
// board.
func clamp[T any](board []T, limit int) []T {
	if limit >= len(board) {
		return board
	}
	return board[:limit]
}
