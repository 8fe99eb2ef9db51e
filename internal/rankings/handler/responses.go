package handler

import "trailmark/internal/rankings/models"

// UserBoardResponse is the HTTP response for GET /leaderboard/users.
type UserBoardResponse struct {
	Entries []models.RankedUser `json:"entries"`
	Count   int                 `json:"count"`
}

// NewUserBoardResponse wraps a ranked user board. Entries is always present,
// even when empty.
func NewUserBoardResponse(board []models.RankedUser) *UserBoardResponse {
	if board == nil {
		board = []models.RankedUser{}
	}
	return &UserBoardResponse{
		Entries: board,
		Count:   len(board),
	}
}

// LocationBoardResponse is the HTTP response for GET /leaderboard/locations.
type LocationBoardResponse struct {
	Entries []models.RankedLocation `json:"entries"`
	Count   int                     `json:"count"`
}

// NewLocationBoardResponse wraps a ranked location board. Entries is always
// present, even when empty.
func NewLocationBoardResponse(board []models.RankedLocation) *LocationBoardResponse {
	if board == nil {
		board = []models.RankedLocation{}
	}
	return &LocationBoardResponse{
		Entries: board,
		Count:   len(board),
	}
}
