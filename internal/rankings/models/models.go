// Package models holds the derived aggregate views of the visit ledger.
// Everything here is computed from the store's active records; nothing is a
// source of truth.
package models

import (
	vmodels "trailmark/internal/visits/models"
	id "trailmark/pkg/domain"
)

// UserAggregate summarizes one user's ledger.
type UserAggregate struct {
	UserID            id.UserID
	TotalVisits       int
	DistinctLocations int
}

// LocationAggregate summarizes the popularity of one location tile.
// PlaceName is the display name for the tile: the lexicographically smallest
// place name among its visits, so the pick is deterministic.
type LocationAggregate struct {
	LocationKey      vmodels.LocationKey
	PlaceName        string
	TotalVisits      int
	DistinctVisitors int
}

// RankedUser is one leaderboard entry, ordered by distinct locations visited.
// JSON tags cover both the HTTP response and the cached board encoding.
type RankedUser struct {
	UserID            id.UserID `json:"user_id"`
	DistinctLocations int       `json:"distinct_locations"`
	TotalVisits       int       `json:"total_visits"`
}

// RankedLocation is one leaderboard entry, ordered by visit count.
type RankedLocation struct {
	LocationKey      vmodels.LocationKey `json:"location_key"`
	PlaceName        string              `json:"place_name"`
	TotalVisits      int                 `json:"total_visits"`
	DistinctVisitors int                 `json:"distinct_visitors"`
}
