package handler

import (
	"time"

	"trailmark/internal/visits/models"
)

// VisitResponse is the HTTP representation of a visit.
type VisitResponse struct {
	ID          string             `json:"id"`
	OwnerID     string             `json:"owner_id"`
	Location    models.LocationRef `json:"location"`
	LocationKey string             `json:"location_key"`
	VisitDate   time.Time          `json:"visit_date"`
	Notes       string             `json:"notes,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// FromVisit converts a domain visit to its HTTP representation.
func FromVisit(visit *models.Visit) *VisitResponse {
	return &VisitResponse{
		ID:          visit.ID.String(),
		OwnerID:     visit.OwnerID.String(),
		Location:    visit.Location,
		LocationKey: visit.LocationKey.String(),
		VisitDate:   visit.VisitDate,
		Notes:       visit.Notes,
		CreatedAt:   visit.CreatedAt,
		UpdatedAt:   visit.UpdatedAt,
	}
}

// HistoryResponse is the HTTP response for GET /users/{userID}/visits.
type HistoryResponse struct {
	Visits []*VisitResponse `json:"visits"`
	Count  int              `json:"count"`
}

// FromVisits converts a listing to its HTTP representation. The visits slice
// is always present in the JSON, even when empty.
func FromVisits(visits []*models.Visit) *HistoryResponse {
	out := make([]*VisitResponse, 0, len(visits))
	for _, visit := range visits {
		out = append(out, FromVisit(visit))
	}
	return &HistoryResponse{Visits: out, Count: len(out)}
}
