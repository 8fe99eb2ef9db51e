package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"trailmark/internal/authz"
	"trailmark/internal/visits/models"
	id "trailmark/pkg/domain"
	dErrors "trailmark/pkg/domain-errors"
)

// History returns one user's active visits, filtered and ordered per the
// query. Only the owner or an admin may read a ledger.
func (s *Service) History(ctx context.Context, ownerID id.UserID, query models.HistoryQuery) ([]*models.Visit, error) {
	start := time.Now()

	if ownerID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "user_id is required")
	}
	if err := s.gate.AuthorizeOwner(ctx, authz.ActionReadHistory, ownerID); err != nil {
		return nil, err
	}

	query.Normalize()
	if err := query.Validate(); err != nil {
		return nil, err
	}

	visits, err := s.visits.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list visits")
	}

	visits = filterByPlace(visits, query.PlaceContains)
	sortVisits(visits, query.Sort, query.Direction)

	s.observeHistoryQuery(start)
	return visits, nil
}

func filterByPlace(visits []*models.Visit, substring string) []*models.Visit {
	if substring == "" {
		return visits
	}
	needle := strings.ToLower(substring)
	filtered := visits[:0]
	for _, visit := range visits {
		if strings.Contains(strings.ToLower(visit.Location.PlaceName), needle) {
			filtered = append(filtered, visit)
		}
	}
	return filtered
}

// sortVisits orders visits with a total ordering so identical queries always
// return identical listings. Date ordering breaks ties by visit ID; location
// ordering compares place names case-insensitively, then falls back to date
// (newest first) and visit ID.
func sortVisits(visits []*models.Visit, key models.SortKey, direction models.SortDirection) {
	asc := direction == models.SortAscending
	sort.Slice(visits, func(i, j int) bool {
		a, b := visits[i], visits[j]
		switch key {
		case models.SortByLocation:
			pa, pb := strings.ToLower(a.Location.PlaceName), strings.ToLower(b.Location.PlaceName)
			if pa != pb {
				if asc {
					return pa < pb
				}
				return pa > pb
			}
			if !a.VisitDate.Equal(b.VisitDate) {
				return a.VisitDate.After(b.VisitDate)
			}
		default:
			if !a.VisitDate.Equal(b.VisitDate) {
				if asc {
					return a.VisitDate.Before(b.VisitDate)
				}
				return a.VisitDate.After(b.VisitDate)
			}
		}
		return a.ID.String() < b.ID.String()
	})
}
