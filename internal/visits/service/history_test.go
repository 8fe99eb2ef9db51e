package service

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"trailmark/internal/visits/models"
	id "trailmark/pkg/domain"
	dErrors "trailmark/pkg/domain-errors"
	"trailmark/pkg/platform/validation"
)

// historyVisit builds an active visit with a fixed ID so ordering assertions
// can rely on the ID tie-break.
func (s *VisitServiceSuite) historyVisit(visitID, place string, visitDate time.Time) *models.Visit {
	loc, err := models.NewLocationRef(place, 52.3579, 4.8686)
	s.Require().NoError(err)
	visit, err := models.NewVisit(id.VisitID(uuid.MustParse(visitID)), s.owner, loc, visitDate, "", s.now)
	s.Require().NoError(err)
	return visit
}

// =============================================================================
// History Tests (Authorization and Validation)
// =============================================================================
// Justification: History is owner-or-admin only and validates the query after
// clearing the caller, so a forbidden caller learns nothing about the query.

func (s *VisitServiceSuite) TestHistory() {
	s.Run("nil user id returns bad request", func() {
		_, err := s.service.History(s.ownerCtx(), id.UserID(uuid.Nil), models.HistoryQuery{})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("unauthenticated caller returns unauthorized", func() {
		_, err := s.service.History(s.anonCtx(), s.owner, models.HistoryQuery{})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("non-owner caller is forbidden", func() {
		other := id.Identity{UserID: id.UserID(uuid.New())}
		_, err := s.service.History(s.callerCtx(other), s.owner, models.HistoryQuery{})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("admin reads another user's ledger", func() {
		s.mockVisits.EXPECT().ListByOwner(gomock.Any(), s.owner).Return(nil, nil)

		admin := id.Identity{UserID: id.UserID(uuid.New()), Admin: true}
		visits, err := s.service.History(s.callerCtx(admin), s.owner, models.HistoryQuery{})
		s.Require().NoError(err)
		s.Empty(visits)
	})

	s.Run("invalid sort key returns validation error", func() {
		query := models.HistoryQuery{Sort: "created_at"}
		_, err := s.service.History(s.ownerCtx(), s.owner, query)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("invalid sort direction returns validation error", func() {
		query := models.HistoryQuery{Direction: "descending"}
		_, err := s.service.History(s.ownerCtx(), s.owner, query)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("oversized place filter returns validation error", func() {
		query := models.HistoryQuery{PlaceContains: strings.Repeat("p", validation.MaxPlaceFilterLength+1)}
		_, err := s.service.History(s.ownerCtx(), s.owner, query)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("store failure returns internal error", func() {
		s.mockVisits.EXPECT().ListByOwner(gomock.Any(), s.owner).Return(nil, assert.AnError)

		_, err := s.service.History(s.ownerCtx(), s.owner, models.HistoryQuery{})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

// =============================================================================
// History Ordering Tests
// =============================================================================
// Justification: Listings must be a total order so repeated identical queries
// return identical pages. Ties always settle on the visit ID.

func (s *VisitServiceSuite) TestHistoryOrdering() {
	dayOld := s.now.Add(-24 * time.Hour)
	twoDaysOld := s.now.Add(-48 * time.Hour)

	vondelpark := s.historyVisit("11111111-1111-1111-1111-111111111111", "Vondelpark", twoDaysOld)
	rijksmuseum := s.historyVisit("22222222-2222-2222-2222-222222222222", "Rijksmuseum", dayOld)
	anneFrank := s.historyVisit("33333333-3333-3333-3333-333333333333", "Anne Frank House", dayOld)

	s.Run("defaults to newest first with id tie-break", func() {
		s.mockVisits.EXPECT().ListByOwner(gomock.Any(), s.owner).
			Return([]*models.Visit{vondelpark, anneFrank, rijksmuseum}, nil)

		visits, err := s.service.History(s.ownerCtx(), s.owner, models.HistoryQuery{})
		s.Require().NoError(err)
		s.Require().Len(visits, 3)
		// rijksmuseum and anneFrank share a date; the lower ID sorts first.
		s.Equal(rijksmuseum.ID, visits[0].ID)
		s.Equal(anneFrank.ID, visits[1].ID)
		s.Equal(vondelpark.ID, visits[2].ID)
	})

	s.Run("ascending date puts oldest first", func() {
		s.mockVisits.EXPECT().ListByOwner(gomock.Any(), s.owner).
			Return([]*models.Visit{anneFrank, rijksmuseum, vondelpark}, nil)

		query := models.HistoryQuery{Sort: models.SortByDate, Direction: models.SortAscending}
		visits, err := s.service.History(s.ownerCtx(), s.owner, query)
		s.Require().NoError(err)
		s.Require().Len(visits, 3)
		s.Equal(vondelpark.ID, visits[0].ID)
		s.Equal(rijksmuseum.ID, visits[1].ID)
		s.Equal(anneFrank.ID, visits[2].ID)
	})

	s.Run("location sort orders place names case-insensitively", func() {
		s.mockVisits.EXPECT().ListByOwner(gomock.Any(), s.owner).
			Return([]*models.Visit{vondelpark, rijksmuseum, anneFrank}, nil)

		query := models.HistoryQuery{Sort: models.SortByLocation, Direction: models.SortAscending}
		visits, err := s.service.History(s.ownerCtx(), s.owner, query)
		s.Require().NoError(err)
		s.Require().Len(visits, 3)
		s.Equal(anneFrank.ID, visits[0].ID)
		s.Equal(rijksmuseum.ID, visits[1].ID)
		s.Equal(vondelpark.ID, visits[2].ID)
	})

	s.Run("location sort descending reverses place order", func() {
		s.mockVisits.EXPECT().ListByOwner(gomock.Any(), s.owner).
			Return([]*models.Visit{anneFrank, vondelpark, rijksmuseum}, nil)

		query := models.HistoryQuery{Sort: models.SortByLocation, Direction: models.SortDescending}
		visits, err := s.service.History(s.ownerCtx(), s.owner, query)
		s.Require().NoError(err)
		s.Require().Len(visits, 3)
		s.Equal(vondelpark.ID, visits[0].ID)
		s.Equal(rijksmuseum.ID, visits[1].ID)
		s.Equal(anneFrank.ID, visits[2].ID)
	})

	s.Run("same place falls back to newest date first", func() {
		older := s.historyVisit("44444444-4444-4444-4444-444444444444", "Vondelpark", twoDaysOld)
		newer := s.historyVisit("55555555-5555-5555-5555-555555555555", "Vondelpark", dayOld)
		s.mockVisits.EXPECT().ListByOwner(gomock.Any(), s.owner).
			Return([]*models.Visit{older, newer}, nil)

		query := models.HistoryQuery{Sort: models.SortByLocation, Direction: models.SortAscending}
		visits, err := s.service.History(s.ownerCtx(), s.owner, query)
		s.Require().NoError(err)
		s.Require().Len(visits, 2)
		s.Equal(newer.ID, visits[0].ID)
		s.Equal(older.ID, visits[1].ID)
	})

	s.Run("repeated queries return identical order", func() {
		// The store may hand records back in any order; the result may not
		// depend on it.
		s.mockVisits.EXPECT().ListByOwner(gomock.Any(), s.owner).
			Return([]*models.Visit{rijksmuseum, vondelpark, anneFrank}, nil)
		s.mockVisits.EXPECT().ListByOwner(gomock.Any(), s.owner).
			Return([]*models.Visit{anneFrank, rijksmuseum, vondelpark}, nil)

		query := models.HistoryQuery{Sort: models.SortByDate, Direction: models.SortDescending}
		first, err := s.service.History(s.ownerCtx(), s.owner, query)
		s.Require().NoError(err)
		second, err := s.service.History(s.ownerCtx(), s.owner, query)
		s.Require().NoError(err)
		s.Equal(first, second)
	})
}

// =============================================================================
// History Place Filter Tests
// =============================================================================

func (s *VisitServiceSuite) TestHistoryPlaceFilter() {
	dayOld := s.now.Add(-24 * time.Hour)
	twoDaysOld := s.now.Add(-48 * time.Hour)

	vondelpark := s.historyVisit("11111111-1111-1111-1111-111111111111", "Vondelpark", dayOld)
	hydePark := s.historyVisit("22222222-2222-2222-2222-222222222222", "Hyde Park", twoDaysOld)
	rijksmuseum := s.historyVisit("33333333-3333-3333-3333-333333333333", "Rijksmuseum", s.now.Add(-time.Hour))

	s.Run("matches substring case-insensitively", func() {
		s.mockVisits.EXPECT().ListByOwner(gomock.Any(), s.owner).
			Return([]*models.Visit{vondelpark, hydePark, rijksmuseum}, nil)

		query := models.HistoryQuery{PlaceContains: "PARK"}
		visits, err := s.service.History(s.ownerCtx(), s.owner, query)
		s.Require().NoError(err)
		s.Require().Len(visits, 2)
		s.Equal(vondelpark.ID, visits[0].ID)
		s.Equal(hydePark.ID, visits[1].ID)
	})

	s.Run("whitespace-only filter returns everything", func() {
		s.mockVisits.EXPECT().ListByOwner(gomock.Any(), s.owner).
			Return([]*models.Visit{vondelpark, hydePark, rijksmuseum}, nil)

		query := models.HistoryQuery{PlaceContains: "   "}
		visits, err := s.service.History(s.ownerCtx(), s.owner, query)
		s.Require().NoError(err)
		s.Len(visits, 3)
	})

	s.Run("filter with no matches returns empty", func() {
		s.mockVisits.EXPECT().ListByOwner(gomock.Any(), s.owner).
			Return([]*models.Visit{vondelpark, hydePark}, nil)

		query := models.HistoryQuery{PlaceContains: "louvre"}
		visits, err := s.service.History(s.ownerCtx(), s.owner, query)
		s.Require().NoError(err)
		s.Empty(visits)
	})
}
