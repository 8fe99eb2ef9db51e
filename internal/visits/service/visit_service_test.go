package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"trailmark/internal/visits/events"
	"trailmark/internal/visits/models"
	id "trailmark/pkg/domain"
	dErrors "trailmark/pkg/domain-errors"
	"trailmark/pkg/platform/sentinel"
	"trailmark/pkg/platform/validation"
)

func strPtr(v string) *string        { return &v }
func timePtr(v time.Time) *time.Time { return &v }

// expectExecute wires the Execute mock to run the callbacks against a clone
// of stored, mirroring the store contract.
func (s *VisitServiceSuite) expectExecute(stored *models.Visit) {
	s.mockVisits.EXPECT().
		Execute(gomock.Any(), stored.ID, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ id.VisitID, validate func(*models.Visit) error, mutate func(*models.Visit)) (*models.Visit, error) {
			working := stored.Clone()
			if err := validate(working); err != nil {
				return nil, err
			}
			mutate(working)
			return working, nil
		})
}

// =============================================================================
// CreateVisit Tests
// =============================================================================
// Justification: Creation assigns ownership from the caller identity, derives
// the location key, and emits exactly one activity event on success.

func (s *VisitServiceSuite) TestCreateVisit() {
	loc, err := models.NewLocationRef("Rijksmuseum", 52.36, 4.8852)
	s.Require().NoError(err)
	visitDate := s.now.Add(-2 * time.Hour)

	s.Run("unauthenticated caller returns unauthorized", func() {
		_, err := s.service.CreateVisit(s.anonCtx(), loc, visitDate, "")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("empty place name returns validation error", func() {
		bad := models.LocationRef{PlaceName: "", Latitude: 52.36, Longitude: 4.8852}
		_, err := s.service.CreateVisit(s.ownerCtx(), bad, visitDate, "")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("latitude out of range returns validation error", func() {
		bad := models.LocationRef{PlaceName: "Nowhere", Latitude: 91, Longitude: 0}
		_, err := s.service.CreateVisit(s.ownerCtx(), bad, visitDate, "")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("oversized notes returns validation error", func() {
		notes := strings.Repeat("a", validation.MaxNotesLength+1)
		_, err := s.service.CreateVisit(s.ownerCtx(), loc, visitDate, notes)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("duplicate visit id returns conflict", func() {
		s.mockVisits.EXPECT().Create(gomock.Any(), gomock.Any()).Return(sentinel.ErrConflict)

		_, err := s.service.CreateVisit(s.ownerCtx(), loc, visitDate, "")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("store failure returns internal error", func() {
		s.mockVisits.EXPECT().Create(gomock.Any(), gomock.Any()).Return(assert.AnError)

		_, err := s.service.CreateVisit(s.ownerCtx(), loc, visitDate, "")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})

	s.Run("creates visit owned by caller", func() {
		var created *models.Visit
		s.mockVisits.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, v *models.Visit) error {
				created = v
				return nil
			})
		s.mockInvalidator.EXPECT().Invalidate(gomock.Any())
		var event events.Event
		s.mockDispatcher.EXPECT().Enqueue(gomock.Any()).Do(func(e events.Event) {
			event = e
		})

		visit, err := s.service.CreateVisit(s.ownerCtx(), loc, visitDate, "tickets at noon")
		s.Require().NoError(err)
		s.Equal(created, visit)
		s.False(visit.ID.IsNil())
		s.Equal(s.owner, visit.OwnerID)
		s.Equal(loc, visit.Location)
		s.Equal(loc.Key(), visit.LocationKey)
		s.True(visit.VisitDate.Equal(visitDate))
		s.Equal("tickets at noon", visit.Notes)
		s.Equal(models.VisitStatusActive, visit.Status)
		s.True(visit.CreatedAt.Equal(s.now))

		s.Equal(events.TypeVisitCreated, event.Type)
		s.Equal(visit.ID.String(), event.VisitID)
		s.Equal(s.owner.String(), event.OwnerID)
		s.Equal(visit.LocationKey.String(), event.LocationKey)
		s.True(event.OccurredAt.Equal(s.now))
	})
}

// =============================================================================
// GetVisit Tests
// =============================================================================
// Justification: Reads fetch first and authorize second, so a non-owner is
// told forbidden rather than not found.

func (s *VisitServiceSuite) TestGetVisit() {
	s.Run("nil visit id returns bad request", func() {
		_, err := s.service.GetVisit(s.ownerCtx(), id.VisitID(uuid.Nil))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("unknown visit returns not found", func() {
		visitID := id.NewVisitID()
		s.mockVisits.EXPECT().FindByID(gomock.Any(), visitID).Return(nil, sentinel.ErrNotFound)

		_, err := s.service.GetVisit(s.ownerCtx(), visitID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("unauthenticated caller returns unauthorized", func() {
		visit := s.storedVisit()
		s.mockVisits.EXPECT().FindByID(gomock.Any(), visit.ID).Return(visit, nil)

		_, err := s.service.GetVisit(s.anonCtx(), visit.ID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("non-owner caller is forbidden", func() {
		visit := s.storedVisit()
		s.mockVisits.EXPECT().FindByID(gomock.Any(), visit.ID).Return(visit, nil)

		other := id.Identity{UserID: id.UserID(uuid.New())}
		_, err := s.service.GetVisit(s.callerCtx(other), visit.ID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("owner reads own visit", func() {
		visit := s.storedVisit()
		s.mockVisits.EXPECT().FindByID(gomock.Any(), visit.ID).Return(visit, nil)

		got, err := s.service.GetVisit(s.ownerCtx(), visit.ID)
		s.Require().NoError(err)
		s.Equal(visit, got)
	})

	s.Run("admin reads any visit", func() {
		visit := s.storedVisit()
		s.mockVisits.EXPECT().FindByID(gomock.Any(), visit.ID).Return(visit, nil)

		admin := id.Identity{UserID: id.UserID(uuid.New()), Admin: true}
		got, err := s.service.GetVisit(s.callerCtx(admin), visit.ID)
		s.Require().NoError(err)
		s.Equal(visit, got)
	})
}

// =============================================================================
// UpdateVisit Tests
// =============================================================================
// Justification: Updates validate inside the store lock, re-derive the
// location key on location changes, and leave the record untouched on any
// validation failure.

func (s *VisitServiceSuite) TestUpdateVisit() {
	s.Run("nil visit id returns bad request", func() {
		_, err := s.service.UpdateVisit(s.ownerCtx(), id.VisitID(uuid.Nil), models.VisitUpdate{Notes: strPtr("x")})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("empty update returns validation error", func() {
		_, err := s.service.UpdateVisit(s.ownerCtx(), id.NewVisitID(), models.VisitUpdate{})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("unknown visit returns not found", func() {
		visitID := id.NewVisitID()
		s.mockVisits.EXPECT().FindByID(gomock.Any(), visitID).Return(nil, sentinel.ErrNotFound)

		_, err := s.service.UpdateVisit(s.ownerCtx(), visitID, models.VisitUpdate{Notes: strPtr("x")})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("non-owner caller is forbidden", func() {
		visit := s.storedVisit()
		s.mockVisits.EXPECT().FindByID(gomock.Any(), visit.ID).Return(visit, nil)

		other := id.Identity{UserID: id.UserID(uuid.New())}
		_, err := s.service.UpdateVisit(s.callerCtx(other), visit.ID, models.VisitUpdate{Notes: strPtr("x")})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("oversized notes rejected inside the store lock", func() {
		visit := s.storedVisit()
		s.mockVisits.EXPECT().FindByID(gomock.Any(), visit.ID).Return(visit, nil)
		s.expectExecute(visit)

		notes := strings.Repeat("a", validation.MaxNotesLength+1)
		_, err := s.service.UpdateVisit(s.ownerCtx(), visit.ID, models.VisitUpdate{Notes: &notes})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("concurrent delete between read and execute returns not found", func() {
		visit := s.storedVisit()
		s.mockVisits.EXPECT().FindByID(gomock.Any(), visit.ID).Return(visit, nil)
		s.mockVisits.EXPECT().
			Execute(gomock.Any(), visit.ID, gomock.Any(), gomock.Any()).
			Return(nil, sentinel.ErrNotFound)

		_, err := s.service.UpdateVisit(s.ownerCtx(), visit.ID, models.VisitUpdate{Notes: strPtr("x")})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("location change re-derives the location key", func() {
		visit := s.storedVisit()
		s.mockVisits.EXPECT().FindByID(gomock.Any(), visit.ID).Return(visit, nil)
		s.expectExecute(visit)
		s.mockInvalidator.EXPECT().Invalidate(gomock.Any())
		var event events.Event
		s.mockDispatcher.EXPECT().Enqueue(gomock.Any()).Do(func(e events.Event) {
			event = e
		})

		tokyo, err := models.NewLocationRef("Meiji Shrine", 35.6764, 139.6993)
		s.Require().NoError(err)
		updated, err := s.service.UpdateVisit(s.ownerCtx(), visit.ID, models.VisitUpdate{Location: &tokyo})
		s.Require().NoError(err)
		s.Equal(tokyo, updated.Location)
		s.Equal(tokyo.Key(), updated.LocationKey)
		s.NotEqual(visit.LocationKey, updated.LocationKey)
		s.True(updated.UpdatedAt.Equal(s.now))

		s.Equal(events.TypeVisitUpdated, event.Type)
		s.Equal(updated.LocationKey.String(), event.LocationKey)
	})

	s.Run("notes-only update keeps the location key", func() {
		visit := s.storedVisit()
		s.mockVisits.EXPECT().FindByID(gomock.Any(), visit.ID).Return(visit, nil)
		s.expectExecute(visit)
		s.mockInvalidator.EXPECT().Invalidate(gomock.Any())
		s.mockDispatcher.EXPECT().Enqueue(gomock.Any())

		date := s.now.Add(-48 * time.Hour)
		updated, err := s.service.UpdateVisit(s.ownerCtx(), visit.ID, models.VisitUpdate{
			VisitDate: timePtr(date),
			Notes:     strPtr("evening run"),
		})
		s.Require().NoError(err)
		s.Equal("evening run", updated.Notes)
		s.True(updated.VisitDate.Equal(date))
		s.Equal(visit.Location, updated.Location)
		s.Equal(visit.LocationKey, updated.LocationKey)
	})
}

// =============================================================================
// DeleteVisit Tests
// =============================================================================
// Justification: Deletion is a soft transition; the tombstone keeps the ID
// reserved and repeated deletion must not double-apply.

func (s *VisitServiceSuite) TestDeleteVisit() {
	s.Run("nil visit id returns bad request", func() {
		err := s.service.DeleteVisit(s.ownerCtx(), id.VisitID(uuid.Nil))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("unknown visit returns not found", func() {
		visitID := id.NewVisitID()
		s.mockVisits.EXPECT().FindByID(gomock.Any(), visitID).Return(nil, sentinel.ErrNotFound)

		err := s.service.DeleteVisit(s.ownerCtx(), visitID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("non-owner caller is forbidden", func() {
		visit := s.storedVisit()
		s.mockVisits.EXPECT().FindByID(gomock.Any(), visit.ID).Return(visit, nil)

		other := id.Identity{UserID: id.UserID(uuid.New())}
		err := s.service.DeleteVisit(s.callerCtx(other), visit.ID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("owner deletes own visit", func() {
		visit := s.storedVisit()
		s.mockVisits.EXPECT().FindByID(gomock.Any(), visit.ID).Return(visit, nil)
		var deleted *models.Visit
		s.mockVisits.EXPECT().
			Execute(gomock.Any(), visit.ID, gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ id.VisitID, validate func(*models.Visit) error, mutate func(*models.Visit)) (*models.Visit, error) {
				working := visit.Clone()
				if err := validate(working); err != nil {
					return nil, err
				}
				mutate(working)
				deleted = working
				return working, nil
			})
		s.mockInvalidator.EXPECT().Invalidate(gomock.Any())
		var event events.Event
		s.mockDispatcher.EXPECT().Enqueue(gomock.Any()).Do(func(e events.Event) {
			event = e
		})

		err := s.service.DeleteVisit(s.ownerCtx(), visit.ID)
		s.Require().NoError(err)
		s.Equal(models.VisitStatusDeleted, deleted.Status)
		s.Require().NotNil(deleted.DeletedAt)
		s.True(deleted.DeletedAt.Equal(s.now))
		s.True(deleted.UpdatedAt.Equal(s.now))

		s.Equal(events.TypeVisitDeleted, event.Type)
		s.Equal(visit.ID.String(), event.VisitID)
	})

	s.Run("deleted visit surfaced by the store returns conflict", func() {
		// A concurrent delete can land between FindByID and Execute.
		visit := s.storedVisit()
		s.mockVisits.EXPECT().FindByID(gomock.Any(), visit.ID).Return(visit, nil)
		tombstone := visit.Clone()
		s.Require().NoError(tombstone.Delete(s.now.Add(-time.Minute)))
		s.mockVisits.EXPECT().
			Execute(gomock.Any(), visit.ID, gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ id.VisitID, validate func(*models.Visit) error, _ func(*models.Visit)) (*models.Visit, error) {
				return nil, validate(tombstone)
			})

		err := s.service.DeleteVisit(s.ownerCtx(), visit.ID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("admin deletes another user's visit", func() {
		visit := s.storedVisit()
		s.mockVisits.EXPECT().FindByID(gomock.Any(), visit.ID).Return(visit, nil)
		s.expectExecute(visit)
		s.mockInvalidator.EXPECT().Invalidate(gomock.Any())
		s.mockDispatcher.EXPECT().Enqueue(gomock.Any())

		admin := id.Identity{UserID: id.UserID(uuid.New()), Admin: true}
		err := s.service.DeleteVisit(s.callerCtx(admin), visit.ID)
		s.Require().NoError(err)
	})
}
