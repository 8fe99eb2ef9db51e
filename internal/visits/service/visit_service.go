package service

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"trailmark/internal/authz"
	"trailmark/internal/visits/events"
	"trailmark/internal/visits/models"
	id "trailmark/pkg/domain"
	dErrors "trailmark/pkg/domain-errors"
	"trailmark/pkg/platform/sentinel"
	"trailmark/pkg/requestcontext"
)

const tracerName = "trailmark/visits"

// CreateVisit records a new visit owned by the calling identity.
func (s *Service) CreateVisit(ctx context.Context, loc models.LocationRef, visitDate time.Time, notes string) (*models.Visit, error) {
	caller := requestcontext.Caller(ctx)
	if err := s.gate.AuthorizeOwner(ctx, authz.ActionCreate, caller.UserID); err != nil {
		return nil, err
	}

	visit, err := models.NewVisit(id.NewVisitID(), caller.UserID, loc, visitDate, notes, requestcontext.Now(ctx))
	if err != nil {
		// Convert invariant violations to validation errors for API response
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, err.Error())
		}
		return nil, err
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "visits.Create",
		trace.WithAttributes(
			attribute.String("visit.id", visit.ID.String()),
			attribute.String("visit.location_key", visit.LocationKey.String()),
		),
	)
	defer span.End()

	if err := s.visits.Create(ctx, visit); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "visit already exists")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "visit create failed")
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create visit")
	}

	s.invalidateAggregates(ctx)
	s.logAudit(ctx, events.TypeVisitCreated,
		"visit_id", visit.ID.String(),
		"owner_id", visit.OwnerID.String(),
		"location_key", visit.LocationKey.String(),
	)
	s.incrementCreated()

	return visit, nil
}

// GetVisit returns a single visit after the gate has cleared the caller.
func (s *Service) GetVisit(ctx context.Context, visitID id.VisitID) (*models.Visit, error) {
	if err := requireVisitID(visitID); err != nil {
		return nil, err
	}

	visit, err := s.visits.FindByID(ctx, visitID)
	if err != nil {
		return nil, wrapVisitErr(err)
	}
	if err := s.gate.Authorize(ctx, authz.ActionRead, visit); err != nil {
		return nil, err
	}
	return visit, nil
}

// UpdateVisit applies field changes to a visit. Unset fields are left
// untouched; a location change re-derives the location key.
//
// Uses the Execute callback pattern for atomic validate-then-mutate.
// The store's Execute method holds the lock (mutex or FOR UPDATE) during
// both validation and mutation.
func (s *Service) UpdateVisit(ctx context.Context, visitID id.VisitID, update models.VisitUpdate) (*models.Visit, error) {
	if err := requireVisitID(visitID); err != nil {
		return nil, err
	}
	if update.IsZero() {
		return nil, dErrors.New(dErrors.CodeValidation, "no fields to update")
	}

	current, err := s.visits.FindByID(ctx, visitID)
	if err != nil {
		return nil, wrapVisitErr(err)
	}
	if err := s.gate.Authorize(ctx, authz.ActionUpdate, current); err != nil {
		return nil, err
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "visits.Update",
		trace.WithAttributes(attribute.String("visit.id", visitID.String())),
	)
	defer span.End()

	now := requestcontext.Now(ctx)
	visit, err := s.visits.Execute(ctx, visitID,
		func(v *models.Visit) error {
			if err := v.CanApplyUpdate(update); err != nil {
				if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
					return dErrors.New(dErrors.CodeValidation, err.Error())
				}
				return err
			}
			return nil
		},
		func(v *models.Visit) {
			v.ApplyUpdate(update, now)
		},
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "visit update failed")
		return nil, wrapVisitErr(err)
	}

	s.invalidateAggregates(ctx)
	s.logAudit(ctx, events.TypeVisitUpdated,
		"visit_id", visit.ID.String(),
		"owner_id", visit.OwnerID.String(),
		"location_key", visit.LocationKey.String(),
	)
	s.incrementUpdated()

	return visit, nil
}

// DeleteVisit soft-deletes a visit. The tombstone stays in the store but the
// visit disappears from reads, history, and aggregates.
//
// Uses the Execute callback pattern for atomic validate-then-mutate.
func (s *Service) DeleteVisit(ctx context.Context, visitID id.VisitID) error {
	if err := requireVisitID(visitID); err != nil {
		return err
	}

	current, err := s.visits.FindByID(ctx, visitID)
	if err != nil {
		return wrapVisitErr(err)
	}
	if err := s.gate.Authorize(ctx, authz.ActionDelete, current); err != nil {
		return err
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "visits.Delete",
		trace.WithAttributes(attribute.String("visit.id", visitID.String())),
	)
	defer span.End()

	now := requestcontext.Now(ctx)
	visit, err := s.visits.Execute(ctx, visitID,
		func(v *models.Visit) error {
			if err := v.CanDelete(); err != nil {
				if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
					return dErrors.New(dErrors.CodeConflict, "visit is already deleted")
				}
				return err
			}
			return nil
		},
		func(v *models.Visit) {
			v.ApplyDeletion(now)
		},
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "visit delete failed")
		return wrapVisitErr(err)
	}

	s.invalidateAggregates(ctx)
	s.logAudit(ctx, events.TypeVisitDeleted,
		"visit_id", visit.ID.String(),
		"owner_id", visit.OwnerID.String(),
		"location_key", visit.LocationKey.String(),
	)
	s.incrementDeleted()

	return nil
}

func (s *Service) incrementCreated() {
	if s.metrics != nil {
		s.metrics.IncrementVisitCreated()
	}
}

func (s *Service) incrementUpdated() {
	if s.metrics != nil {
		s.metrics.IncrementVisitUpdated()
	}
}

func (s *Service) incrementDeleted() {
	if s.metrics != nil {
		s.metrics.IncrementVisitDeleted()
	}
}
