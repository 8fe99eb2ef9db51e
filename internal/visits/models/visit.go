package models

import (
	"time"

	dErrors "trailmark/pkg/domain-errors"
	id "trailmark/pkg/domain"
	"trailmark/pkg/platform/validation"
)

// Visit is one recorded stop at a location, owned by exactly one user.
//
// Invariants:
//   - ID and OwnerID are non-nil
//   - Location satisfies the LocationRef invariants
//   - LocationKey is always derived from Location, never set independently
//   - VisitDate is non-zero
//   - Notes is at most MaxNotesLength characters
//   - Status transitions follow VisitStatus.CanTransitionTo
//   - DeletedAt is set if and only if Status is deleted
type Visit struct {
	ID          id.VisitID
	OwnerID     id.UserID
	Location    LocationRef
	LocationKey LocationKey
	VisitDate   time.Time
	Notes       string
	Status      VisitStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

// VisitUpdate carries the mutable fields of a visit. Nil fields are left
// unchanged.
type VisitUpdate struct {
	Location  *LocationRef
	VisitDate *time.Time
	Notes     *string
}

// IsZero reports whether the update would change nothing.
func (u VisitUpdate) IsZero() bool {
	return u.Location == nil && u.VisitDate == nil && u.Notes == nil
}

// NewVisit creates an active visit owned by ownerID. The location key is
// derived from the location's coordinates.
func NewVisit(visitID id.VisitID, ownerID id.UserID, loc LocationRef, visitDate time.Time, notes string, now time.Time) (*Visit, error) {
	if visitID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "visit ID cannot be nil")
	}
	if ownerID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "owner ID cannot be nil")
	}
	if visitDate.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "visit date cannot be zero")
	}
	if len(notes) > validation.MaxNotesLength {
		return nil, dErrors.Newf(dErrors.CodeInvariantViolation,
			"notes must be %d characters or less", validation.MaxNotesLength)
	}
	if _, err := NewLocationRef(loc.PlaceName, loc.Latitude, loc.Longitude); err != nil {
		return nil, err
	}

	return &Visit{
		ID:          visitID,
		OwnerID:     ownerID,
		Location:    loc,
		LocationKey: loc.Key(),
		VisitDate:   visitDate,
		Notes:       notes,
		Status:      VisitStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// IsActive reports whether the visit is live (not soft-deleted).
func (v *Visit) IsActive() bool {
	return v.Status == VisitStatusActive
}

// CanUpdate validates that the visit accepts field changes in its current
// state.
func (v *Visit) CanUpdate() error {
	if !v.Status.CanTransitionTo(VisitStatusActive) {
		return dErrors.Newf(dErrors.CodeInvariantViolation, "cannot update visit in status %s", v.Status)
	}
	return nil
}

// CanApplyUpdate validates the update against the visit's invariants without
// mutating it.
func (v *Visit) CanApplyUpdate(update VisitUpdate) error {
	if err := v.CanUpdate(); err != nil {
		return err
	}
	if update.Location != nil {
		if _, err := NewLocationRef(update.Location.PlaceName, update.Location.Latitude, update.Location.Longitude); err != nil {
			return err
		}
	}
	if update.VisitDate != nil && update.VisitDate.IsZero() {
		return dErrors.New(dErrors.CodeInvariantViolation, "visit date cannot be zero")
	}
	if update.Notes != nil && len(*update.Notes) > validation.MaxNotesLength {
		return dErrors.Newf(dErrors.CodeInvariantViolation,
			"notes must be %d characters or less", validation.MaxNotesLength)
	}
	return nil
}

// ApplyUpdate mutates the visit with the given fields. Callers must have
// validated with CanApplyUpdate first. A location change re-derives the
// location key.
func (v *Visit) ApplyUpdate(update VisitUpdate, now time.Time) {
	if update.Location != nil {
		v.Location = *update.Location
		v.LocationKey = update.Location.Key()
	}
	if update.VisitDate != nil {
		v.VisitDate = *update.VisitDate
	}
	if update.Notes != nil {
		v.Notes = *update.Notes
	}
	v.UpdatedAt = now
}

// Update validates and applies the field changes in one step.
func (v *Visit) Update(update VisitUpdate, now time.Time) error {
	if err := v.CanApplyUpdate(update); err != nil {
		return err
	}
	v.ApplyUpdate(update, now)
	return nil
}

// CanDelete validates that the visit accepts deletion in its current state.
func (v *Visit) CanDelete() error {
	if !v.Status.CanTransitionTo(VisitStatusDeleted) {
		return dErrors.Newf(dErrors.CodeInvariantViolation, "cannot delete visit in status %s", v.Status)
	}
	return nil
}

// ApplyDeletion marks the visit deleted. Callers must have validated with
// CanDelete first.
func (v *Visit) ApplyDeletion(now time.Time) {
	v.Status = VisitStatusDeleted
	v.UpdatedAt = now
	v.DeletedAt = &now
}

// Delete validates and applies the deletion in one step.
func (v *Visit) Delete(now time.Time) error {
	if err := v.CanDelete(); err != nil {
		return err
	}
	v.ApplyDeletion(now)
	return nil
}

// Clone returns a deep copy of the visit.
func (v *Visit) Clone() *Visit {
	clone := *v
	if v.DeletedAt != nil {
		t := *v.DeletedAt
		clone.DeletedAt = &t
	}
	return &clone
}
