package handler

import (
	"strings"
	"time"

	"trailmark/internal/visits/models"
	dErrors "trailmark/pkg/domain-errors"
	"trailmark/pkg/platform/validation"
)

// CreateVisitRequest is the HTTP request body for POST /visits.
type CreateVisitRequest struct {
	PlaceName string    `json:"place_name"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	VisitDate time.Time `json:"visit_date"`
	Notes     string    `json:"notes"`

	// Parsed values (populated by Validate)
	parsedLocation models.LocationRef
}

// Normalize trims free-text fields.
func (r *CreateVisitRequest) Normalize() {
	if r == nil {
		return
	}
	r.PlaceName = strings.TrimSpace(r.PlaceName)
	r.Notes = strings.TrimSpace(r.Notes)
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *CreateVisitRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.VisitDate.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "visit_date is required")
	}
	if len(r.Notes) > validation.MaxNotesLength {
		return dErrors.Newf(dErrors.CodeValidation,
			"notes must be %d characters or less", validation.MaxNotesLength)
	}

	loc, err := models.NewLocationRef(r.PlaceName, r.Latitude, r.Longitude)
	if err != nil {
		return asValidation(err)
	}
	r.parsedLocation = loc

	return nil
}

// ParsedLocation returns the validated location.
func (r *CreateVisitRequest) ParsedLocation() models.LocationRef {
	return r.parsedLocation
}

// UpdateVisitRequest is the HTTP request body for PATCH /visits/{visitID}.
// Absent fields are left unchanged. The three location fields travel
// together; sending a subset is rejected. Ownership is immutable; a body
// naming owner_id is rejected.
type UpdateVisitRequest struct {
	PlaceName *string    `json:"place_name"`
	Latitude  *float64   `json:"latitude"`
	Longitude *float64   `json:"longitude"`
	VisitDate *time.Time `json:"visit_date"`
	Notes     *string    `json:"notes"`
	OwnerID   *string    `json:"owner_id"`

	// Parsed values (populated by Validate)
	parsedUpdate models.VisitUpdate
}

// Normalize trims free-text pointer fields.
func (r *UpdateVisitRequest) Normalize() {
	if r == nil {
		return
	}
	if r.PlaceName != nil {
		trimmed := strings.TrimSpace(*r.PlaceName)
		r.PlaceName = &trimmed
	}
	if r.Notes != nil {
		trimmed := strings.TrimSpace(*r.Notes)
		r.Notes = &trimmed
	}
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *UpdateVisitRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.OwnerID != nil {
		return dErrors.New(dErrors.CodeValidation, "owner cannot be changed")
	}

	update := models.VisitUpdate{
		VisitDate: r.VisitDate,
		Notes:     r.Notes,
	}

	hasAny := r.PlaceName != nil || r.Latitude != nil || r.Longitude != nil
	hasAll := r.PlaceName != nil && r.Latitude != nil && r.Longitude != nil
	if hasAny && !hasAll {
		return dErrors.New(dErrors.CodeValidation,
			"place_name, latitude and longitude must be provided together")
	}
	if hasAll {
		loc, err := models.NewLocationRef(*r.PlaceName, *r.Latitude, *r.Longitude)
		if err != nil {
			return asValidation(err)
		}
		update.Location = &loc
	}

	if r.VisitDate != nil && r.VisitDate.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "visit_date cannot be zero")
	}
	if r.Notes != nil && len(*r.Notes) > validation.MaxNotesLength {
		return dErrors.Newf(dErrors.CodeValidation,
			"notes must be %d characters or less", validation.MaxNotesLength)
	}

	r.parsedUpdate = update
	return nil
}

// ParsedUpdate returns the validated field changes.
func (r *UpdateVisitRequest) ParsedUpdate() models.VisitUpdate {
	return r.parsedUpdate
}

// parseHistoryQuery builds a history query from URL query parameters.
func parseHistoryQuery(sortParam, directionParam, placeParam string) (models.HistoryQuery, error) {
	sortKey, err := models.ParseSortKey(sortParam)
	if err != nil {
		return models.HistoryQuery{}, err
	}
	direction, err := models.ParseSortDirection(directionParam)
	if err != nil {
		return models.HistoryQuery{}, err
	}

	query := models.HistoryQuery{
		Sort:          sortKey,
		Direction:     direction,
		PlaceContains: placeParam,
	}
	query.Normalize()
	if err := query.Validate(); err != nil {
		return models.HistoryQuery{}, err
	}
	return query, nil
}

// asValidation reports model invariant violations as client validation
// errors so they surface as 400s instead of 500s.
func asValidation(err error) error {
	if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
		return dErrors.New(dErrors.CodeValidation, err.Error())
	}
	return err
}
