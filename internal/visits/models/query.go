package models

import (
	"strings"

	dErrors "trailmark/pkg/domain-errors"
	"trailmark/pkg/platform/validation"
)

// SortKey selects the ordering dimension of a history query.
type SortKey string

const (
	SortByDate     SortKey = "date"
	SortByLocation SortKey = "location"
)

// ParseSortKey maps a query-string value to a sort key. Empty input defaults
// to date ordering.
func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(s) {
	case "":
		return SortByDate, nil
	case SortByDate, SortByLocation:
		return SortKey(s), nil
	default:
		return "", dErrors.Newf(dErrors.CodeValidation, "invalid sort key: %s", s)
	}
}

// SortDirection selects ascending or descending order.
type SortDirection string

const (
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)

// ParseSortDirection maps a query-string value to a direction. Empty input
// defaults to descending, newest first.
func ParseSortDirection(s string) (SortDirection, error) {
	switch SortDirection(s) {
	case "":
		return SortDescending, nil
	case SortAscending, SortDescending:
		return SortDirection(s), nil
	default:
		return "", dErrors.Newf(dErrors.CodeValidation, "invalid sort direction: %s", s)
	}
}

// HistoryQuery shapes a visit history listing.
type HistoryQuery struct {
	Sort          SortKey
	Direction     SortDirection
	PlaceContains string
}

// Normalize trims the place filter and fills in default sort settings.
func (q *HistoryQuery) Normalize() {
	q.PlaceContains = strings.TrimSpace(q.PlaceContains)
	if q.Sort == "" {
		q.Sort = SortByDate
	}
	if q.Direction == "" {
		q.Direction = SortDescending
	}
}

// Validate checks the query fields against their limits.
func (q *HistoryQuery) Validate() error {
	switch q.Sort {
	case SortByDate, SortByLocation:
	default:
		return dErrors.Newf(dErrors.CodeValidation, "invalid sort key: %s", q.Sort)
	}
	switch q.Direction {
	case SortAscending, SortDescending:
	default:
		return dErrors.Newf(dErrors.CodeValidation, "invalid sort direction: %s", q.Direction)
	}
	if len(q.PlaceContains) > validation.MaxPlaceFilterLength {
		return dErrors.Newf(dErrors.CodeValidation,
			"place filter must be %d characters or less", validation.MaxPlaceFilterLength)
	}
	return nil
}
