package models

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"

	dErrors "trailmark/pkg/domain-errors"
	"trailmark/pkg/platform/validation"
)

// LocationKeyZoom is the tile zoom used to normalize coordinates into
// aggregation identities. Zoom 18 tiles are roughly 150 meters wide at the
// equator: small enough to separate neighboring venues, large enough to
// absorb GPS jitter between repeat visits to the same place.
const LocationKeyZoom = 18

// webMercatorMaxLat bounds the latitude fed into tile math; the projection
// diverges at the poles.
const webMercatorMaxLat = 85.05112878

// LocationKey is the canonical aggregation identity of a place, rendered as
// a z/x/y slippy-map tile address. Visits whose coordinates fall in the same
// tile count as visits to the same location, regardless of place name.
type LocationKey string

func (k LocationKey) String() string { return string(k) }

// LocationRef points at a named place on the map.
//
// Invariants:
//   - Latitude in [-90, 90], longitude in [-180, 180], both finite
//   - PlaceName is non-empty and at most MaxPlaceNameLength characters
type LocationRef struct {
	PlaceName string  `json:"place_name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// NewLocationRef validates coordinates and place name and returns the ref.
func NewLocationRef(placeName string, lat, lng float64) (LocationRef, error) {
	if placeName == "" {
		return LocationRef{}, dErrors.New(dErrors.CodeInvariantViolation, "place name cannot be empty")
	}
	if len(placeName) > validation.MaxPlaceNameLength {
		return LocationRef{}, dErrors.Newf(dErrors.CodeInvariantViolation,
			"place name must be %d characters or less", validation.MaxPlaceNameLength)
	}
	if math.IsNaN(lat) || math.IsInf(lat, 0) || lat < -90 || lat > 90 {
		return LocationRef{}, dErrors.New(dErrors.CodeInvariantViolation, "latitude must be a finite value in [-90, 90]")
	}
	if math.IsNaN(lng) || math.IsInf(lng, 0) || lng < -180 || lng > 180 {
		return LocationRef{}, dErrors.New(dErrors.CodeInvariantViolation, "longitude must be a finite value in [-180, 180]")
	}
	return LocationRef{PlaceName: placeName, Latitude: lat, Longitude: lng}, nil
}

// Point returns the coordinates as an orb point (lon/lat order).
func (l LocationRef) Point() orb.Point {
	return orb.Point{l.Longitude, l.Latitude}
}

// Key derives the aggregation identity for these coordinates. Latitude is
// clamped to the Web Mercator bound and longitude 180 wraps to -180 before
// tile math, so the projection extremes stay on the tile grid.
func (l LocationRef) Key() LocationKey {
	const maxIndex = uint32(1)<<LocationKeyZoom - 1
	lat := math.Max(-webMercatorMaxLat, math.Min(webMercatorMaxLat, l.Latitude))
	lng := l.Longitude
	if lng == 180 {
		lng = -180
	}
	t := maptile.At(orb.Point{lng, lat}, LocationKeyZoom)
	t.X &= maxIndex
	if t.Y > maxIndex {
		t.Y = maxIndex
	}
	return LocationKey(fmt.Sprintf("%d/%d/%d", t.Z, t.X, t.Y))
}
