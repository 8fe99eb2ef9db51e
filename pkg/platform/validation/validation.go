// Package validation centralizes the size limits enforced at API boundaries.
// Handlers and model constructors share these so the two layers cannot drift.
package validation

const (
	// MaxPlaceNameLength bounds location place names.
	MaxPlaceNameLength = 256

	// MaxNotesLength bounds free-text visit notes.
	MaxNotesLength = 4000

	// MaxLeaderboardLimit caps leaderboard page sizes.
	MaxLeaderboardLimit = 1000

	// MaxPlaceFilterLength bounds the optional history place-name filter.
	MaxPlaceFilterLength = 256
)
