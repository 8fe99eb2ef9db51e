package handler

import (
	"strconv"

	dErrors "trailmark/pkg/domain-errors"
)

// defaultLimit applies when the limit query parameter is absent.
const defaultLimit = 10

// parseLimit reads the limit query parameter. Non-numeric input is a bad
// request; range rules (positive, clamped to the board) live in the service.
func parseLimit(raw string) (int, error) {
	if raw == "" {
		return defaultLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeBadRequest, "limit must be an integer")
	}
	return limit, nil
}
