package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"trailmark/internal/rankings/models"
	"trailmark/pkg/platform/httputil"
	"trailmark/pkg/requestcontext"
)

// Service defines the interface for leaderboard reads and aggregate
// maintenance.
type Service interface {
	TopUsers(ctx context.Context, limit int) ([]models.RankedUser, error)
	TopLocations(ctx context.Context, limit int) ([]models.RankedLocation, error)
	Rebuild(ctx context.Context) error
}

// Handler wires leaderboard endpoints to the rankings service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a rankings handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts the leaderboard read endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/leaderboard/users", h.HandleTopUsers)
	r.Get("/leaderboard/locations", h.HandleTopLocations)
}

// RegisterAdmin mounts the maintenance endpoints. The caller wraps the group
// with the admin token middleware.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Post("/rankings/rebuild", h.HandleRebuild)
}

// HandleTopUsers handles GET /leaderboard/users requests.
func (h *Handler) HandleTopUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	board, err := h.service.TopUsers(ctx, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "user leaderboard failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, NewUserBoardResponse(board))
}

// HandleTopLocations handles GET /leaderboard/locations requests.
func (h *Handler) HandleTopLocations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	board, err := h.service.TopLocations(ctx, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "location leaderboard failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, NewLocationBoardResponse(board))
}

// HandleRebuild handles POST /admin/rankings/rebuild requests. The rebuild
// runs synchronously; the response only returns once the aggregates are
// fresh.
func (h *Handler) HandleRebuild(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	if err := h.service.Rebuild(ctx); err != nil {
		h.logger.ErrorContext(ctx, "rankings rebuild failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "rankings rebuilt",
		"request_id", requestID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	w.WriteHeader(http.StatusNoContent)
}
