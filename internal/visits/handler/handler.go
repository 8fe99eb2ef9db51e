package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"trailmark/internal/visits/models"
	id "trailmark/pkg/domain"
	dErrors "trailmark/pkg/domain-errors"
	"trailmark/pkg/platform/httputil"
	"trailmark/pkg/requestcontext"
)

// Service defines the interface for visit ledger operations.
type Service interface {
	CreateVisit(ctx context.Context, loc models.LocationRef, visitDate time.Time, notes string) (*models.Visit, error)
	GetVisit(ctx context.Context, visitID id.VisitID) (*models.Visit, error)
	UpdateVisit(ctx context.Context, visitID id.VisitID, update models.VisitUpdate) (*models.Visit, error)
	DeleteVisit(ctx context.Context, visitID id.VisitID) error
	History(ctx context.Context, ownerID id.UserID, query models.HistoryQuery) ([]*models.Visit, error)
}

// Handler wires visit endpoints to the visit service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a visit handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts visit endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/visits", h.HandleCreateVisit)
	r.Get("/visits", h.HandleOwnHistory)
	r.Get("/visits/{visitID}", h.HandleGetVisit)
	r.Patch("/visits/{visitID}", h.HandleUpdateVisit)
	r.Delete("/visits/{visitID}", h.HandleDeleteVisit)
	r.Get("/users/{userID}/visits", h.HandleHistory)
}

// HandleCreateVisit handles POST /visits requests.
func (h *Handler) HandleCreateVisit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateVisitRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	visit, err := h.service.CreateVisit(ctx, req.ParsedLocation(), req.VisitDate, req.Notes)
	if err != nil {
		h.logger.ErrorContext(ctx, "visit creation failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, FromVisit(visit))
}

// HandleGetVisit handles GET /visits/{visitID} requests.
func (h *Handler) HandleGetVisit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	visitID, err := id.ParseVisitID(chi.URLParam(r, "visitID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	visit, err := h.service.GetVisit(ctx, visitID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromVisit(visit))
}

// HandleUpdateVisit handles PATCH /visits/{visitID} requests.
func (h *Handler) HandleUpdateVisit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	visitID, err := id.ParseVisitID(chi.URLParam(r, "visitID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[UpdateVisitRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	visit, err := h.service.UpdateVisit(ctx, visitID, req.ParsedUpdate())
	if err != nil {
		h.logger.ErrorContext(ctx, "visit update failed",
			"request_id", requestID,
			"visit_id", visitID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromVisit(visit))
}

// HandleDeleteVisit handles DELETE /visits/{visitID} requests.
func (h *Handler) HandleDeleteVisit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	visitID, err := id.ParseVisitID(chi.URLParam(r, "visitID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.DeleteVisit(ctx, visitID); err != nil {
		h.logger.ErrorContext(ctx, "visit deletion failed",
			"request_id", requestID,
			"visit_id", visitID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleOwnHistory handles GET /visits requests, listing the caller's own visits.
func (h *Handler) HandleOwnHistory(w http.ResponseWriter, r *http.Request) {
	userID := requestcontext.UserID(r.Context())
	if userID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}
	h.serveHistory(w, r, userID)
}

// HandleHistory handles GET /users/{userID}/visits requests.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	userID, err := id.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.serveHistory(w, r, userID)
}

func (h *Handler) serveHistory(w http.ResponseWriter, r *http.Request, userID id.UserID) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	params := r.URL.Query()
	query, err := parseHistoryQuery(params.Get("sort"), params.Get("order"), params.Get("q"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	visits, err := h.service.History(ctx, userID, query)
	if err != nil {
		h.logger.ErrorContext(ctx, "history query failed",
			"request_id", requestID,
			"user_id", userID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "history served",
		"request_id", requestID,
		"user_id", userID.String(),
		"count", len(visits),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, FromVisits(visits))
}
