package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"trailmark/internal/authz"
	"trailmark/internal/visits/events"
	visitmetrics "trailmark/internal/visits/metrics"
	"trailmark/internal/visits/models"
	"trailmark/pkg/attrs"
	id "trailmark/pkg/domain"
	dErrors "trailmark/pkg/domain-errors"
	"trailmark/pkg/platform/middleware/request"
	"trailmark/pkg/platform/sentinel"
	"trailmark/pkg/requestcontext"
)

// VisitStore persists the visit ledger.
type VisitStore interface {
	// Create stores a new visit. Returns sentinel.ErrConflict if the ID is taken.
	Create(ctx context.Context, visit *models.Visit) error

	// FindByID returns an active visit. Returns sentinel.ErrNotFound if the
	// visit does not exist or has been deleted.
	FindByID(ctx context.Context, visitID id.VisitID) (*models.Visit, error)

	// Execute atomically validates and mutates a visit under the store's
	// per-record lock.
	Execute(ctx context.Context, visitID id.VisitID, validate func(*models.Visit) error, mutate func(*models.Visit)) (*models.Visit, error)

	// ListByOwner returns all active visits owned by ownerID.
	ListByOwner(ctx context.Context, ownerID id.UserID) ([]*models.Visit, error)
}

// AggregateInvalidator is notified after every successful mutation so
// derived aggregates stop serving the old state.
type AggregateInvalidator interface {
	Invalidate(ctx context.Context)
}

// Dispatcher receives activity events for asynchronous publishing.
type Dispatcher interface {
	Enqueue(event events.Event)
}

// Service orchestrates the visit ledger: every create, read, update, delete,
// and history listing runs through here, and each one consults the
// authorization gate before touching the store.
type Service struct {
	visits      VisitStore
	gate        *authz.Gate
	logger      *slog.Logger
	dispatcher  Dispatcher
	invalidator AggregateInvalidator
	metrics     *visitmetrics.Metrics
}

// Option configures a Service.
type Option func(s *Service)

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithDispatcher attaches an activity event dispatcher.
func WithDispatcher(dispatcher Dispatcher) Option {
	return func(s *Service) {
		s.dispatcher = dispatcher
	}
}

// WithInvalidator attaches the aggregate invalidation hook.
func WithInvalidator(invalidator AggregateInvalidator) Option {
	return func(s *Service) {
		s.invalidator = invalidator
	}
}

// WithMetrics attaches the visits metrics set.
func WithMetrics(m *visitmetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New constructs a Service.
func New(visits VisitStore, gate *authz.Gate, opts ...Option) (*Service, error) {
	if visits == nil {
		return nil, fmt.Errorf("visit store is required")
	}
	if gate == nil {
		return nil, fmt.Errorf("authorization gate is required")
	}

	svc := &Service{
		visits: visits,
		gate:   gate,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// logAudit records an operation to the structured log and hands a matching
// activity event to the dispatcher. This is the single emission point so log
// and event stream cannot drift apart.
func (s *Service) logAudit(ctx context.Context, eventType events.Type, attributes ...any) {
	if requestID := request.GetRequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", string(eventType), "log_type", "audit")
	if s.logger != nil {
		s.logger.InfoContext(ctx, string(eventType), args...)
	}

	if s.dispatcher == nil {
		return
	}
	s.dispatcher.Enqueue(events.Event{
		Type:        eventType,
		VisitID:     attrs.ExtractString(attributes, "visit_id"),
		OwnerID:     attrs.ExtractString(attributes, "owner_id"),
		LocationKey: attrs.ExtractString(attributes, "location_key"),
		OccurredAt:  requestcontext.Now(ctx),
		RequestID:   attrs.ExtractString(attributes, "request_id"),
	})
}

func (s *Service) invalidateAggregates(ctx context.Context) {
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx)
	}
}

func (s *Service) observeHistoryQuery(start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveHistoryQuery(start)
	}
}

func requireVisitID(visitID id.VisitID) error {
	if visitID.IsNil() {
		return dErrors.New(dErrors.CodeBadRequest, "visit_id is required")
	}
	return nil
}

// wrapVisitErr translates store failures into domain errors. Domain errors
// raised inside Execute callbacks pass through untouched.
func wrapVisitErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "visit not found")
	}
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "visit store operation failed")
}
