package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	rankmetrics "trailmark/internal/rankings/metrics"
	"trailmark/internal/rankings/models"
	vmodels "trailmark/internal/visits/models"
)

// VisitSource supplies the active visit snapshot that every aggregate is
// derived from. The rankings module only ever reads.
type VisitSource interface {
	// ListActive returns every active visit, in no particular order.
	ListActive(ctx context.Context) ([]*vmodels.Visit, error)
}

// BoardCache caches fully ranked leaderboards. Implementations return
// sentinel.ErrNotFound on a miss.
type BoardCache interface {
	GetUserBoard(ctx context.Context) ([]models.RankedUser, error)
	SetUserBoard(ctx context.Context, board []models.RankedUser) error
	GetLocationBoard(ctx context.Context) ([]models.RankedLocation, error)
	SetLocationBoard(ctx context.Context, board []models.RankedLocation) error
	Drop(ctx context.Context) error
}

// Service derives per-user and per-location aggregates from the visit store
// and serves ranked leaderboards over them. Aggregates are memoized per
// generation: mutations bump the generation via Invalidate, and the next read
// recomputes. Implements the visit service's AggregateInvalidator.
type Service struct {
	visits  VisitSource
	cache   BoardCache
	logger  *slog.Logger
	metrics *rankmetrics.Metrics

	mu         sync.Mutex
	generation uint64
	snapshot   *snapshot
	run        *recomputeRun
}

// Option configures a Service.
type Option func(s *Service)

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithCache attaches a leaderboard cache. Without one every leaderboard read
// ranks the memoized aggregates in place.
func WithCache(cache BoardCache) Option {
	return func(s *Service) {
		s.cache = cache
	}
}

// WithMetrics attaches the rankings metrics set.
func WithMetrics(m *rankmetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New constructs a Service.
func New(visits VisitSource, opts ...Option) (*Service, error) {
	if visits == nil {
		return nil, fmt.Errorf("visit source is required")
	}

	svc := &Service{
		visits: visits,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

func (s *Service) warn(ctx context.Context, msg string, attributes ...any) {
	if s.logger != nil {
		s.logger.WarnContext(ctx, msg, attributes...)
	}
}

func (s *Service) countRecompute(start time.Time) {
	if s.metrics != nil {
		s.metrics.IncrementRecomputes()
		s.metrics.ObserveRecompute(start)
	}
}

func (s *Service) countRetry() {
	if s.metrics != nil {
		s.metrics.IncrementRecomputeRetries()
	}
}

func (s *Service) countStaleServe() {
	if s.metrics != nil {
		s.metrics.IncrementStaleServes()
	}
}

func (s *Service) countRebuild() {
	if s.metrics != nil {
		s.metrics.IncrementRebuilds()
	}
}

func (s *Service) countCacheHit(board string) {
	if s.metrics != nil {
		s.metrics.RecordCacheHit(board)
	}
}

func (s *Service) countCacheMiss(board string) {
	if s.metrics != nil {
		s.metrics.RecordCacheMiss(board)
	}
}

func (s *Service) observeCacheOp(start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveCacheOp(start)
	}
}
