package service

import (
	"context"
	"errors"
	"maps"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"trailmark/internal/rankings/models"
	vmodels "trailmark/internal/visits/models"
	id "trailmark/pkg/domain"
	dErrors "trailmark/pkg/domain-errors"
)

const tracerName = "trailmark/rankings"

// maxConsistencyRetries bounds how often a recompute restarts after a
// mutation races the snapshot read. Past the bound the freshest build is
// served as-is and the next read recomputes.
const maxConsistencyRetries = 3

// errConsistency reports that the generation moved while a snapshot was
// being built. Strictly internal: recompute retries it and callers never
// see it.
var errConsistency = errors.New("aggregate snapshot raced a mutation")

// snapshot is one immutable, fully built set of aggregates. Valid while its
// generation matches the service's; shared across readers and never mutated
// after construction.
type snapshot struct {
	generation uint64
	byUser     map[id.UserID]models.UserAggregate
	byLocation map[vmodels.LocationKey]models.LocationAggregate
}

// recomputeRun coalesces concurrent recompute triggers: one goroutine builds,
// the rest wait on done and share the result.
type recomputeRun struct {
	done chan struct{}
	snap *snapshot
	err  error
}

// Invalidate marks the memoized aggregates stale and drops any cached
// leaderboards. The visit service calls this after every successful mutation.
func (s *Service) Invalidate(ctx context.Context) {
	s.bumpGeneration()
	s.dropBoards(ctx)
}

// Rebuild forces a full recomputation from the store and drops cached
// leaderboards. Backs the admin rebuild endpoint and the periodic
// reconciliation loop that bounds drift.
func (s *Service) Rebuild(ctx context.Context) error {
	s.countRebuild()
	s.bumpGeneration()
	s.dropBoards(ctx)
	_, err := s.currentSnapshot(ctx)
	return err
}

// AggregateByUser returns total and distinct-location visit counts per user,
// covering every active visit. Deleted visits are never counted.
func (s *Service) AggregateByUser(ctx context.Context) (map[id.UserID]models.UserAggregate, error) {
	snap, err := s.currentSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return maps.Clone(snap.byUser), nil
}

// AggregateByLocation returns visit and distinct-visitor counts per location
// key, covering every active visit.
func (s *Service) AggregateByLocation(ctx context.Context) (map[vmodels.LocationKey]models.LocationAggregate, error) {
	snap, err := s.currentSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return maps.Clone(snap.byLocation), nil
}

// currentSnapshot returns the memoized snapshot, recomputing when stale.
// Exactly one recompute runs at a time; concurrent callers wait for it and
// share its result.
func (s *Service) currentSnapshot(ctx context.Context) (*snapshot, error) {
	s.mu.Lock()
	if s.snapshot != nil && s.snapshot.generation == s.generation {
		snap := s.snapshot
		s.mu.Unlock()
		return snap, nil
	}
	if run := s.run; run != nil {
		s.mu.Unlock()
		select {
		case <-run.done:
			return run.snap, run.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	run := &recomputeRun{done: make(chan struct{})}
	s.run = run
	s.mu.Unlock()

	run.snap, run.err = s.recompute(ctx)

	s.mu.Lock()
	s.run = nil
	if run.err == nil && run.snap != nil {
		s.snapshot = run.snap
	}
	s.mu.Unlock()
	close(run.done)

	return run.snap, run.err
}

// recompute rebuilds the aggregates, restarting when a mutation races the
// build. After maxConsistencyRetries restarts it serves the freshest build
// anyway; the stale generation makes the next read recompute.
func (s *Service) recompute(ctx context.Context) (*snapshot, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "rankings.Recompute")
	defer span.End()
	start := time.Now()

	var freshest *snapshot
	for attempt := 0; ; attempt++ {
		snap, err := s.buildOnce(ctx)
		if err == nil {
			span.SetAttributes(
				attribute.Int("users", len(snap.byUser)),
				attribute.Int("locations", len(snap.byLocation)),
			)
			s.countRecompute(start)
			return snap, nil
		}
		if !errors.Is(err, errConsistency) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "recompute failed")
			return nil, err
		}
		freshest = snap
		if attempt == maxConsistencyRetries {
			break
		}
		s.countRetry()
	}

	s.countStaleServe()
	s.countRecompute(start)
	s.warn(ctx, "serving aggregates that raced a mutation", "retries", maxConsistencyRetries)
	span.SetAttributes(attribute.Bool("stale", true))
	return freshest, nil
}

// buildOnce builds a snapshot against the generation observed before the
// store read. Returns errConsistency (with the build still attached) when the
// generation moved during the build.
func (s *Service) buildOnce(ctx context.Context) (*snapshot, error) {
	gen := s.currentGeneration()
	visits, err := s.visits.ListActive(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "listing active visits failed")
	}
	snap, err := buildSnapshot(visits)
	if err != nil {
		return nil, err
	}
	snap.generation = gen
	if s.currentGeneration() != gen {
		return snap, errConsistency
	}
	return snap, nil
}

// buildSnapshot counts visits into the two aggregate maps. The maps are
// disjoint, so both sides build in parallel over the same read-only slice.
func buildSnapshot(visits []*vmodels.Visit) (*snapshot, error) {
	snap := &snapshot{
		byUser:     make(map[id.UserID]models.UserAggregate),
		byLocation: make(map[vmodels.LocationKey]models.LocationAggregate),
	}

	var g errgroup.Group
	g.Go(func() error {
		visited := make(map[id.UserID]map[vmodels.LocationKey]struct{})
		for _, visit := range visits {
			agg := snap.byUser[visit.OwnerID]
			agg.UserID = visit.OwnerID
			agg.TotalVisits++

			locations := visited[visit.OwnerID]
			if locations == nil {
				locations = make(map[vmodels.LocationKey]struct{})
				visited[visit.OwnerID] = locations
			}
			if _, seen := locations[visit.LocationKey]; !seen {
				locations[visit.LocationKey] = struct{}{}
				agg.DistinctLocations++
			}
			snap.byUser[visit.OwnerID] = agg
		}
		return nil
	})
	g.Go(func() error {
		visitors := make(map[vmodels.LocationKey]map[id.UserID]struct{})
		for _, visit := range visits {
			agg := snap.byLocation[visit.LocationKey]
			agg.LocationKey = visit.LocationKey
			agg.TotalVisits++
			// Smallest place name wins so the tile's display name is
			// deterministic regardless of visit order.
			if agg.PlaceName == "" || visit.Location.PlaceName < agg.PlaceName {
				agg.PlaceName = visit.Location.PlaceName
			}

			seen := visitors[visit.LocationKey]
			if seen == nil {
				seen = make(map[id.UserID]struct{})
				visitors[visit.LocationKey] = seen
			}
			if _, counted := seen[visit.OwnerID]; !counted {
				seen[visit.OwnerID] = struct{}{}
				agg.DistinctVisitors++
			}
			snap.byLocation[visit.LocationKey] = agg
		}

		// A location cannot have more distinct visitors than visits.
		for key, agg := range snap.byLocation {
			if agg.TotalVisits < agg.DistinctVisitors {
				return dErrors.Newf(dErrors.CodeInvariantViolation,
					"location %s counts %d visits by %d distinct visitors",
					key, agg.TotalVisits, agg.DistinctVisitors)
			}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *Service) bumpGeneration() {
	s.mu.Lock()
	s.generation++
	s.mu.Unlock()
}

func (s *Service) currentGeneration() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

func (s *Service) dropBoards(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Drop(ctx); err != nil {
		s.warn(ctx, "dropping cached leaderboards failed", "error", err)
	}
}
