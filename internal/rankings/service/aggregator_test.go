package service

import (
	"context"
	"sync"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	vmodels "trailmark/internal/visits/models"
	dErrors "trailmark/pkg/domain-errors"
)

// =============================================================================
// Aggregation Tests
// =============================================================================
// Justification: the aggregate maps are the source for every leaderboard
// read, so their counting rules and the recompute lifecycle (memoize,
// invalidate, coalesce, retry) are pinned down here against a mocked store.
// The service memoizes across calls, so every subtest starts from a fresh
// instance.

// freshService builds an uncached service on the suite's mock source.
func (s *RankingsServiceSuite) freshService() *Service {
	svc, err := New(s.mockVisits, WithLogger(s.discardLogger()))
	s.Require().NoError(err)
	return svc
}

func (s *RankingsServiceSuite) ledger() []*vmodels.Visit {
	// User A visits L1 twice and L2 once; user B visits L1 once.
	return []*vmodels.Visit{
		visitBy(s.userA, "L1"),
		visitBy(s.userA, "L1"),
		visitBy(s.userA, "L2"),
		visitBy(s.userB, "L1"),
	}
}

func (s *RankingsServiceSuite) TestAggregateByUser() {
	s.Run("counts total and distinct locations per user", func() {
		svc := s.freshService()
		s.mockVisits.EXPECT().ListActive(gomock.Any()).Return(s.ledger(), nil)

		byUser, err := svc.AggregateByUser(context.Background())
		s.Require().NoError(err)
		s.Require().Len(byUser, 2)

		s.Equal(3, byUser[s.userA].TotalVisits)
		s.Equal(2, byUser[s.userA].DistinctLocations)
		s.Equal(1, byUser[s.userB].TotalVisits)
		s.Equal(1, byUser[s.userB].DistinctLocations)
	})

	s.Run("user totals sum to the ledger size", func() {
		svc := s.freshService()
		ledger := s.ledger()
		s.mockVisits.EXPECT().ListActive(gomock.Any()).Return(ledger, nil)

		byUser, err := svc.AggregateByUser(context.Background())
		s.Require().NoError(err)

		total := 0
		for _, agg := range byUser {
			total += agg.TotalVisits
		}
		s.Equal(len(ledger), total)
	})

	s.Run("empty ledger yields empty aggregates", func() {
		svc := s.freshService()
		s.mockVisits.EXPECT().ListActive(gomock.Any()).Return(nil, nil)

		byUser, err := svc.AggregateByUser(context.Background())
		s.Require().NoError(err)
		s.Empty(byUser)
	})

	s.Run("store failure surfaces as internal error", func() {
		svc := s.freshService()
		s.mockVisits.EXPECT().ListActive(gomock.Any()).Return(nil, assert.AnError)

		_, err := svc.AggregateByUser(context.Background())
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *RankingsServiceSuite) TestAggregateByLocation() {
	s.Run("counts visits and distinct visitors per location", func() {
		svc := s.freshService()
		s.mockVisits.EXPECT().ListActive(gomock.Any()).Return(s.ledger(), nil)

		byLocation, err := svc.AggregateByLocation(context.Background())
		s.Require().NoError(err)
		s.Require().Len(byLocation, 2)

		s.Equal(3, byLocation["L1"].TotalVisits)
		s.Equal(2, byLocation["L1"].DistinctVisitors)
		s.Equal(1, byLocation["L2"].TotalVisits)
		s.Equal(1, byLocation["L2"].DistinctVisitors)
	})

	s.Run("no location counts fewer visits than distinct visitors", func() {
		svc := s.freshService()
		s.mockVisits.EXPECT().ListActive(gomock.Any()).Return(s.ledger(), nil)

		byLocation, err := svc.AggregateByLocation(context.Background())
		s.Require().NoError(err)
		for key, agg := range byLocation {
			s.GreaterOrEqual(agg.TotalVisits, agg.DistinctVisitors, "location %s", key)
		}
	})

	s.Run("keeps the smallest place name regardless of visit order", func() {
		svc := s.freshService()
		s.mockVisits.EXPECT().ListActive(gomock.Any()).Return([]*vmodels.Visit{
			visitAt(s.userA, "L1", "Vondelpark west entrance"),
			visitAt(s.userB, "L1", "Vondelpark"),
			visitAt(s.userA, "L1", "Vondelpark rose garden"),
		}, nil)

		byLocation, err := svc.AggregateByLocation(context.Background())
		s.Require().NoError(err)
		s.Equal("Vondelpark", byLocation["L1"].PlaceName)
	})
}

func (s *RankingsServiceSuite) TestMemoization() {
	s.Run("repeated reads share one recompute", func() {
		svc := s.freshService()
		s.mockVisits.EXPECT().ListActive(gomock.Any()).Return(s.ledger(), nil).Times(1)

		ctx := context.Background()
		first, err := svc.AggregateByUser(ctx)
		s.Require().NoError(err)
		second, err := svc.AggregateByUser(ctx)
		s.Require().NoError(err)
		byLocation, err := svc.AggregateByLocation(ctx)
		s.Require().NoError(err)

		s.Equal(first, second)
		s.Len(byLocation, 2)
	})

	s.Run("invalidate forces the next read to recompute", func() {
		svc := s.freshService()
		ctx := context.Background()
		s.mockVisits.EXPECT().ListActive(gomock.Any()).Return(s.ledger(), nil).Times(2)

		_, err := svc.AggregateByUser(ctx)
		s.Require().NoError(err)

		svc.Invalidate(ctx)

		_, err = svc.AggregateByUser(ctx)
		s.Require().NoError(err)
	})

	s.Run("returned maps are copies", func() {
		svc := s.freshService()
		ctx := context.Background()
		s.mockVisits.EXPECT().ListActive(gomock.Any()).Return(s.ledger(), nil).Times(1)

		first, err := svc.AggregateByUser(ctx)
		s.Require().NoError(err)
		delete(first, s.userA)

		second, err := svc.AggregateByUser(ctx)
		s.Require().NoError(err)
		s.Contains(second, s.userA)
	})
}

func (s *RankingsServiceSuite) TestRecomputeCoalescing() {
	// All concurrent readers share a single store read: one leads, the rest
	// either wait on the in-flight recompute or hit the memoized result.
	svc := s.freshService()
	s.mockVisits.EXPECT().ListActive(gomock.Any()).Return(s.ledger(), nil).Times(1)

	const readers = 8
	var wg sync.WaitGroup
	results := make([]int, readers)
	errs := make([]error, readers)

	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			byUser, err := svc.AggregateByUser(context.Background())
			results[i] = len(byUser)
			errs[i] = err
		}(i)
	}
	wg.Wait()

	for i := 0; i < readers; i++ {
		s.Require().NoError(errs[i])
		s.Equal(2, results[i])
	}
}

func (s *RankingsServiceSuite) TestConsistencyRetry() {
	s.Run("retries when a mutation races the build", func() {
		svc := s.freshService()
		ctx := context.Background()
		raced := s.mockVisits.EXPECT().ListActive(gomock.Any()).DoAndReturn(
			func(ctx context.Context) ([]*vmodels.Visit, error) {
				svc.Invalidate(ctx)
				return s.ledger()[:1], nil
			})
		s.mockVisits.EXPECT().ListActive(gomock.Any()).Return(s.ledger(), nil).After(raced)

		byUser, err := svc.AggregateByUser(ctx)
		s.Require().NoError(err)
		// The retry saw the full ledger, not the raced partial read.
		s.Equal(3, byUser[s.userA].TotalVisits)
	})

	s.Run("serves best effort once retries run out", func() {
		svc := s.freshService()
		ctx := context.Background()
		// Every build races a mutation: the initial read plus three retries.
		s.mockVisits.EXPECT().ListActive(gomock.Any()).DoAndReturn(
			func(ctx context.Context) ([]*vmodels.Visit, error) {
				svc.Invalidate(ctx)
				return s.ledger(), nil
			}).Times(4)

		byUser, err := svc.AggregateByUser(ctx)
		s.Require().NoError(err)
		s.Equal(3, byUser[s.userA].TotalVisits)
	})
}

func (s *RankingsServiceSuite) TestRebuild() {
	s.Run("recomputes even when the snapshot is fresh", func() {
		svc := s.freshService()
		ctx := context.Background()
		s.mockVisits.EXPECT().ListActive(gomock.Any()).Return(s.ledger(), nil).Times(2)

		_, err := svc.AggregateByUser(ctx)
		s.Require().NoError(err)

		s.Require().NoError(svc.Rebuild(ctx))
	})

	s.Run("drops cached boards", func() {
		svc := s.cachedService()
		s.mockCache.EXPECT().Drop(gomock.Any())
		s.mockVisits.EXPECT().ListActive(gomock.Any()).Return(s.ledger(), nil)

		s.Require().NoError(svc.Rebuild(context.Background()))
	})

	s.Run("surfaces store failure", func() {
		svc := s.freshService()
		s.mockVisits.EXPECT().ListActive(gomock.Any()).Return(nil, assert.AnError)

		err := svc.Rebuild(context.Background())
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}
