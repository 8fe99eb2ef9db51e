package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the rankings module.
// Tracks recompute behavior, consistency retries, and leaderboard cache
// effectiveness.
type Metrics struct {
	Recomputes        prometheus.Counter
	RecomputeRetries  prometheus.Counter
	StaleServes       prometheus.Counter
	Rebuilds          prometheus.Counter
	RecomputeDuration prometheus.Histogram
	CacheHits         *prometheus.CounterVec
	CacheMisses       *prometheus.CounterVec
	CacheOpDuration   prometheus.Histogram
}

// New creates a new Metrics instance with all rankings module metrics registered.
func New() *Metrics {
	return &Metrics{
		Recomputes: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trailmark_rankings_recomputes_total",
			Help: "Total number of aggregate recomputations",
		}),
		RecomputeRetries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trailmark_rankings_recompute_retries_total",
			Help: "Total number of recompute retries after a concurrent invalidation",
		}),
		StaleServes: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trailmark_rankings_stale_serves_total",
			Help: "Total number of reads served from a stale snapshot after retries ran out",
		}),
		Rebuilds: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trailmark_rankings_rebuilds_total",
			Help: "Total number of forced aggregate rebuilds",
		}),
		RecomputeDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "trailmark_rankings_recompute_duration_seconds",
			Help:    "Duration of aggregate recomputations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		CacheHits: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "trailmark_leaderboard_cache_hits_total",
			Help: "Total number of leaderboard reads answered from cache",
		}, []string{"board"}),
		CacheMisses: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "trailmark_leaderboard_cache_misses_total",
			Help: "Total number of leaderboard reads that fell through to a recompute",
		}, []string{"board"}),
		CacheOpDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "trailmark_leaderboard_cache_op_duration_seconds",
			Help:    "Duration of leaderboard cache reads and writes",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		}),
	}
}

// IncrementRecomputes records an aggregate recomputation.
func (m *Metrics) IncrementRecomputes() {
	m.Recomputes.Inc()
}

// IncrementRecomputeRetries records a retry after a concurrent invalidation.
func (m *Metrics) IncrementRecomputeRetries() {
	m.RecomputeRetries.Inc()
}

// IncrementStaleServes records a read served from a stale snapshot.
func (m *Metrics) IncrementStaleServes() {
	m.StaleServes.Inc()
}

// IncrementRebuilds records a forced rebuild.
func (m *Metrics) IncrementRebuilds() {
	m.Rebuilds.Inc()
}

// ObserveRecompute records the duration of a recomputation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveRecompute(start time.Time) {
	m.RecomputeDuration.Observe(time.Since(start).Seconds())
}

// RecordCacheHit records a leaderboard cache hit for the given board.
func (m *Metrics) RecordCacheHit(board string) {
	m.CacheHits.WithLabelValues(board).Inc()
}

// RecordCacheMiss records a leaderboard cache miss for the given board.
func (m *Metrics) RecordCacheMiss(board string) {
	m.CacheMisses.WithLabelValues(board).Inc()
}

// ObserveCacheOp records the duration of a cache read or write.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveCacheOp(start time.Time) {
	m.CacheOpDuration.Observe(time.Since(start).Seconds())
}
