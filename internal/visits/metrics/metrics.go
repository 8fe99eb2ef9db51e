package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the visits module.
// Tracks mutation counts, history query latency, and the activity event
// stream's health.
type Metrics struct {
	VisitsCreated         prometheus.Counter
	VisitsUpdated         prometheus.Counter
	VisitsDeleted         prometheus.Counter
	HistoryQueryDuration  prometheus.Histogram
	ActivityEventsQueued  prometheus.Counter
	ActivityEventsDropped prometheus.Counter
}

// New creates a new Metrics instance with all visits module metrics registered.
func New() *Metrics {
	return &Metrics{
		VisitsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trailmark_visits_created_total",
			Help: "Total number of visits created",
		}),
		VisitsUpdated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trailmark_visits_updated_total",
			Help: "Total number of visits updated",
		}),
		VisitsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trailmark_visits_deleted_total",
			Help: "Total number of visits soft-deleted",
		}),
		HistoryQueryDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "trailmark_history_query_duration_seconds",
			Help:    "Duration of visit history queries",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		ActivityEventsQueued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trailmark_activity_events_queued_total",
			Help: "Total number of visit activity events handed to the dispatcher",
		}),
		ActivityEventsDropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trailmark_activity_events_dropped_total",
			Help: "Total number of visit activity events dropped due to a full dispatch queue",
		}),
	}
}

// IncrementVisitCreated records a successful visit creation.
func (m *Metrics) IncrementVisitCreated() {
	m.VisitsCreated.Inc()
}

// IncrementVisitUpdated records a successful visit update.
func (m *Metrics) IncrementVisitUpdated() {
	m.VisitsUpdated.Inc()
}

// IncrementVisitDeleted records a successful visit deletion.
func (m *Metrics) IncrementVisitDeleted() {
	m.VisitsDeleted.Inc()
}

// ObserveHistoryQuery records the duration of a history query.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveHistoryQuery(start time.Time) {
	m.HistoryQueryDuration.Observe(time.Since(start).Seconds())
}

// IncrementEventsQueued records an activity event accepted by the dispatcher.
func (m *Metrics) IncrementEventsQueued() {
	m.ActivityEventsQueued.Inc()
}

// IncrementEventsDropped records an activity event dropped on the floor.
func (m *Metrics) IncrementEventsDropped() {
	m.ActivityEventsDropped.Inc()
}
