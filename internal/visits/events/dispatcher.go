package events

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"trailmark/internal/visits/metrics"
)

const (
	defaultBuffer  = 256
	publishTimeout = 5 * time.Second
)

// Sink receives dispatched events. Implementations must be safe for use
// from a single background goroutine.
type Sink interface {
	Publish(ctx context.Context, event Event) error
}

// Dispatcher buffers events and publishes them from a background goroutine.
// Enqueue never blocks: when the buffer is full the event is dropped and
// counted, because losing an activity event must never fail or slow a visit
// operation.
type Dispatcher struct {
	sink    Sink
	logger  *slog.Logger
	metrics *metrics.Metrics
	inbox   chan Event
	done    chan struct{}
	closed  atomic.Bool
	once    sync.Once
}

// Option configures a Dispatcher.
type Option func(d *Dispatcher)

// WithLogger attaches a logger for publish failures and drops.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// WithMetrics attaches the visits metrics set.
func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// WithBuffer sets the inbox capacity.
func WithBuffer(size int) Option {
	return func(d *Dispatcher) {
		if size > 0 {
			d.inbox = make(chan Event, size)
		}
	}
}

// NewDispatcher starts a dispatcher publishing to sink.
func NewDispatcher(sink Sink, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		sink:  sink,
		inbox: make(chan Event, defaultBuffer),
		done:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	go d.run()
	return d
}

// Enqueue hands an event to the dispatcher. A zero OccurredAt is stamped
// with the current time. Events enqueued after Close are dropped.
func (d *Dispatcher) Enqueue(event Event) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	if d.closed.Load() {
		d.drop(event)
		return
	}
	select {
	case d.inbox <- event:
		if d.metrics != nil {
			d.metrics.IncrementEventsQueued()
		}
	default:
		d.drop(event)
	}
}

// Close stops accepting events, drains the buffer, and waits for the
// background goroutine to finish. Call it after the HTTP server has stopped
// so no Enqueue races the shutdown.
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		d.closed.Store(true)
		close(d.inbox)
	})
	<-d.done
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for event := range d.inbox {
		d.publish(event)
	}
}

func (d *Dispatcher) publish(event Event) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := d.sink.Publish(ctx, event); err != nil && d.logger != nil {
		d.logger.ErrorContext(ctx, "failed to publish activity event",
			"error", err,
			"event_type", string(event.Type),
			"visit_id", event.VisitID,
		)
	}
}

func (d *Dispatcher) drop(event Event) {
	if d.metrics != nil {
		d.metrics.IncrementEventsDropped()
	}
	if d.logger != nil {
		d.logger.Warn("activity event dropped",
			"event_type", string(event.Type),
			"visit_id", event.VisitID,
		)
	}
}
