// Package events carries visit activity off the request path. Services hand
// events to the Dispatcher, which forwards them to a sink (Kafka in
// production) without ever blocking a caller.
package events

import "time"

// Type names a visit activity event.
type Type string

const (
	TypeVisitCreated Type = "visit_created"
	TypeVisitUpdated Type = "visit_updated"
	TypeVisitDeleted Type = "visit_deleted"
)

// Event is one visit activity record. IDs are plain strings so consumers
// outside this codebase can decode the payload without our types.
type Event struct {
	Type        Type      `json:"type"`
	VisitID     string    `json:"visit_id"`
	OwnerID     string    `json:"owner_id"`
	LocationKey string    `json:"location_key,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
	RequestID   string    `json:"request_id,omitempty"`
}
