package models

// VisitStatus represents the lifecycle state of a visit record.
type VisitStatus string

const (
	VisitStatusActive  VisitStatus = "active"
	VisitStatusDeleted VisitStatus = "deleted"
)

// CanTransitionTo reports whether the transition is allowed.
// Active records may stay active (field updates) or become deleted.
// Deleted is terminal: no transition leaves it.
func (s VisitStatus) CanTransitionTo(target VisitStatus) bool {
	switch s {
	case VisitStatusActive:
		return target == VisitStatusActive || target == VisitStatusDeleted
	default:
		return false
	}
}

// IsValid checks the status is one of the supported values.
func (s VisitStatus) IsValid() bool {
	return s == VisitStatusActive || s == VisitStatusDeleted
}
