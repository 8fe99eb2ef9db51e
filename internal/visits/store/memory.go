package store

import (
	"context"
	"fmt"
	"sync"

	"trailmark/internal/visits/models"
	id "trailmark/pkg/domain"
	"trailmark/pkg/platform/sentinel"
)

// InMemory keeps visits in process memory. Intended for tests and local
// development. Deleted visits stay in the map as tombstones so visit IDs
// cannot be reused, but every read path skips them.
type InMemory struct {
	mu     sync.RWMutex
	visits map[id.VisitID]*models.Visit
}

// NewInMemory creates an empty in-memory visit store.
func NewInMemory() *InMemory {
	return &InMemory{
		visits: make(map[id.VisitID]*models.Visit),
	}
}

// Create stores a new visit. Returns ErrConflict if the ID is already taken,
// including by a deleted visit.
func (s *InMemory) Create(_ context.Context, visit *models.Visit) error {
	if visit == nil {
		return fmt.Errorf("visit is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.visits[visit.ID]; exists {
		return sentinel.ErrConflict
	}
	s.visits[visit.ID] = visit.Clone()
	return nil
}

// FindByID returns the visit with the given ID. Returns ErrNotFound if it
// does not exist or has been deleted.
func (s *InMemory) FindByID(_ context.Context, visitID id.VisitID) (*models.Visit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	visit, ok := s.visits[visitID]
	if !ok || !visit.IsActive() {
		return nil, sentinel.ErrNotFound
	}
	return visit.Clone(), nil
}

// Execute atomically validates and mutates the visit with the given ID. The
// write lock is held across both callbacks, so concurrent Executes on the
// same visit serialize and each mutation sees the previous one's result.
// Returns ErrNotFound if the visit does not exist or has been deleted.
func (s *InMemory) Execute(
	_ context.Context,
	visitID id.VisitID,
	validate func(*models.Visit) error,
	mutate func(*models.Visit),
) (*models.Visit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.visits[visitID]
	if !ok || !stored.IsActive() {
		return nil, sentinel.ErrNotFound
	}

	working := stored.Clone()
	if err := validate(working); err != nil {
		return nil, err
	}
	mutate(working)

	s.visits[visitID] = working
	return working.Clone(), nil
}

// ListByOwner returns all active visits owned by ownerID, in no particular
// order.
func (s *InMemory) ListByOwner(_ context.Context, ownerID id.UserID) ([]*models.Visit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var visits []*models.Visit
	for _, visit := range s.visits {
		if visit.OwnerID == ownerID && visit.IsActive() {
			visits = append(visits, visit.Clone())
		}
	}
	return visits, nil
}

// ListActive returns every active visit in the store, in no particular
// order.
func (s *InMemory) ListActive(_ context.Context) ([]*models.Visit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	visits := make([]*models.Visit, 0, len(s.visits))
	for _, visit := range s.visits {
		if visit.IsActive() {
			visits = append(visits, visit.Clone())
		}
	}
	return visits, nil
}
