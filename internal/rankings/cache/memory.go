package cache

import (
	"context"
	"slices"
	"sync"
	"time"

	"trailmark/internal/rankings/models"
	"trailmark/pkg/platform/sentinel"
)

// MemoryBoards is the in-process board cache for single-instance deployments
// and tests. Same contract as RedisBoards, including the TTL.
type MemoryBoards struct {
	mu  sync.Mutex
	ttl time.Duration

	users           []models.RankedUser
	usersExpiry     time.Time
	locations       []models.RankedLocation
	locationsExpiry time.Time
}

// MemoryOption configures a MemoryBoards instance.
type MemoryOption func(*MemoryBoards)

// WithMemoryTTL overrides the default board TTL.
func WithMemoryTTL(ttl time.Duration) MemoryOption {
	return func(c *MemoryBoards) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// NewMemoryBoards constructs an in-memory board cache.
func NewMemoryBoards(opts ...MemoryOption) *MemoryBoards {
	boards := &MemoryBoards{
		ttl: DefaultTTL,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(boards)
		}
	}
	return boards
}

// GetUserBoard returns the cached user board. Returns sentinel.ErrNotFound
// when nothing is cached or the entry expired.
func (c *MemoryBoards) GetUserBoard(_ context.Context) ([]models.RankedUser, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.users == nil || time.Now().After(c.usersExpiry) {
		c.users = nil
		return nil, sentinel.ErrNotFound
	}
	return slices.Clone(c.users), nil
}

// SetUserBoard caches the full user board.
func (c *MemoryBoards) SetUserBoard(_ context.Context, board []models.RankedUser) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.users = slices.Clone(board)
	c.usersExpiry = time.Now().Add(c.ttl)
	return nil
}

// GetLocationBoard returns the cached location board. Returns
// sentinel.ErrNotFound when nothing is cached or the entry expired.
func (c *MemoryBoards) GetLocationBoard(_ context.Context) ([]models.RankedLocation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.locations == nil || time.Now().After(c.locationsExpiry) {
		c.locations = nil
		return nil, sentinel.ErrNotFound
	}
	return slices.Clone(c.locations), nil
}

// SetLocationBoard caches the full location board.
func (c *MemoryBoards) SetLocationBoard(_ context.Context, board []models.RankedLocation) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.locations = slices.Clone(board)
	c.locationsExpiry = time.Now().Add(c.ttl)
	return nil
}

// Drop removes both boards.
func (c *MemoryBoards) Drop(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.users = nil
	c.locations = nil
	return nil
}
