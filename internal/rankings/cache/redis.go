// Package cache stores fully ranked leaderboards, one entry per board kind.
// Entries expire on a short TTL and are dropped explicitly whenever the
// underlying ledger changes.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"trailmark/internal/rankings/models"
	"trailmark/pkg/platform/sentinel"
)

const (
	userBoardKey     = "leaderboard:users"
	locationBoardKey = "leaderboard:locations"
)

// DefaultTTL bounds how long a cached board can outlive the aggregates it was
// ranked from if an explicit drop is missed.
const DefaultTTL = 30 * time.Second

// RedisBoards is the Redis-backed board cache for distributed deployments,
// where every instance must serve the same ranking view.
type RedisBoards struct {
	client *redis.Client
	ttl    time.Duration
}

// RedisOption configures a RedisBoards instance.
type RedisOption func(*RedisBoards)

// WithTTL overrides the default board TTL.
func WithTTL(ttl time.Duration) RedisOption {
	return func(c *RedisBoards) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// NewRedisBoards constructs a Redis-backed board cache.
func NewRedisBoards(client *redis.Client, opts ...RedisOption) *RedisBoards {
	boards := &RedisBoards{
		client: client,
		ttl:    DefaultTTL,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(boards)
		}
	}
	return boards
}

// GetUserBoard returns the cached user board. Returns sentinel.ErrNotFound
// when no board is cached.
func (c *RedisBoards) GetUserBoard(ctx context.Context) ([]models.RankedUser, error) {
	data, err := c.client.Get(ctx, userBoardKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var board []models.RankedUser
	if err := json.Unmarshal(data, &board); err != nil {
		return nil, err
	}
	return board, nil
}

// SetUserBoard caches the full user board with the configured TTL.
func (c *RedisBoards) SetUserBoard(ctx context.Context, board []models.RankedUser) error {
	data, err := json.Marshal(board)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, userBoardKey, data, c.ttl).Err()
}

// GetLocationBoard returns the cached location board. Returns
// sentinel.ErrNotFound when no board is cached.
func (c *RedisBoards) GetLocationBoard(ctx context.Context) ([]models.RankedLocation, error) {
	data, err := c.client.Get(ctx, locationBoardKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var board []models.RankedLocation
	if err := json.Unmarshal(data, &board); err != nil {
		return nil, err
	}
	return board, nil
}

// SetLocationBoard caches the full location board with the configured TTL.
func (c *RedisBoards) SetLocationBoard(ctx context.Context, board []models.RankedLocation) error {
	data, err := json.Marshal(board)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, locationBoardKey, data, c.ttl).Err()
}

// Drop removes both boards.
func (c *RedisBoards) Drop(ctx context.Context) error {
	return c.client.Del(ctx, userBoardKey, locationBoardKey).Err()
}
