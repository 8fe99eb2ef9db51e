// Package authz is the single authorization chokepoint for visit data.
// Every operation that touches a visit, a history listing, or an aggregate
// asks the Gate before doing anything else; no handler or service reaches
// around it.
package authz

import (
	"context"
	"log/slog"

	"trailmark/internal/visits/models"
	id "trailmark/pkg/domain"
	dErrors "trailmark/pkg/domain-errors"
	"trailmark/pkg/platform/middleware/request"
	"trailmark/pkg/requestcontext"
)

// Action names an operation category subject to authorization.
type Action string

const (
	ActionCreate         Action = "create"
	ActionRead           Action = "read"
	ActionUpdate         Action = "update"
	ActionDelete         Action = "delete"
	ActionReadHistory    Action = "read_history"
	ActionReadAggregates Action = "read_aggregates"
)

// Gate decides whether the calling identity may act on owned resources.
type Gate struct {
	logger *slog.Logger
}

// Option configures a Gate.
type Option func(g *Gate)

// WithLogger attaches a logger for denial events.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gate) {
		g.logger = logger
	}
}

// New constructs a Gate.
func New(opts ...Option) *Gate {
	g := &Gate{}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Authorize checks whether the calling identity may perform action on the
// given visit.
func (g *Gate) Authorize(ctx context.Context, action Action, visit *models.Visit) error {
	if visit == nil {
		return dErrors.New(dErrors.CodeInternal, "authorization requires a visit")
	}
	return g.AuthorizeOwner(ctx, action, visit.OwnerID)
}

// AuthorizeOwner checks whether the calling identity may perform action on
// resources owned by ownerID. The rules, in order: an unauthenticated caller
// is rejected outright, admins may do anything, aggregate reads are open to
// any authenticated caller, and everything else is owner-only.
func (g *Gate) AuthorizeOwner(ctx context.Context, action Action, ownerID id.UserID) error {
	caller := requestcontext.Caller(ctx)
	if caller.IsZero() {
		return dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	if caller.Admin {
		return nil
	}
	if action == ActionReadAggregates {
		return nil
	}
	if caller.UserID == ownerID {
		return nil
	}

	g.logDenied(ctx, caller, action, ownerID)
	return dErrors.New(dErrors.CodeForbidden, "caller does not own this resource")
}

func (g *Gate) logDenied(ctx context.Context, caller id.Identity, action Action, ownerID id.UserID) {
	if g.logger == nil {
		return
	}
	g.logger.WarnContext(ctx, "authorization denied",
		"caller_id", caller.UserID.String(),
		"action", string(action),
		"owner_id", ownerID.String(),
		"request_id", request.GetRequestID(ctx),
	)
}
