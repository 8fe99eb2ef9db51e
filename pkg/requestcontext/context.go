// Package requestcontext carries request-scoped values between middleware
// and services without either side importing net/http. Middleware writes
// the caller identity, request id, and arrival time; services and stores
// only read.
package requestcontext

import (
	"context"
	"time"

	id "trailmark/pkg/domain"
)

type (
	userIDKey      struct{}
	adminKey       struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// UserID returns the authenticated user's id, or the zero id when the
// request was not authenticated.
func UserID(ctx context.Context) id.UserID {
	uid, _ := ctx.Value(userIDKey{}).(id.UserID)
	return uid
}

// WithUserID stores the authenticated user's id.
func WithUserID(ctx context.Context, userID id.UserID) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// Admin reports whether the caller carries the administrative capability.
func Admin(ctx context.Context) bool {
	admin, _ := ctx.Value(adminKey{}).(bool)
	return admin
}

// WithAdmin stores the administrative capability flag.
func WithAdmin(ctx context.Context, admin bool) context.Context {
	return context.WithValue(ctx, adminKey{}, admin)
}

// Caller assembles the caller identity from the context. The zero Identity
// means the request was not authenticated.
func Caller(ctx context.Context) id.Identity {
	return id.Identity{
		UserID: UserID(ctx),
		Admin:  Admin(ctx),
	}
}

// WithCaller stores a complete caller identity, mirroring what the auth
// middleware does. Intended for tests and workers.
func WithCaller(ctx context.Context, caller id.Identity) context.Context {
	return WithAdmin(WithUserID(ctx, caller.UserID), caller.Admin)
}

// RequestID returns the request id, or "" outside a request.
func RequestID(ctx context.Context) string {
	rid, _ := ctx.Value(requestIDKey{}).(string)
	return rid
}

// WithRequestID stores the request id.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// Now returns the request's pinned time, falling back to time.Now outside
// a request (workers, tests).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime pins the time a context reports through Now.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, t)
}
