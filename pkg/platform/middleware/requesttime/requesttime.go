// Package requesttime pins a single "now" to each request. Every timestamp
// taken while serving one request (audit lines, event stamps, defaulted
// visit dates) reads the same instant via requestcontext.Now.
package requesttime

import (
	"net/http"
	"time"

	"trailmark/pkg/requestcontext"
)

// Middleware stores the arrival time in the request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
