// Package request assigns each HTTP request a correlation ID. The ID is
// honored from the incoming header when present so upstream proxies can
// stitch traces together, and echoed on the response.
package request

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"trailmark/pkg/requestcontext"
)

// HeaderRequestID propagates request IDs across service boundaries.
const HeaderRequestID = "X-Request-ID"

// Middleware attaches a request ID to the context and response.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, requestID)

		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	return requestcontext.RequestID(ctx)
}
