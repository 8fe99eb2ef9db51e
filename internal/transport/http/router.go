// Package httptransport composes the HTTP surface: the shared middleware
// chain, the public health and metrics endpoints, the authenticated API and
// the admin plane. It owns no business logic; handlers register their own
// routes.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"trailmark/internal/platform/metrics"
	rankhandler "trailmark/internal/rankings/handler"
	"trailmark/internal/ratelimit"
	vhandler "trailmark/internal/visits/handler"
	"trailmark/pkg/platform/httputil"
	"trailmark/pkg/platform/middleware/admin"
	"trailmark/pkg/platform/middleware/auth"
	"trailmark/pkg/platform/middleware/logging"
	"trailmark/pkg/platform/middleware/metadata"
	"trailmark/pkg/platform/middleware/request"
	"trailmark/pkg/platform/middleware/requesttime"
)

const (
	requestTimeout = 30 * time.Second
	healthTimeout  = 5 * time.Second
)

// HealthCheck probes one downstream dependency for the health endpoint.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// Deps carries the wired handlers and cross-cutting pieces the router
// composes. Metrics and Limiter may be nil to disable instrumentation and
// rate limiting.
type Deps struct {
	Logger     *slog.Logger
	Metrics    *metrics.Metrics
	Tokens     auth.TokenValidator
	AdminToken string
	Limiter    *ratelimit.Limiter
	Visits     *vhandler.Handler
	Rankings   *rankhandler.Handler
	Checks     []HealthCheck
}

// New assembles the application router.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(request.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(logging.Recovery(deps.Logger))
	r.Use(logging.AccessLog(deps.Logger))
	r.Use(deps.Metrics.Instrument)
	r.Use(chimiddleware.Timeout(requestTimeout))

	r.Get("/health", healthHandler(deps.Checks))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(deps.Tokens, deps.Logger))
		r.Use(ratelimit.Middleware(deps.Limiter, deps.Logger))
		deps.Visits.Register(r)
		deps.Rankings.Register(r)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(admin.RequireAdminToken(deps.AdminToken, deps.Logger))
		deps.Rankings.RegisterAdmin(r)
	})

	return r
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// healthHandler reports 200 when every dependency answers and 503 otherwise,
// with a per-dependency verdict in the body.
func healthHandler(checks []HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		resp := healthResponse{Status: "ok"}
		status := http.StatusOK
		if len(checks) > 0 {
			resp.Checks = make(map[string]string, len(checks))
		}
		for _, check := range checks {
			if err := check.Check(ctx); err != nil {
				resp.Checks[check.Name] = err.Error()
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[check.Name] = "ok"
		}

		httputil.WriteJSON(w, status, resp)
	}
}
