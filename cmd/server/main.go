package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trailmark/internal/authz"
	"trailmark/internal/identity"
	"trailmark/internal/platform/config"
	"trailmark/internal/platform/httpserver"
	"trailmark/internal/platform/kafka"
	"trailmark/internal/platform/logger"
	"trailmark/internal/platform/metrics"
	"trailmark/internal/platform/postgres"
	"trailmark/internal/platform/redis"
	"trailmark/internal/rankings/cache"
	rankhandler "trailmark/internal/rankings/handler"
	rankmetrics "trailmark/internal/rankings/metrics"
	rankservice "trailmark/internal/rankings/service"
	"trailmark/internal/ratelimit"
	httptransport "trailmark/internal/transport/http"
	"trailmark/internal/visits/events"
	vhandler "trailmark/internal/visits/handler"
	visitmetrics "trailmark/internal/visits/metrics"
	vservice "trailmark/internal/visits/service"
	"trailmark/internal/visits/store"
)

const shutdownTimeout = 10 * time.Second

// visitStore is what main needs from a store backend: the ledger operations
// for the visit service plus the full scan the rankings service aggregates
// from. Both the Postgres and the in-memory store satisfy it.
type visitStore interface {
	vservice.VisitStore
	rankservice.VisitSource
}

// main wires configuration, storage, the domain services and the HTTP
// surface, then runs until a shutdown signal. Business logic lives in the
// internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		visits visitStore
		checks []httptransport.HealthCheck
	)
	if cfg.PostgresURL != "" {
		db, err := postgres.Open(ctx, cfg.PostgresURL)
		if err != nil {
			fatal(log, "postgres connection failed", err)
		}
		defer db.Close()
		if err := store.EnsureSchema(ctx, db); err != nil {
			fatal(log, "schema migration failed", err)
		}
		visits = store.NewPostgres(db)
		checks = append(checks, httptransport.HealthCheck{Name: "postgres", Check: db.PingContext})
		log.Info("visit store ready", "backend", "postgres")
	} else {
		visits = store.NewInMemory()
		log.Warn("POSTGRES_URL not set, visits are stored in memory and lost on restart")
	}

	rankingsOpts := []rankservice.Option{
		rankservice.WithLogger(log),
		rankservice.WithMetrics(rankmetrics.New()),
	}
	redisClient, err := redis.New(cfg.Redis)
	if err != nil {
		fatal(log, "redis connection failed", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
		rankingsOpts = append(rankingsOpts, rankservice.WithCache(
			cache.NewRedisBoards(redisClient.Client, cache.WithTTL(cfg.LeaderboardCacheTTL))))
		checks = append(checks, httptransport.HealthCheck{Name: "redis", Check: redisClient.Health})
		log.Info("leaderboard cache ready", "backend", "redis", "ttl", cfg.LeaderboardCacheTTL)
	} else {
		rankingsOpts = append(rankingsOpts, rankservice.WithCache(
			cache.NewMemoryBoards(cache.WithMemoryTTL(cfg.LeaderboardCacheTTL))))
		log.Info("leaderboard cache ready", "backend", "memory", "ttl", cfg.LeaderboardCacheTTL)
	}

	rankingsSvc, err := rankservice.New(visits, rankingsOpts...)
	if err != nil {
		fatal(log, "rankings service init failed", err)
	}

	visitOpts := []vservice.Option{
		vservice.WithLogger(log),
		vservice.WithMetrics(visitmetrics.New()),
		vservice.WithInvalidator(rankingsSvc),
	}

	kafkaClient, err := kafka.New(ctx, cfg.Kafka)
	if err != nil {
		fatal(log, "kafka connection failed", err)
	}
	var dispatcher *events.Dispatcher
	if kafkaClient != nil {
		defer kafkaClient.Close()
		if err := kafkaClient.EnsureTopic(ctx, cfg.Kafka.Topic); err != nil {
			fatal(log, "kafka topic bootstrap failed", err)
		}
		dispatcher = events.NewDispatcher(
			events.NewKafkaSink(kafkaClient.Client, cfg.Kafka.Topic),
			events.WithLogger(log),
		)
		visitOpts = append(visitOpts, vservice.WithDispatcher(dispatcher))
		log.Info("activity stream ready", "topic", cfg.Kafka.Topic)
	}

	visitSvc, err := vservice.New(visits, authz.New(authz.WithLogger(log)), visitOpts...)
	if err != nil {
		fatal(log, "visit service init failed", err)
	}

	limiter := ratelimit.New(cfg.RateLimit, cfg.RateLimitWindow)
	if limiter != nil {
		log.Info("rate limiting enabled", "limit", cfg.RateLimit, "window", cfg.RateLimitWindow)
	}

	router := httptransport.New(httptransport.Deps{
		Logger:     log,
		Metrics:    metrics.New(),
		Tokens:     identity.NewVerifier(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience),
		AdminToken: cfg.AdminToken,
		Limiter:    limiter,
		Visits:     vhandler.New(visitSvc, log),
		Rankings:   rankhandler.New(rankingsSvc, log),
		Checks:     checks,
	})

	srv := httpserver.New(cfg.Addr, router)

	// Safety net behind event-driven invalidation: rebuild aggregates on a
	// timer so drift from out-of-band writes cannot persist.
	go func() {
		ticker := time.NewTicker(cfg.ReconcileInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := rankingsSvc.Rebuild(ctx); err != nil {
					log.Error("aggregate reconcile failed", "error", err)
				}
			}
		}
	}()

	go func() {
		log.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}

	// After the server stops no handler can enqueue, so Close drains every
	// buffered event before the Kafka client goes away.
	if dispatcher != nil {
		dispatcher.Close()
	}

	log.Info("server stopped")
}

func fatal(log *slog.Logger, msg string, err error) {
	log.Error(msg, "error", err)
	os.Exit(1)
}
