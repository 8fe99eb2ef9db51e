package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	pstrings "trailmark/pkg/platform/strings"
)

// Server captures process level configuration.
type Server struct {
	Addr          string
	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string
	AdminToken    string
	PostgresURL   string
	Redis         RedisConfig
	Kafka         KafkaConfig
	LogLevel      string

	// LeaderboardCacheTTL bounds how long a cached ranking may outlive a
	// missed invalidation (safety net, not the primary freshness mechanism).
	LeaderboardCacheTTL time.Duration

	// ReconcileInterval is how often the background loop forces a full
	// aggregate rebuild.
	ReconcileInterval time.Duration

	// RateLimit bounds API calls per caller per RateLimitWindow.
	// Zero disables enforcement.
	RateLimit       int
	RateLimitWindow time.Duration
}

// RedisConfig holds connection settings for the rankings cache.
// An empty URL disables Redis entirely.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig holds settings for the visit activity stream.
// An empty broker list disables publishing.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("TRAILMARK_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	adminToken := os.Getenv("ADMIN_TOKEN")
	if adminToken == "" {
		adminToken = "dev-admin-token-change-in-production"
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		brokers = pstrings.DedupeAndTrim(strings.Split(raw, ","))
	}

	return Server{
		Addr:          addr,
		JWTSigningKey: jwtSigningKey,
		JWTIssuer:     envOr("JWT_ISSUER", "trailmark-identity"),
		JWTAudience:   envOr("JWT_AUDIENCE", "trailmark"),
		AdminToken:    adminToken,
		PostgresURL:   os.Getenv("POSTGRES_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers: brokers,
			Topic:   envOr("KAFKA_TOPIC", "trailmark.visit-activity"),
		},
		LogLevel:            envOr("LOG_LEVEL", "info"),
		LeaderboardCacheTTL: envDuration("LEADERBOARD_CACHE_TTL", 5*time.Minute),
		ReconcileInterval:   envDuration("RECONCILE_INTERVAL", 10*time.Minute),
		RateLimit:           envInt("RATE_LIMIT", 120),
		RateLimitWindow:     envDuration("RATE_LIMIT_WINDOW", time.Minute),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
