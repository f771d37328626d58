package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	platformstrings "relomate/pkg/platform/strings"
)

// Config captures everything the server needs from the environment so main
// stays lean. Optional backends (postgres, redis, kafka) are enabled by
// setting their URL/broker variables; unset means the in-memory fallback.
type Config struct {
	Addr string

	PostgresURL string

	Redis RedisConfig

	KafkaBrokers    []string
	KafkaAuditTopic string

	JWTSigningKey string
	// AdminTokenHash is the bcrypt hash of the back-office token. Admin
	// routes are disabled when empty.
	AdminTokenHash string

	ShutdownTimeout time.Duration
}

// RedisConfig carries connection tuning for the state cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	cfg := Config{
		Addr:        envOr("RELOMATE_ADDR", ":8080"),
		PostgresURL: os.Getenv("RELOMATE_POSTGRES_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("RELOMATE_REDIS_URL"),
			PoolSize:     envInt("RELOMATE_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("RELOMATE_REDIS_MIN_IDLE", 2),
			DialTimeout:  envDuration("RELOMATE_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("RELOMATE_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("RELOMATE_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		KafkaAuditTopic: envOr("RELOMATE_KAFKA_AUDIT_TOPIC", "relomate.audit"),
		JWTSigningKey:   os.Getenv("RELOMATE_JWT_SIGNING_KEY"),
		AdminTokenHash:  os.Getenv("RELOMATE_ADMIN_TOKEN_HASH"),
		ShutdownTimeout: envDuration("RELOMATE_SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	if brokers := os.Getenv("RELOMATE_KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = platformstrings.DedupeAndTrim(strings.Split(brokers, ","))
	}

	if cfg.JWTSigningKey == "" {
		// Development fallback; must be overridden in production.
		cfg.JWTSigningKey = "dev-secret-key-change-in-production"
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
