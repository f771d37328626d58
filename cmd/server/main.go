package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	httpapi "relomate/internal/http"
	"relomate/internal/jwttoken"
	"relomate/internal/onboarding/handler"
	onbmetrics "relomate/internal/onboarding/metrics"
	onbservice "relomate/internal/onboarding/service"
	onbstore "relomate/internal/onboarding/store"
	"relomate/internal/platform/config"
	"relomate/internal/platform/httpserver"
	"relomate/internal/platform/logger"
	"relomate/internal/platform/postgres"
	"relomate/internal/platform/redis"
	"relomate/internal/pricing"
	pricinghandler "relomate/internal/pricing/handler"
	"relomate/pkg/platform/audit/publisher"
	auditkafka "relomate/pkg/platform/audit/sink/kafka"
	auditmem "relomate/pkg/platform/audit/store/memory"
)

// main wires configuration, storage, audit, and the HTTP surface together.
// Business rules live in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.PostgresURL)
	if err != nil {
		fatal(log, "postgres connection failed", err)
	}
	if db != nil {
		defer db.Close()
	}

	rdb, err := redis.New(cfg.Redis)
	if err != nil {
		fatal(log, "redis connection failed", err)
	}
	if rdb != nil {
		defer rdb.Close()
	}

	stateStore, err := buildStateStore(ctx, log, db, rdb)
	if err != nil {
		fatal(log, "onboarding store setup failed", err)
	}

	priceStore, pool, err := buildPriceStore(ctx, cfg.PostgresURL)
	if err != nil {
		fatal(log, "pricing store setup failed", err)
	}
	if pool != nil {
		defer pool.Close()
	}

	pubOpts := []publisher.Option{publisher.WithLogger(log)}
	if len(cfg.KafkaBrokers) > 0 {
		sink, err := auditkafka.New(ctx, cfg.KafkaBrokers, cfg.KafkaAuditTopic)
		if err != nil {
			fatal(log, "kafka audit sink setup failed", err)
		}
		defer sink.Close()
		pubOpts = append(pubOpts, publisher.WithSink(sink), publisher.WithAsyncBuffer(256))
	}
	auditPublisher := publisher.NewPublisher(auditmem.NewInMemoryStore(), pubOpts...)
	defer auditPublisher.Close()

	tokens := jwttoken.New(cfg.JWTSigningKey, "relomate")

	onboardingService := onbservice.New(stateStore,
		onbservice.WithLogger(log),
		onbservice.WithAuditPublisher(auditPublisher),
		onbservice.WithMetrics(onbmetrics.New()),
	)
	pricingService := pricing.New(priceStore,
		pricing.WithLogger(log),
		pricing.WithAuditPublisher(auditPublisher),
	)

	var health []httpapi.HealthCheck
	if db != nil {
		health = append(health, httpapi.HealthCheck{Name: "postgres", Check: db.PingContext})
	}
	if rdb != nil {
		health = append(health, httpapi.HealthCheck{Name: "redis", Check: rdb.Health})
	}

	router := httpapi.NewRouter(httpapi.Deps{
		Logger:          log,
		TokenValidator:  tokens,
		AdminTokenHash:  cfg.AdminTokenHash,
		Onboarding:      handler.New(onboardingService, log),
		OnboardingAdmin: handler.NewAdmin(onboardingService, log),
		Pricing:         pricinghandler.New(pricingService, log),
		HealthChecks:    health,
	})

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting relomate server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		fatal(log, "server stopped with error", err)
	}
	log.Info("server stopped")
}

// buildStateStore picks the onboarding state backend. Postgres when
// configured, fronted by a redis read-through cache when both are
// available; redis alone as a TTL-bound store; in-memory otherwise.
func buildStateStore(ctx context.Context, log *slog.Logger, db *sql.DB, rdb *redis.Client) (onbservice.Store, error) {
	var cache *onbstore.RedisStore
	if rdb != nil {
		cache = onbstore.NewRedisStore(rdb.Client)
	}

	if db != nil {
		pg := onbstore.NewPostgresStore(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		if cache != nil {
			log.Info("onboarding state store: postgres with redis cache")
			return onbstore.NewCachedStore(pg, cache), nil
		}
		log.Info("onboarding state store: postgres")
		return pg, nil
	}

	if cache != nil {
		log.Info("onboarding state store: redis")
		return cache, nil
	}

	log.Warn("onboarding state store: in-memory, state is lost on restart")
	return onbstore.NewInMemoryStore(), nil
}

// buildPriceStore returns the pricing override backend and, when postgres
// is configured, the pgx pool that must be closed on shutdown.
func buildPriceStore(ctx context.Context, postgresURL string) (pricing.Store, *pgxpool.Pool, error) {
	if postgresURL == "" {
		return pricing.NewInMemoryStore(), nil, nil
	}
	pool, err := pgxpool.New(ctx, postgresURL)
	if err != nil {
		return nil, nil, err
	}
	pg := pricing.NewPostgresStore(pool)
	if err := pg.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return pg, pool, nil
}

func fatal(log *slog.Logger, msg string, err error) {
	log.Error(msg, "error", err)
	os.Exit(1)
}
