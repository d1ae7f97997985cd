// Command server runs the LegacyLink API: profile signup, tenant
// registration, and the alumni verification workflow.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	accounthandler "legacylink/internal/account/handler"
	accountservice "legacylink/internal/account/service"
	"legacylink/internal/account/store"
	"legacylink/internal/audit"
	auditkafka "legacylink/internal/audit/kafka"
	"legacylink/internal/badge"
	jwttoken "legacylink/internal/jwt_token"
	"legacylink/internal/platform/config"
	"legacylink/internal/platform/httpserver"
	"legacylink/internal/platform/logger"
	platformmetrics "legacylink/internal/platform/metrics"
	"legacylink/internal/platform/postgres"
	"legacylink/internal/platform/redis"
	transporthttp "legacylink/internal/transport/http"
	"legacylink/internal/verification/cache"
	verificationhandler "legacylink/internal/verification/handler"
	verificationmetrics "legacylink/internal/verification/metrics"
	"legacylink/internal/verification/policy"
	verificationservice "legacylink/internal/verification/service"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		profiles     verificationservice.ProfileReader
		writer       verificationservice.Writer
		accountStore store.ProfileStore
		universities store.UniversityStore
		badges       badge.Store
		auditStore   audit.Store
		health       = map[string]transporthttp.HealthChecker{}
	)

	if cfg.DatabaseURL != "" {
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("failed to connect to postgres", "error", err)
			return err
		}
		defer pool.Close()

		privilegedURL := cfg.PrivilegedDatabaseURL
		if privilegedURL == "" {
			privilegedURL = cfg.DatabaseURL
		}
		privileged, err := postgres.NewPool(ctx, privilegedURL)
		if err != nil {
			log.Error("failed to connect to privileged postgres", "error", err)
			return err
		}
		defer privileged.Close()

		profileStore := store.NewPostgresProfileStore(pool)
		profiles = profileStore
		accountStore = profileStore
		writer = store.NewPostgresVerificationWriter(privileged)
		universities = store.NewPostgresUniversityStore(pool)
		badges = badge.NewPostgresStore(pool)
		auditStore = audit.NewPostgresStore(pool)
		health["postgres"] = poolHealth{pool}
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
		memory := store.NewInMemoryProfileStore()
		profiles = memory
		accountStore = memory
		writer = memory
		universities = store.NewInMemoryUniversityStore()
		badges = badge.NewInMemoryStore()
		auditStore = audit.NewInMemoryStore()
	}

	auditPublisher := audit.NewPublisher(auditStore, audit.WithAsyncBuffer(256))
	defer auditPublisher.Close()
	auditSink := audit.Emitter(auditPublisher)

	group, ctx := errgroup.WithContext(ctx)

	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher, err := auditkafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, log)
		if err != nil {
			log.Error("failed to connect to kafka", "error", err)
			return err
		}
		group.Go(func() error { return kafkaPublisher.Run(ctx) })
		auditSink = audit.Fanout(auditPublisher, kafkaPublisher)
	}

	var pendingCache *cache.PendingQueue
	redisClient, err := redis.New(ctx, cfg.RedisURL)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		pendingCache = cache.New(redisClient.Client, cfg.PendingCacheTTL, log)
		health["redis"] = redisClient
	}

	httpMetrics := platformmetrics.New()
	jwtValidator := jwttoken.NewValidator(cfg.JWTSigningKey)

	accountSvc := accountservice.New(accountStore, universities,
		accountservice.WithLogger(log),
		accountservice.WithAuditEmitter(auditSink),
		accountservice.WithMetrics(httpMetrics),
	)

	verificationSvc := verificationservice.New(
		profiles,
		writer,
		policy.New(policy.DefaultConfig()),
		verificationservice.Config{
			DeleteOnReject: cfg.Verification.DeleteOnReject,
			BadgeDedupe:    cfg.Verification.BadgeDedupe,
		},
		verificationservice.WithLogger(log),
		verificationservice.WithBadgeStore(badges),
		verificationservice.WithAuditEmitter(auditSink),
		verificationservice.WithPendingCache(pendingCache),
		verificationservice.WithMetrics(verificationmetrics.New()),
	)

	router := transporthttp.NewRouter(transporthttp.RouterConfig{
		Logger:       log,
		Metrics:      httpMetrics,
		Account:      accounthandler.New(accountSvc, jwtValidator, log),
		Verification: verificationhandler.New(verificationSvc, jwtValidator, log),
		Dependencies: health,
	})

	server := httpserver.New(cfg.Addr, router)

	group.Go(func() error {
		log.Info("server listening", "addr", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error("server exited", "error", err)
		return err
	}
	log.Info("server stopped")
	return nil
}

type poolHealth struct {
	pool interface {
		Ping(ctx context.Context) error
	}
}

func (p poolHealth) Health(ctx context.Context) error { return p.pool.Ping(ctx) }
