package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"growthcore_backend/internal/conversations"
	"growthcore_backend/internal/conversations/analytics"
	"growthcore_backend/internal/events"
	"growthcore_backend/internal/experiments"
	expdomain "growthcore_backend/internal/experiments/domain"
	apphttp "growthcore_backend/internal/http"
	"growthcore_backend/internal/http/router"
	"growthcore_backend/internal/leads"
	leadshandler "growthcore_backend/internal/leads/handler"
	"growthcore_backend/internal/pricing"
	pricingdomain "growthcore_backend/internal/pricing/domain"
	"growthcore_backend/internal/revenue"
	"growthcore_backend/internal/scheduler"
	"growthcore_backend/platform/config"
	"growthcore_backend/platform/db"
	"growthcore_backend/platform/logger"
	"growthcore_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// Static decision registries: experiment definitions and the price book.
	experimentRegistry, err := expdomain.LoadRegistry(cfg.GetExperimentsFile())
	if err != nil {
		log.Error("failed to load experiment registry", "error", err)
		panic("failed to load experiment registry: " + err.Error())
	}

	catalog, err := pricingdomain.LoadCatalog(cfg.GetPricingCatalogFile())
	if err != nil {
		log.Error("failed to load pricing catalog", "error", err)
		panic("failed to load pricing catalog: " + err.Error())
	}

	locks := initRedisLocks(cfg, log)
	if locks != nil {
		defer func() { _ = locks.Close() }()
	}

	schedClient, closeScheduler := initSchedulerClient(cfg, log)
	if closeScheduler != nil {
		defer closeScheduler()
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	var batchEnqueuer leadshandler.BatchEnqueuer
	if schedClient != nil {
		batchEnqueuer = schedClient
	}

	experimentsModule := experiments.NewModule(pool, experimentRegistry, val, log)
	pricingModule := pricing.NewModule(pool, catalog, locks, cfg.NegotiationLockTTL, eventBus, val, log)
	leadsModule := leads.NewModule(pool, cfg.DefaultPhoneRegion, batchEnqueuer, eventBus, log)
	conversationsModule := conversations.NewModule(pool, analytics.Config{}, eventBus, log)
	revenueModule := revenue.NewModule(pool, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			experimentsModule,
			pricingModule,
			leadsModule,
			conversationsModule,
			revenueModule,
		},
	}

	engine := router.New(app)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// initRedisLocks connects the negotiation lock client. Without Redis the
// pricing module falls back to optimistic version checks alone.
func initRedisLocks(cfg *config.Config, log *logger.Logger) *redis.Client {
	if cfg.RedisURL == "" {
		log.Warn("REDIS_URL not configured; negotiation locks disabled")
		return nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Error("invalid REDIS_URL, negotiation locks disabled", "error", err)
		return nil
	}
	return redis.NewClient(opt)
}

func initSchedulerClient(cfg config.SchedulerConfig, log *logger.Logger) (*scheduler.Client, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; batch jobs run inline")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize scheduler client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
