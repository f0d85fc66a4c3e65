package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/tgcretail/pos-backend/api/routes"
	"github.com/tgcretail/pos-backend/internal/audit"
	"github.com/tgcretail/pos-backend/internal/cart"
	"github.com/tgcretail/pos-backend/internal/catalog"
	"github.com/tgcretail/pos-backend/internal/ledger"
	"github.com/tgcretail/pos-backend/internal/lifecycle"
	"github.com/tgcretail/pos-backend/internal/reports"
	"github.com/tgcretail/pos-backend/internal/staff"
	"github.com/tgcretail/pos-backend/pkg/config"
	"github.com/tgcretail/pos-backend/pkg/db"
	"github.com/tgcretail/pos-backend/pkg/logger"
	"github.com/tgcretail/pos-backend/pkg/metrics"
	"github.com/tgcretail/pos-backend/pkg/migrate"
	"github.com/tgcretail/pos-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := runMigrations(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to migrate schema", err)
		os.Exit(1)
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	lifecycleMetrics := metrics.NewLifecycleMetrics(registry)

	catalogRepo := catalog.NewRepository(dbClient.DB())
	ledgerRepo := ledger.NewRepository(dbClient.DB())
	auditRepo := audit.NewRepository(dbClient.DB())
	staffRepo := staff.NewRepository(dbClient.DB())

	catalogService := catalog.NewService(catalogRepo, dbClient, logg)
	staffService := staff.NewService(staffRepo, logg)

	if cfg.FeatureFlags.SeedStaff {
		if _, err := staffService.Seed(context.Background()); err != nil {
			logg.Error(context.Background(), "failed to seed staff", err)
			os.Exit(1)
		}
	}

	var cartStore cart.Store
	if redisClient != nil {
		cartStore = cart.NewRedisStore(redisClient, cfg.Cart.SessionTTL)
	} else {
		cartStore = cart.NewMemoryStore(cfg.Cart.SessionTTL)
	}
	cartService := cart.NewService(cartStore, catalogService, logg)

	ledgerService := ledger.NewService(ledgerRepo, logg)
	auditService := audit.NewService(auditRepo, logg)
	engine := lifecycle.NewEngine(dbClient, cartService, catalogRepo, ledgerRepo, auditRepo, lifecycleMetrics, logg)
	reportService := reports.NewService(auditRepo, ledgerRepo, catalogService, logg, time.Local)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":    cfg.App.Env,
		"addr":   addr,
		"driver": cfg.DB.Driver,
	})
	logg.Info(ctx, "starting api server")

	deps := routes.Deps{
		Config:    cfg,
		Logger:    logg,
		DB:        dbClient,
		Registry:  registry,
		Catalog:   catalogService,
		Cart:      cartService,
		Ledger:    ledgerService,
		Audit:     auditService,
		Lifecycle: engine,
		Reports:   reportService,
		Staff:     staffService,
	}
	if redisClient != nil {
		deps.Redis = redisClient
	}

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(deps),
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	var closeErr error
	closeErr = multierr.Append(closeErr, server.Shutdown(shutdownCtx))
	if redisClient != nil {
		closeErr = multierr.Append(closeErr, redisClient.Close())
	}
	closeErr = multierr.Append(closeErr, dbClient.Close())
	if closeErr != nil {
		logg.Error(ctx, "shutdown finished with errors", closeErr)
		os.Exit(1)
	}
	logg.Info(ctx, "shutdown complete")
}

// runMigrations picks the migration strategy for the configured driver:
// gorm auto-migration for the embedded sqlite file, versioned goose
// migrations for postgres.
func runMigrations(ctx context.Context, cfg *config.Config, logg *logger.Logger, dbClient *db.Client) error {
	if !cfg.FeatureFlags.AutoMigrate {
		return nil
	}
	if cfg.DB.Driver == config.DBDriverPostgres {
		sqlDB, err := dbClient.DB().DB()
		if err != nil {
			return err
		}
		return migrate.Run(ctx, sqlDB, migrate.DefaultDir, "up")
	}
	return dbClient.AutoMigrate(ctx, logg)
}
