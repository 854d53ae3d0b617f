package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/backoffice-api/api/routes"
	"github.com/angelmondragon/backoffice-api/internal/adminusers"
	"github.com/angelmondragon/backoffice-api/internal/auth"
	"github.com/angelmondragon/backoffice-api/internal/categories"
	"github.com/angelmondragon/backoffice-api/internal/customers"
	"github.com/angelmondragon/backoffice-api/internal/inventory"
	"github.com/angelmondragon/backoffice-api/internal/media"
	"github.com/angelmondragon/backoffice-api/internal/options"
	"github.com/angelmondragon/backoffice-api/internal/orders"
	"github.com/angelmondragon/backoffice-api/internal/products"
	"github.com/angelmondragon/backoffice-api/internal/shipments"
	"github.com/angelmondragon/backoffice-api/internal/system"
	"github.com/angelmondragon/backoffice-api/pkg/config"
	"github.com/angelmondragon/backoffice-api/pkg/db"
	"github.com/angelmondragon/backoffice-api/pkg/instance"
	"github.com/angelmondragon/backoffice-api/pkg/logger"
	"github.com/angelmondragon/backoffice-api/pkg/metrics"
	"github.com/angelmondragon/backoffice-api/pkg/migrate"
	"github.com/angelmondragon/backoffice-api/pkg/redis"
	"github.com/angelmondragon/backoffice-api/pkg/storage/gcs"
)

const shutdownTimeout = 15 * time.Second

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
		Format:      cfg.App.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var closers []func() error
	defer func() {
		var errs error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = multierr.Append(errs, closers[i]())
		}
		if errs != nil {
			logg.Error(context.Background(), "error releasing resources", errs)
		}
	}()

	dbClient, err := db.New(ctx, cfg.DB, db.Options{UseSQLite: cfg.FeatureFlags.UseSQLite}, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	closers = append(closers, dbClient.Close)

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	var redisStore routes.RedisStore
	var redisPinger system.Pinger
	if cfg.Redis.Enabled() {
		redisClient, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			os.Exit(1)
		}
		closers = append(closers, redisClient.Close)
		redisStore, redisPinger = redisClient, redisClient
	} else {
		logg.Warn(ctx, "redis not configured; login throttling and idempotency disabled")
	}

	var blobs *gcs.Client
	if cfg.Storage.Enabled() {
		blobs, err = gcs.NewClient(ctx, cfg.Storage, cfg.GCP, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap object storage", err)
			os.Exit(1)
		}
		closers = append(closers, blobs.Close)
	} else {
		logg.Warn(ctx, "object storage not configured; media routes disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	httpMetrics := metrics.NewHTTPMetrics(registry)

	gormDB := dbClient.DB()
	adminRepo := adminusers.NewRepository(gormDB)
	customerRepo := customers.NewRepository(gormDB)

	deps := routes.Dependencies{
		Config:   cfg,
		Logger:   logg,
		Database: dbClient,
		Redis:    redisStore,
		Metrics:  httpMetrics,
		Gatherer: registry,
	}

	deps.Auth = mustBuild[auth.Service](ctx, logg, "auth")(auth.NewService(auth.ServiceParams{
		Admins:    adminRepo,
		Customers: customerRepo,
		JWTConfig: cfg.JWT,
		Logger:    logg,
	}))
	deps.AdminUsers = mustBuild[adminusers.Service](ctx, logg, "admin users")(adminusers.NewService(adminRepo, cfg.Password))
	deps.Customers = mustBuild[customers.Service](ctx, logg, "customers")(customers.NewService(customerRepo, cfg.Password))
	deps.Products = mustBuild[products.Service](ctx, logg, "products")(products.NewService(products.NewRepository(gormDB)))
	deps.Options = mustBuild[options.Service](ctx, logg, "options")(options.NewService(options.NewRepository(gormDB)))
	deps.Orders = mustBuild[orders.Service](ctx, logg, "orders")(orders.NewService(orders.NewRepository(gormDB)))
	deps.Shipments = mustBuild[shipments.Service](ctx, logg, "shipments")(shipments.NewService(shipments.NewRepository(gormDB)))
	deps.Inventory = mustBuild[inventory.Service](ctx, logg, "inventory")(inventory.NewService(inventory.NewRepository(gormDB)))
	deps.System = mustBuild[system.Service](ctx, logg, "system")(system.NewService(system.ServiceParams{
		Repo:     system.NewRepository(gormDB),
		Database: dbClient,
		Dialect:  dbClient.Dialect(),
		Redis:    redisPinger,
		Logger:   logg,
	}))

	var categoryBlobs categories.BlobStore
	if blobs != nil {
		categoryBlobs = blobs
		deps.Media = mustBuild[media.Service](ctx, logg, "media")(media.NewService(media.ServiceParams{
			Blobs:          blobs,
			Owners:         media.NewOwnerRepository(gormDB),
			Metrics:        httpMetrics,
			MaxUploadBytes: cfg.Media.MaxUploadBytes,
			Logger:         logg,
		}))
	}
	deps.Categories = mustBuild[categories.Service](ctx, logg, "categories")(categories.NewService(categories.NewRepository(gormDB), categoryBlobs, logg))

	addr := ":" + cfg.App.Port
	serverCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"dialect":  dbClient.Dialect(),
		"instance": instance.ID(),
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(serverCtx, "starting api server")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(serverCtx, "api server stopped unexpectedly", err)
		}
	case <-ctx.Done():
		logg.Info(serverCtx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(serverCtx, "graceful shutdown failed", err)
		}
	}
}

// mustBuild exits when a service constructor fails.
func mustBuild[T any](ctx context.Context, logg *logger.Logger, name string) func(T, error) T {
	return func(svc T, err error) T {
		if err != nil {
			logg.Error(ctx, "failed to create "+name+" service", err)
			os.Exit(1)
		}
		return svc
	}
}
