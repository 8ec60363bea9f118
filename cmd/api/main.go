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
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"

	"github.com/invenpos/invenpos-backend/api/routes"
	"github.com/invenpos/invenpos-backend/internal/auth"
	"github.com/invenpos/invenpos-backend/internal/cart"
	"github.com/invenpos/invenpos-backend/internal/catalog"
	"github.com/invenpos/invenpos-backend/internal/checkout"
	"github.com/invenpos/invenpos-backend/internal/pos"
	"github.com/invenpos/invenpos-backend/internal/receipts"
	"github.com/invenpos/invenpos-backend/internal/users"
	"github.com/invenpos/invenpos-backend/pkg/auth/session"
	"github.com/invenpos/invenpos-backend/pkg/config"
	"github.com/invenpos/invenpos-backend/pkg/db"
	"github.com/invenpos/invenpos-backend/pkg/logger"
	"github.com/invenpos/invenpos-backend/pkg/metrics"
	"github.com/invenpos/invenpos-backend/pkg/migrate"
	"github.com/invenpos/invenpos-backend/pkg/redis"
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
		Console:     cfg.App.ConsoleLogs(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)

	if err := migrate.MaybeAutoRun(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run startup migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	requireResource(ctx, logg, "redis", err)

	userRepo := users.NewRepository(dbClient.DB())
	if err := users.SeedDemoUsers(ctx, userRepo, cfg.Seed, cfg.Password, logg); err != nil {
		logg.Error(ctx, "failed to seed demo users", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	posMetrics := metrics.NewPOSMetrics(registry)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	requireResource(ctx, logg, "session manager", err)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		Logger:         logg,
		Metrics:        posMetrics,
	})
	requireResource(ctx, logg, "auth service", err)

	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()))
	requireResource(ctx, logg, "catalog service", err)

	receiptLocation, err := cfg.Receipt.Location()
	requireResource(ctx, logg, "receipt timezone", err)
	receiptService, err := receipts.NewService(receipts.ServiceParams{
		Cache:       redisClient,
		Business:    receipts.BusinessFromConfig(cfg.Receipt),
		TTL:         cfg.Receipt.CacheTTL,
		RecentLimit: cfg.Receipt.RecentLimit,
		Location:    receiptLocation,
		Logger:      logg,
	})
	requireResource(ctx, logg, "receipt service", err)

	register := cart.New()
	posService, err := pos.NewService(pos.ServiceParams{
		Cart:     register,
		Products: catalogService,
		Logger:   logg,
		Metrics:  posMetrics,
	})
	requireResource(ctx, logg, "pos service", err)

	checkoutService, err := checkout.NewService(
		register,
		checkout.NewSequenceIDs(redisClient, cfg.Receipt.BaseURL),
		logg,
		checkout.WithSinks(receiptService),
		checkout.WithMetrics(posMetrics),
	)
	requireResource(ctx, logg, "checkout service", err)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	serverCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			sessionManager,
			routes.Services{
				Auth:     authService,
				Catalog:  catalogService,
				POS:      posService,
				Checkout: checkoutService,
				Receipts: receiptService,
			},
			httpMetrics,
			promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(serverCtx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			logg.Error(serverCtx, "api server stopped unexpectedly", err)
		}
	case <-ctx.Done():
		logg.Info(serverCtx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err = multierr.Combine(
		server.Shutdown(shutdownCtx),
		redisClient.Close(),
		dbClient.Close(),
	)
	if err != nil {
		logg.Error(serverCtx, "api server shutdown incomplete", err)
		os.Exit(1)
	}
	logg.Info(serverCtx, "api server stopped")
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, "resource not working: "+resource, err)
	os.Exit(1)
}
