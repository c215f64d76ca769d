package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/angelmondragon/superbox-backend/api/routes"
	"github.com/angelmondragon/superbox-backend/internal/cart"
	"github.com/angelmondragon/superbox-backend/internal/checkout"
	"github.com/angelmondragon/superbox-backend/internal/payments"
	"github.com/angelmondragon/superbox-backend/internal/pricing"
	"github.com/angelmondragon/superbox-backend/internal/profile"
	"github.com/angelmondragon/superbox-backend/internal/submissions"
	"github.com/angelmondragon/superbox-backend/pkg/backend"
	"github.com/angelmondragon/superbox-backend/pkg/config"
	"github.com/angelmondragon/superbox-backend/pkg/db"
	"github.com/angelmondragon/superbox-backend/pkg/logger"
	"github.com/angelmondragon/superbox-backend/pkg/metrics"
	"github.com/angelmondragon/superbox-backend/pkg/migrate"
	"github.com/angelmondragon/superbox-backend/pkg/redis"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const shutdownGrace = 15 * time.Second

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

	dbClient, err := db.New(ctx, cfg.DB, db.DialectFor(cfg.FeatureFlags), logg)
	requireResource(ctx, logg, "database", err)
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		requireResource(ctx, logg, "dev migrations", err)
	}

	redisClient, err := redis.New(ctx, cfg.Redis)
	requireResource(ctx, logg, "redis", err)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	backendClient, err := backend.NewClient(cfg.Backend)
	requireResource(ctx, logg, "storefront backend client", err)

	engine, err := pricing.NewEngineFromConfig(cfg.Pricing)
	requireResource(ctx, logg, "pricing engine", err)

	cartStore, err := cart.NewRedisStore(redisClient, cfg.Checkout.CartTTL)
	requireResource(ctx, logg, "cart store", err)
	cartService, err := cart.NewService(cartStore, engine)
	requireResource(ctx, logg, "cart service", err)

	profileService, err := profile.NewService(backendClient)
	requireResource(ctx, logg, "profile service", err)

	ledger, err := submissions.NewService(submissions.NewRepository(dbClient.DB()))
	requireResource(ctx, logg, "submission ledger", err)

	orchestrator, err := payments.NewOrchestrator(backendClient, logg,
		payments.WithLedger(ledger),
		payments.WithMetrics(checkoutMetrics),
		payments.WithCallTimeout(cfg.Backend.Timeout),
	)
	requireResource(ctx, logg, "payment orchestrator", err)

	sessionStore, err := checkout.NewRedisSessionStore(redisClient, cfg.Checkout.SessionTTL)
	requireResource(ctx, logg, "checkout session store", err)
	checkoutService, err := checkout.NewService(checkout.ServiceParams{
		Store:       sessionStore,
		Carts:       cartService,
		Profiles:    profileService,
		Storefronts: backendClient,
		Pricer:      engine,
		Submitter:   orchestrator,
		Metrics:     checkoutMetrics,
		Logger:      logg,
	})
	requireResource(ctx, logg, "checkout service", err)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	runCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, routes.Dependencies{
			DB:              dbClient,
			Redis:           redisClient,
			Idempotency:     redisClient,
			Backend:         backendClient,
			Gatherer:        registry,
			CartService:     cartService,
			CheckoutService: checkoutService,
			ProfileService:  profileService,
			Submissions:     ledger,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info(runCtx, "starting api server")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(runCtx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(runCtx, "shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(runCtx, "graceful shutdown failed", err)
		}
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, "resource not working: "+resource, err)
	os.Exit(1)
}
