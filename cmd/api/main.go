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

	"github.com/rohitappsaga-debug/Rms-testing-sub001/api/routes"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/internal/ledger"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/internal/lifecycle"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/internal/menu"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/internal/orders"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/internal/payments"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/internal/settings"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/internal/tables"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/config"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/db"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/env"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/logger"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/metrics"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/migrate"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/outbox"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/redis"
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
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	// Redis only backs idempotent replays; without it mutations still run.
	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Warn(context.Background(), "redis not configured, idempotency keys are ignored")
	}

	loc, err := cfg.App.Location()
	if err != nil {
		logg.Error(context.Background(), "invalid timezone", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	conn := dbClient.DB()
	ordersRepo := orders.NewRepository(conn)
	menuRepo := menu.NewRepository(conn)
	tableStore := tables.NewStore(conn)

	ordersSvc, err := orders.NewService(ordersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}
	menuSvc, err := menu.NewService(menuRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create menu service", err)
		os.Exit(1)
	}
	settingsSvc, err := settings.NewService(conn, cfg.Restaurant)
	if err != nil {
		logg.Error(context.Background(), "failed to create settings service", err)
		os.Exit(1)
	}
	ledgerSvc, err := ledger.NewService(ledger.NewRepository(conn), loc)
	if err != nil {
		logg.Error(context.Background(), "failed to create ledger service", err)
		os.Exit(1)
	}

	lifecycleSvc, err := lifecycle.NewService(lifecycle.ServiceParams{
		DB:       dbClient,
		Orders:   ordersRepo,
		Tables:   tableStore,
		Menu:     menuRepo,
		Payments: payments.NewRepository(conn),
		Ledger:   ledgerSvc,
		Settings: settingsSvc,
		Outbox:   outbox.NewService(outbox.NewRepository(conn), logg),
		Metrics:  metrics.NewLifecycleMetrics(reg),
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create lifecycle service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
			lifecycleSvc,
			ordersSvc,
			tableStore,
			menuSvc,
			settingsSvc,
			ledgerSvc,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), env.GetDuration("RMS_SHUTDOWN_TIMEOUT", shutdownTimeout))
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "api server shutdown failed", err)
		}
		logg.Info(ctx, "api server shut down gracefully")
	}
}
