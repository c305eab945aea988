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

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/cardchase/location-portal/api/routes"
	"github.com/cardchase/location-portal/internal/access"
	"github.com/cardchase/location-portal/internal/admin"
	"github.com/cardchase/location-portal/internal/auth"
	"github.com/cardchase/location-portal/internal/events"
	"github.com/cardchase/location-portal/internal/locations"
	"github.com/cardchase/location-portal/internal/schedule"
	"github.com/cardchase/location-portal/internal/staff"
	"github.com/cardchase/location-portal/internal/users"
	"github.com/cardchase/location-portal/pkg/auth/session"
	"github.com/cardchase/location-portal/pkg/config"
	"github.com/cardchase/location-portal/pkg/db"
	"github.com/cardchase/location-portal/pkg/geocode"
	"github.com/cardchase/location-portal/pkg/instance"
	"github.com/cardchase/location-portal/pkg/logger"
	"github.com/cardchase/location-portal/pkg/metrics"
	"github.com/cardchase/location-portal/pkg/migrate"
	"github.com/cardchase/location-portal/pkg/push"
	"github.com/cardchase/location-portal/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	requireResource(context.Background(), logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	requireResource(context.Background(), logg, "database", err)
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	err = migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient)
	requireResource(context.Background(), logg, "dev migrations", err)

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	requireResource(context.Background(), logg, "redis", err)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	requireResource(context.Background(), logg, "session manager", err)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	portalMetrics := metrics.NewPortalMetrics(registry)

	conn := dbClient.DB()

	accessService, err := access.NewService(access.NewRepository(conn))
	requireResource(context.Background(), logg, "access service", err)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(conn),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	requireResource(context.Background(), logg, "auth service", err)

	geocoder := geocode.NewClient(
		geocode.WithBaseURL(cfg.Geocoder.BaseURL),
		geocode.WithUserAgent(cfg.Geocoder.UserAgent),
		geocode.WithRate(cfg.Geocoder.RatePerS),
		geocode.WithCacheTTL(cfg.Geocoder.CacheTTL),
		geocode.WithHTTPClient(&http.Client{Timeout: cfg.Geocoder.Timeout}),
	)
	locationService, err := locations.NewService(locations.ServiceParams{
		DB:       dbClient,
		Geocoder: geocoder,
		Metrics:  portalMetrics,
		Logger:   logg,
	})
	requireResource(context.Background(), logg, "location service", err)

	staffService, err := staff.NewService(staff.NewRepository(conn))
	requireResource(context.Background(), logg, "staff service", err)

	notifier, err := newNotifier(cfg.Push)
	requireResource(context.Background(), logg, "push client", err)
	if !cfg.Push.Enabled() {
		logg.Warn(context.Background(), "push credentials missing; cancellation notices are disabled")
	}

	scheduleService, err := schedule.NewService(schedule.ServiceParams{
		Repo:     schedule.NewRepository(conn),
		Notifier: notifier,
		Metrics:  portalMetrics,
		Logger:   logg,
	})
	requireResource(context.Background(), logg, "schedule service", err)

	eventService, err := events.NewService(events.NewRepository(conn))
	requireResource(context.Background(), logg, "event service", err)

	adminService, err := admin.NewService(admin.NewRepository(conn), portalMetrics)
	requireResource(context.Background(), logg, "admin service", err)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.ID(),
	})

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Dependencies{
			Config:    cfg,
			Logger:    logg,
			DB:        dbClient,
			Redis:     redisClient,
			Sessions:  sessionManager,
			Gatherer:  registry,
			Metrics:   portalMetrics,
			Access:    accessService,
			Auth:      authService,
			Locations: locationService,
			Staff:     staffService,
			Schedule:  scheduleService,
			Events:    eventService,
			Admin:     adminService,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-sigCtx.Done():
		logg.Info(ctx, "shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
	logg.Info(ctx, "api server stopped")
}

func newNotifier(cfg config.PushConfig) (schedule.Notifier, error) {
	if !cfg.Enabled() {
		return push.Noop{}, nil
	}
	client, err := push.NewClient(cfg.AppID, cfg.RESTKey,
		push.WithBaseURL(cfg.BaseURL),
		push.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
	)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
