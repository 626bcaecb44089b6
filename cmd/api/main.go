// Command api serves the geolocation HTTP API.
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

	"geolocation_backend/internal/bootstrap"
	"geolocation_backend/internal/history"
	apphttp "geolocation_backend/internal/http"
	"geolocation_backend/internal/http/router"
	"geolocation_backend/internal/maps"
	"geolocation_backend/internal/mapview"
	"geolocation_backend/internal/poi"
	"geolocation_backend/internal/scheduler"
	"geolocation_backend/platform/config"
	"geolocation_backend/platform/logger"
	"geolocation_backend/platform/validator"
)

const (
	mapCleanupInterval = time.Hour
	shutdownTimeout    = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Env)
	if err := run(cfg, log); err != nil {
		log.Error("api stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting api", "env", cfg.Env, "addr", cfg.HTTPAddr)

	components, err := bootstrap.Build(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("initialize services: %w", err)
	}
	defer components.Close()

	jobs, closeJobs := jobClient(cfg, log)
	defer closeJobs()

	go scheduler.NewMapOutputCleanup(components.Renderer, log, mapCleanupInterval, cfg.GetMapRetention()).Run(ctx)

	val := validator.New()
	app := &apphttp.App{
		Config: cfg,
		Logger: log,
		Health: components.History,
		Modules: []apphttp.Module{
			history.NewModule(components.History, val),
			maps.NewModule(components.Geocoding, val),
			poi.NewModule(components.POIs, val),
			mapview.NewModule(components.Explorer, components.Renderer, jobs, val),
		},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.ListenAndServe() }()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// jobClient connects the background render queue. Without Redis the job
// routes answer 503 and nil is returned.
func jobClient(cfg config.SchedulerConfig, log *logger.Logger) (mapview.JobQueue, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not set, background map rendering disabled")
		return nil, func() {}
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("map job client unavailable", "error", err)
		return nil, func() {}
	}
	return client, func() { _ = client.Close() }
}
