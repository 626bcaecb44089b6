// Command worker renders queued maps and uploads them to object storage.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"geolocation_backend/internal/bootstrap"
	"geolocation_backend/internal/scheduler"
	"geolocation_backend/platform/config"
	"geolocation_backend/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Env)
	if err := run(cfg, log); err != nil {
		log.Error("worker stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting map render worker", "env", cfg.Env, "queue", cfg.GetAsynqQueueName())

	components, err := bootstrap.Build(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("initialize services: %w", err)
	}
	defer components.Close()

	if !components.Explorer.StorageEnabled() {
		return errors.New("MINIO_ENDPOINT is required for the map render worker")
	}

	worker, err := scheduler.NewWorker(cfg, components.Explorer, log)
	if err != nil {
		return fmt.Errorf("initialize worker: %w", err)
	}
	return worker.Run(ctx)
}
