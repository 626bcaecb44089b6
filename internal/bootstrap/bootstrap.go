// Package bootstrap builds the services shared by the API server, the
// background worker and the command-line client.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"geolocation_backend/internal/adapters/storage"
	"geolocation_backend/internal/events"
	historyrepo "geolocation_backend/internal/history/repository"
	historyservice "geolocation_backend/internal/history/service"
	"geolocation_backend/internal/maps"
	"geolocation_backend/internal/mapview"
	"geolocation_backend/internal/poi"
	"geolocation_backend/platform/config"
	"geolocation_backend/platform/db"
	"geolocation_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Components holds the initialized domain services.
type Components struct {
	EventBus  *events.InMemoryBus
	History   *historyservice.Service
	Geocoding *maps.Service
	POIs      *poi.Fetcher
	Renderer  *mapview.Renderer
	Explorer  *mapview.Explorer
	Storage   storage.StorageService

	closers []func()
}

// Build connects the history store and the optional cache, Kafka and object
// storage integrations. An unreachable cache is skipped with a warning; a
// configured bucket that cannot be prepared fails the build.
func Build(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Components, error) {
	c := &Components{EventBus: events.NewInMemoryBus(log)}

	repo, err := c.openHistory(ctx, cfg, log)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.History = historyservice.New(repo, c.EventBus, log)

	c.closers = append(c.closers, events.AttachKafka(c.EventBus, cfg, log))

	var cache maps.GeocodeCache
	if cfg.IsGeocodeCacheEnabled() {
		client, err := maps.NewRedisClient(ctx, cfg)
		if err != nil {
			log.Warn("geocode cache unavailable; continuing without it", "error", err)
		} else {
			cache = maps.NewRedisGeocodeCache(client, cfg.GetGeocodeCacheTTL(), log)
			c.closers = append(c.closers, func() { _ = client.Close() })
			log.Info("geocode cache enabled", "ttl", cfg.GetGeocodeCacheTTL().String())
		}
	}

	c.Geocoding = maps.NewService(maps.NewNominatimClient(cfg, log), c.History, cache, log)
	c.POIs = poi.NewFetcher(cfg, log)
	c.Renderer = mapview.NewRenderer(cfg)

	if cfg.IsMinIOEnabled() {
		storageSvc, err := storage.NewMinIOService(cfg)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to initialize storage service: %w", err)
		}
		bucket := cfg.GetMinioBucketMaps()
		if err := withRetry(ctx, log, "ensure maps bucket", 5, 2*time.Second, func() error {
			return storageSvc.EnsureBucketExists(ctx, bucket)
		}); err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to ensure storage bucket exists: %w", err)
		}
		c.Storage = storageSvc
		log.Info("storage service initialized", "mapsBucket", bucket)
	}

	c.Explorer = mapview.NewExplorer(c.Geocoding, c.POIs, c.Renderer, c.Storage, cfg.GetMinioBucketMaps(), c.EventBus, log)
	return c, nil
}

// Close waits for in-flight event handlers and releases connections in
// reverse order of acquisition.
func (c *Components) Close() {
	if c.EventBus != nil {
		c.EventBus.Wait()
	}
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

func (c *Components) openHistory(ctx context.Context, cfg *config.Config, log *logger.Logger) (historyrepo.Repository, error) {
	if cfg.IsHistoryPostgres() {
		var pool *pgxpool.Pool
		if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
			p, err := db.NewPool(ctx, cfg)
			if err != nil {
				return err
			}
			pool = p
			return nil
		}); err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		c.closers = append(c.closers, pool.Close)

		if err := db.RunPostgresMigrations(ctx, pool); err != nil {
			return nil, fmt.Errorf("failed to run database migrations: %w", err)
		}
		log.Info("history store ready", "backend", "postgres")
		return historyrepo.NewPostgres(pool), nil
	}

	sqlDB, err := db.OpenSQLite(ctx, cfg.GetHistoryDatabaseURL())
	if err != nil {
		return nil, err
	}
	c.closers = append(c.closers, func() { _ = sqlDB.Close() })

	if err := db.RunMigrations(ctx, sqlDB, db.DialectSQLite); err != nil {
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}
	log.Info("history store ready", "backend", "sqlite", "path", cfg.GetHistoryDatabaseURL())
	return historyrepo.NewSQLite(sqlDB), nil
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
