// Package db opens the history store and applies its migrations. Postgres is
// used when the DSN is a postgres URL; anything else is a SQLite path.
package db

import (
	"context"
	"fmt"
	"time"

	"geolocation_backend/platform/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

// History writes are one row per lookup, so the pool stays small.
const (
	poolMaxConns     = 10
	poolMinConns     = 1
	poolConnLifetime = time.Hour
	poolConnIdle     = 30 * time.Minute
	poolHealthCheck  = time.Minute
)

// NewPool connects to Postgres and fails fast if the server is unreachable.
func NewPool(ctx context.Context, cfg config.HistoryConfig) (*pgxpool.Pool, error) {
	pgCfg, err := pgxpool.ParseConfig(cfg.GetHistoryDatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("parse history dsn: %w", err)
	}
	pgCfg.MaxConns = poolMaxConns
	pgCfg.MinConns = poolMinConns
	pgCfg.MaxConnLifetime = poolConnLifetime
	pgCfg.MaxConnIdleTime = poolConnIdle
	pgCfg.HealthCheckPeriod = poolHealthCheck

	pool, err := pgxpool.NewWithConfig(ctx, pgCfg)
	if err != nil {
		return nil, fmt.Errorf("open history pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping history database: %w", err)
	}
	return pool, nil
}
