package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository stores history in PostgreSQL.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgres wraps a connected pool.
func NewPostgres(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Insert(ctx context.Context, query, result string, timestamp time.Time) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO search_history (query, result, timestamp) VALUES ($1, $2, $3) RETURNING id`,
		query, result, timestamp.UTC(),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert search record: %w", err)
	}
	return id, nil
}

func (r *PostgresRepository) LatestTimestamp(ctx context.Context) (time.Time, bool, error) {
	var ts time.Time
	err := r.pool.QueryRow(ctx,
		`SELECT timestamp FROM search_history ORDER BY timestamp DESC, id DESC LIMIT 1`,
	).Scan(&ts)
	if errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("query latest timestamp: %w", err)
	}
	return ts.UTC(), true, nil
}

func (r *PostgresRepository) Recent(ctx context.Context, limit int) ([]SearchRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, query, result, timestamp FROM search_history ORDER BY timestamp DESC, id DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent searches: %w", err)
	}
	defer rows.Close()

	records := make([]SearchRecord, 0, limit)
	for rows.Next() {
		var rec SearchRecord
		if err := rows.Scan(&rec.ID, &rec.Query, &rec.Result, &rec.Timestamp); err != nil {
			return nil, fmt.Errorf("scan search record: %w", err)
		}
		rec.Timestamp = rec.Timestamp.UTC()
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate search records: %w", err)
	}
	return records, nil
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

var _ Repository = (*PostgresRepository)(nil)
