package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SQLiteRepository stores history in a SQLite database through database/sql.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLite wraps an open, migrated SQLite handle.
func NewSQLite(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Insert(ctx context.Context, query, result string, timestamp time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO search_history (query, result, timestamp) VALUES (?, ?, ?)`,
		query, result, timestamp.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert search record: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read inserted id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) LatestTimestamp(ctx context.Context) (time.Time, bool, error) {
	var ts time.Time
	err := r.db.QueryRowContext(ctx,
		`SELECT timestamp FROM search_history ORDER BY timestamp DESC, id DESC LIMIT 1`,
	).Scan(&ts)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("query latest timestamp: %w", err)
	}
	return ts.UTC(), true, nil
}

func (r *SQLiteRepository) Recent(ctx context.Context, limit int) ([]SearchRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, query, result, timestamp FROM search_history ORDER BY timestamp DESC, id DESC LIMIT ?`,
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

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

var _ Repository = (*SQLiteRepository)(nil)
