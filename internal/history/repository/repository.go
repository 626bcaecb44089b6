// Package repository persists search history records.
package repository

import (
	"context"
	"time"
)

// SearchRecord is one persisted lookup. Records are never updated or deleted.
type SearchRecord struct {
	ID        int64
	Query     string
	Result    string
	Timestamp time.Time
}

// Repository is the storage port for the history log.
type Repository interface {
	// Insert appends a record and returns its identifier.
	Insert(ctx context.Context, query, result string, timestamp time.Time) (int64, error)
	// LatestTimestamp returns the newest stored timestamp, if any.
	LatestTimestamp(ctx context.Context) (time.Time, bool, error)
	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]SearchRecord, error)
	// Ping checks the store is reachable.
	Ping(ctx context.Context) error
}
