// Package service implements the append-only search history log.
package service

import (
	"context"
	"sync"
	"time"

	"geolocation_backend/internal/events"
	"geolocation_backend/internal/history/repository"
	"geolocation_backend/platform/apperr"
	"geolocation_backend/platform/logger"
)

const (
	// DefaultRecentLimit is used when the caller passes no limit.
	DefaultRecentLimit = 5
	// MaxRecentLimit caps a single page of history.
	MaxRecentLimit = 100
)

// Service appends and lists search records. Appends are serialized so stored
// timestamps never go backwards, even when the wall clock does.
type Service struct {
	repo     repository.Repository
	eventBus events.Bus
	log      *logger.Logger
	now      func() time.Time

	mu     sync.Mutex
	last   time.Time
	loaded bool
}

// New creates a history service. eventBus may be nil.
func New(repo repository.Repository, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		eventBus: eventBus,
		log:      log,
		now:      time.Now,
	}
}

// Append stores a lookup and returns the stored record.
func (s *Service) Append(ctx context.Context, query, result string) (repository.SearchRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		latest, ok, err := s.repo.LatestTimestamp(ctx)
		if err != nil {
			s.log.DatabaseError("history.LatestTimestamp", err)
			return repository.SearchRecord{}, wrapInternal("failed to record search", "history.Append", err)
		}
		if ok {
			s.last = latest
		}
		s.loaded = true
	}

	ts := s.now().UTC()
	if ts.Before(s.last) {
		ts = s.last
	}

	id, err := s.repo.Insert(ctx, query, result, ts)
	if err != nil {
		s.log.DatabaseError("history.Insert", err)
		return repository.SearchRecord{}, wrapInternal("failed to record search", "history.Append", err)
	}
	s.last = ts

	rec := repository.SearchRecord{ID: id, Query: query, Result: result, Timestamp: ts}
	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.SearchRecorded{
			BaseEvent:  events.NewBaseEvent(),
			RecordID:   rec.ID,
			Query:      rec.Query,
			Result:     rec.Result,
			RecordedAt: rec.Timestamp,
		})
	}
	return rec, nil
}

// Recent returns the newest records first. A non-positive limit falls back to
// DefaultRecentLimit and anything above MaxRecentLimit is capped.
func (s *Service) Recent(ctx context.Context, limit int) ([]repository.SearchRecord, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	if limit > MaxRecentLimit {
		limit = MaxRecentLimit
	}

	records, err := s.repo.Recent(ctx, limit)
	if err != nil {
		s.log.DatabaseError("history.Recent", err)
		return nil, wrapInternal("failed to load history", "history.Recent", err)
	}
	return records, nil
}

// Ping reports whether the backing store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func wrapInternal(message, op string, err error) error {
	return apperr.InternalAt(op, message, err)
}
