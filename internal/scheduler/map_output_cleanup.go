package scheduler

import (
	"context"
	"time"

	"geolocation_backend/platform/logger"
)

const (
	defaultMapCleanupInterval = time.Hour
	defaultMapRetention       = 24 * time.Hour
)

// Pruner removes rendered documents older than a cutoff.
type Pruner interface {
	Prune(cutoff time.Time) (int, error)
}

// MapOutputCleanup periodically removes old rendered map documents from disk.
type MapOutputCleanup struct {
	pruner    Pruner
	log       *logger.Logger
	interval  time.Duration
	retention time.Duration
	now       func() time.Time
}

func NewMapOutputCleanup(pruner Pruner, log *logger.Logger, interval, retention time.Duration) *MapOutputCleanup {
	if interval <= 0 {
		interval = defaultMapCleanupInterval
	}
	if retention <= 0 {
		retention = defaultMapRetention
	}

	return &MapOutputCleanup{
		pruner:    pruner,
		log:       log,
		interval:  interval,
		retention: retention,
		now:       time.Now,
	}
}

func (c *MapOutputCleanup) Run(ctx context.Context) {
	if c == nil || c.pruner == nil {
		return
	}

	c.cleanup()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

func (c *MapOutputCleanup) cleanup() {
	deleted, err := c.pruner.Prune(c.now().Add(-c.retention))
	if err != nil {
		c.log.Warn("map output cleanup failed", "error", err)
		return
	}

	if deleted > 0 {
		c.log.Info("map output cleanup deleted documents", "deleted", deleted)
	}
}
