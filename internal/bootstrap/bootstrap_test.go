package bootstrap

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"geolocation_backend/platform/config"
	"geolocation_backend/platform/logger"
)

func TestBuildWithSQLiteOnly(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		HistoryDatabaseURL: filepath.Join(dir, "history.db"),
		NominatimURL:       "http://127.0.0.1:1",
		NominatimRate:      1,
		OverpassURL:        "http://127.0.0.1:1",
		UserAgent:          "geolocation-backend-test/1.0",
		UpstreamTimeout:    time.Second,
		DefaultPOIRadius:   1000,
		MapOutputDir:       filepath.Join(dir, "maps"),
	}

	c, err := Build(context.Background(), cfg, logger.Discard())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer c.Close()

	if c.Storage != nil || c.Explorer.StorageEnabled() {
		t.Fatal("storage should be disabled without MINIO_ENDPOINT")
	}

	ctx := context.Background()
	if _, err := c.History.Append(ctx, "Eiffel Tower", "48.8584, 2.2945"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	records, err := c.History.Recent(ctx, 5)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(records) != 1 || records[0].Query != "Eiffel Tower" {
		t.Fatalf("unexpected records %+v", records)
	}

	coord, err := c.Geocoding.Resolve(ctx, "48.8584,2.2945")
	if err != nil || coord.Latitude != 48.8584 {
		t.Fatalf("unexpected resolve %+v, %v", coord, err)
	}
}

func TestWithRetry(t *testing.T) {
	attempts := 0
	err := withRetry(context.Background(), logger.Discard(), "flaky", 3, time.Millisecond, func() error {
		attempts++
		if attempts < 2 {
			return errors.New("not yet")
		}
		return nil
	})
	if err != nil || attempts != 2 {
		t.Fatalf("expected success on second attempt, got %v after %d", err, attempts)
	}

	err = withRetry(context.Background(), logger.Discard(), "broken", 2, time.Millisecond, func() error {
		return errors.New("down")
	})
	if err == nil || err.Error() != "broken: down" {
		t.Fatalf("unexpected error %v", err)
	}
}
