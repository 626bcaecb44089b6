package mapview

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"geolocation_backend/internal/adapters/storage"
	"geolocation_backend/internal/events"
	"geolocation_backend/internal/geo"
	"geolocation_backend/internal/poi"
	"geolocation_backend/platform/apperr"
	"geolocation_backend/platform/logger"
)

const (
	contentTypeHTML = "text/html; charset=utf-8"
	objectPrefix    = "maps/"
)

// Resolver turns an address or "lat,lon" input into a coordinate.
type Resolver interface {
	Resolve(ctx context.Context, input string) (geo.Coordinate, error)
}

// POIFetcher looks up points of interest around a coordinate.
type POIFetcher interface {
	Fetch(ctx context.Context, center geo.Coordinate, radius int) []poi.PointOfInterest
	ClampRadius(radius int) int
}

// ShowResult describes a rendered map.
type ShowResult struct {
	Query        string                `json:"query"`
	Center       geo.Coordinate        `json:"center"`
	RadiusMeters int                   `json:"radiusMeters"`
	POIs         []poi.PointOfInterest `json:"pois"`
	Path         string                `json:"-"`
	FileName     string                `json:"fileName"`
	ObjectKey    string                `json:"objectKey,omitempty"`
	DownloadURL  string                `json:"downloadUrl,omitempty"`
}

// Explorer runs resolve, POI fetch, render and the optional upload.
type Explorer struct {
	resolver Resolver
	pois     POIFetcher
	renderer *Renderer
	store    storage.StorageService
	bucket   string
	eventBus events.Bus
	log      *logger.Logger
}

// NewExplorer wires the flow. store and eventBus may be nil.
func NewExplorer(resolver Resolver, pois POIFetcher, renderer *Renderer, store storage.StorageService, bucket string, eventBus events.Bus, log *logger.Logger) *Explorer {
	return &Explorer{
		resolver: resolver,
		pois:     pois,
		renderer: renderer,
		store:    store,
		bucket:   bucket,
		eventBus: eventBus,
		log:      log,
	}
}

// StorageEnabled reports whether rendered maps are uploaded.
func (e *Explorer) StorageEnabled() bool {
	return e.store != nil
}

// Show renders a map for query. When object storage is configured the document
// is uploaded too; an upload failure is logged and the local copy still served.
func (e *Explorer) Show(ctx context.Context, query string, radius int) (*ShowResult, error) {
	result, err := e.render(ctx, query, radius)
	if err != nil {
		return nil, err
	}

	if e.store != nil {
		key := objectPrefix + result.FileName
		if err := e.upload(ctx, key, result); err != nil {
			e.log.WithContext(ctx).Error("failed to upload rendered map", "key", key, "error", err)
		}
	}

	e.publish(ctx, "", result)
	return result, nil
}

// RenderJob is the background variant of Show. The document is stored under
// maps/<jobID>.html and any failure is returned so the job can be retried.
func (e *Explorer) RenderJob(ctx context.Context, jobID, query string, radius int) error {
	if e.store == nil {
		return fmt.Errorf("object storage is not configured")
	}

	result, err := e.render(ctx, query, radius)
	if err != nil {
		return err
	}
	if err := e.upload(ctx, JobObjectKey(jobID), result); err != nil {
		return err
	}

	e.publish(ctx, jobID, result)
	return nil
}

// JobDownloadURL returns a presigned URL for a finished job, or a NotFound
// error while the job has not produced its document yet.
func (e *Explorer) JobDownloadURL(ctx context.Context, jobID string) (*storage.PresignedURL, error) {
	if e.store == nil {
		return nil, apperr.BadRequest("background rendering is not configured")
	}

	key := JobObjectKey(jobID)
	exists, err := e.store.ObjectExists(ctx, e.bucket, key)
	if err != nil {
		return nil, apperr.Unavailable("object storage error", err)
	}
	if !exists {
		return nil, apperr.NotFound("map not ready")
	}

	url, err := e.store.GenerateDownloadURL(ctx, e.bucket, key)
	if err != nil {
		return nil, apperr.Unavailable("object storage error", err)
	}
	return url, nil
}

// JobObjectKey is where a background job stores its document.
func JobObjectKey(jobID string) string {
	return objectPrefix + jobID + ".html"
}

func (e *Explorer) render(ctx context.Context, query string, radius int) (*ShowResult, error) {
	center, err := e.resolver.Resolve(ctx, query)
	if err != nil {
		return nil, err
	}

	radius = e.pois.ClampRadius(radius)
	pois := e.pois.Fetch(ctx, center, radius)

	path, err := e.renderer.Render(center, pois)
	if err != nil {
		e.log.WithContext(ctx).Error("failed to render map", "error", err)
		appErr := apperr.Internal("failed to render map")
		appErr.Err = err
		return nil, appErr
	}

	return &ShowResult{
		Query:        query,
		Center:       center,
		RadiusMeters: radius,
		POIs:         pois,
		Path:         path,
		FileName:     filepath.Base(path),
	}, nil
}

func (e *Explorer) upload(ctx context.Context, key string, result *ShowResult) error {
	f, err := os.Open(result.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	if err := e.store.PutObject(ctx, e.bucket, key, contentTypeHTML, f, info.Size()); err != nil {
		return err
	}
	result.ObjectKey = key

	url, err := e.store.GenerateDownloadURL(ctx, e.bucket, key)
	if err != nil {
		return err
	}
	result.DownloadURL = url.URL
	return nil
}

func (e *Explorer) publish(ctx context.Context, jobID string, result *ShowResult) {
	if e.eventBus == nil {
		return
	}
	e.eventBus.Publish(ctx, events.MapRendered{
		BaseEvent: events.NewBaseEvent(),
		JobID:     jobID,
		Query:     result.Query,
		Latitude:  result.Center.Latitude,
		Longitude: result.Center.Longitude,
		POICount:  len(result.POIs),
		FileName:  result.FileName,
		ObjectKey: result.ObjectKey,
	})
}
