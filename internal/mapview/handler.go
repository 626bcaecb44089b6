package mapview

import (
	"context"
	"net/http"
	"time"

	"geolocation_backend/platform/apperr"
	"geolocation_backend/platform/httpkit"
	"geolocation_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"

	filesRoutePrefix = "/api/v1/maps/files/"

	// Rendered documents pull Leaflet and tiles from public CDNs.
	documentCSP = "default-src 'self'; script-src 'self' 'unsafe-inline' https://unpkg.com; " +
		"style-src 'self' 'unsafe-inline' https://unpkg.com; img-src 'self' data: https://*.tile.openstreetmap.org"

	msgJobsNotConfigured = "background rendering is not configured"

	jobStatusPending = "pending"
	jobStatusDone    = "done"
	jobStatusFailed  = "failed"
)

// JobQueue schedules background renders and reports the ones that were
// abandoned. JobFailure returns the last error of an abandoned job.
type JobQueue interface {
	EnqueueMapRender(ctx context.Context, jobID, query string, radius int) error
	JobFailure(ctx context.Context, jobID string) (string, bool, error)
}

// ShowRequest is the body for POST /maps and POST /maps/jobs.
type ShowRequest struct {
	Query  string `json:"query" validate:"required,max=500"`
	Radius int    `json:"radius" validate:"omitempty,min=1,max=50000"`
}

// ShowResponse extends ShowResult with the public URL of the document.
type ShowResponse struct {
	*ShowResult
	FileURL string `json:"fileUrl"`
}

// JobResponse reports the state of a background render.
type JobResponse struct {
	JobID       string     `json:"jobId"`
	Status      string     `json:"status"`
	DownloadURL string     `json:"downloadUrl,omitempty"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
	Error       string     `json:"error,omitempty"`
}

type Handler struct {
	explorer *Explorer
	renderer *Renderer
	jobs     JobQueue
	val      *validator.Validator
}

func NewHandler(explorer *Explorer, renderer *Renderer, jobs JobQueue, val *validator.Validator) *Handler {
	return &Handler{explorer: explorer, renderer: renderer, jobs: jobs, val: val}
}

// Show handles POST /api/v1/maps
func (h *Handler) Show(c *gin.Context) {
	var req ShowRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.explorer.Show(c.Request.Context(), req.Query, req.Radius)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, ShowResponse{ShowResult: result, FileURL: filesRoutePrefix + result.FileName})
}

// File handles GET /api/v1/maps/files/:name
func (h *Handler) File(c *gin.Context) {
	path, ok := h.renderer.Lookup(c.Param("name"))
	if !ok {
		httpkit.HandleError(c, apperr.NotFound("map not found"))
		return
	}

	c.Header("Content-Security-Policy", documentCSP)
	c.Header("X-Frame-Options", "SAMEORIGIN")
	c.File(path)
}

// EnqueueJob handles POST /api/v1/maps/jobs
func (h *Handler) EnqueueJob(c *gin.Context) {
	if !h.jobsEnabled(c) {
		return
	}

	var req ShowRequest
	if !h.bindJSON(c, &req) {
		return
	}

	jobID := uuid.NewString()
	if err := h.jobs.EnqueueMapRender(c.Request.Context(), jobID, req.Query, req.Radius); err != nil {
		httpkit.HandleError(c, apperr.Unavailable("failed to enqueue map job", err))
		return
	}

	httpkit.JSON(c, http.StatusAccepted, JobResponse{JobID: jobID, Status: jobStatusPending})
}

// JobStatus handles GET /api/v1/maps/jobs/:id
func (h *Handler) JobStatus(c *gin.Context) {
	if !h.jobsEnabled(c) {
		return
	}

	jobID := c.Param("id")
	if _, err := uuid.Parse(jobID); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, "job id must be a UUID")
		return
	}

	ctx := c.Request.Context()
	url, err := h.explorer.JobDownloadURL(ctx, jobID)
	if apperr.Is(err, apperr.KindNotFound) {
		h.unfinishedJob(c, jobID)
		return
	}
	if httpkit.HandleError(c, err) {
		return
	}

	expiresAt := url.ExpiresAt
	httpkit.OK(c, JobResponse{
		JobID:       jobID,
		Status:      jobStatusDone,
		DownloadURL: url.URL,
		ExpiresAt:   &expiresAt,
	})
}

// unfinishedJob answers for a job without a document: failed once the queue
// has given up on it, pending otherwise.
func (h *Handler) unfinishedJob(c *gin.Context, jobID string) {
	reason, failed, err := h.jobs.JobFailure(c.Request.Context(), jobID)
	if err != nil {
		httpkit.HandleError(c, apperr.Unavailable("job queue error", err))
		return
	}
	if failed {
		httpkit.OK(c, JobResponse{JobID: jobID, Status: jobStatusFailed, Error: reason})
		return
	}
	httpkit.JSON(c, http.StatusAccepted, JobResponse{JobID: jobID, Status: jobStatusPending})
}

// jobsEnabled answers 503 when either the queue or object storage is missing.
func (h *Handler) jobsEnabled(c *gin.Context) bool {
	if h.jobs == nil || !h.explorer.StorageEnabled() {
		httpkit.Error(c, http.StatusServiceUnavailable, msgJobsNotConfigured, nil)
		return false
	}
	return true
}

func (h *Handler) bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return false
	}
	return true
}

