package scheduler

import (
	"context"
	"errors"
	"time"

	"geolocation_backend/platform/config"

	"github.com/hibiken/asynq"
)

const (
	mapRenderMaxRetry = 3
	mapRenderTimeout  = 2 * time.Minute
)

// Client enqueues background map renders for the worker binary and reports
// jobs the worker gave up on.
type Client struct {
	asynq     *asynq.Client
	inspector *asynq.Inspector
	queue     string
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	conn, err := connect(cfg)
	if err != nil {
		return nil, err
	}
	return &Client{
		asynq:     asynq.NewClient(conn.redis),
		inspector: asynq.NewInspector(conn.redis),
		queue:     conn.queue,
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.asynq == nil {
		return nil
	}
	return errors.Join(c.asynq.Close(), c.inspector.Close())
}

// EnqueueMapRender uses jobID as the task ID, so a resubmitted job is refused
// by the queue instead of rendering twice.
func (c *Client) EnqueueMapRender(ctx context.Context, jobID, query string, radius int) error {
	if c == nil || c.asynq == nil {
		return errors.New("scheduler client not configured")
	}

	task, err := NewMapRenderTask(MapRenderPayload{JobID: jobID, Query: query, Radius: radius})
	if err != nil {
		return err
	}

	_, err = c.asynq.EnqueueContext(ctx, task,
		asynq.Queue(c.queue),
		asynq.TaskID(jobID),
		asynq.MaxRetry(mapRenderMaxRetry),
		asynq.Timeout(mapRenderTimeout),
	)
	return err
}

// JobFailure reports whether the render task for jobID was archived, which
// asynq does once retries are exhausted or skipped, along with its last error.
// Unknown and still-running tasks are not failures.
func (c *Client) JobFailure(_ context.Context, jobID string) (string, bool, error) {
	if c == nil || c.inspector == nil {
		return "", false, errors.New("scheduler client not configured")
	}

	info, err := c.inspector.GetTaskInfo(c.queue, jobID)
	switch {
	case errors.Is(err, asynq.ErrTaskNotFound), errors.Is(err, asynq.ErrQueueNotFound):
		return "", false, nil
	case err != nil:
		return "", false, err
	}
	return taskFailure(info)
}

func taskFailure(info *asynq.TaskInfo) (string, bool, error) {
	if info.State != asynq.TaskStateArchived {
		return "", false, nil
	}
	return info.LastErr, true, nil
}
