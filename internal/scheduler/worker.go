package scheduler

import (
	"context"
	"fmt"

	"geolocation_backend/platform/apperr"
	"geolocation_backend/platform/config"
	"geolocation_backend/platform/logger"

	"github.com/hibiken/asynq"
)

const defaultConcurrency = 10

// MapRenderer runs a background render and stores its document.
type MapRenderer interface {
	RenderJob(ctx context.Context, jobID, query string, radius int) error
}

// Worker consumes map render tasks from the configured queue.
type Worker struct {
	server  *asynq.Server
	handler asynq.Handler
	log     *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, renderer MapRenderer, log *logger.Logger) (*Worker, error) {
	conn, err := connect(cfg)
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = defaultConcurrency
	}

	return &Worker{
		server: asynq.NewServer(conn.redis, asynq.Config{
			Concurrency: concurrency,
			Queues:      map[string]int{conn.queue: 1},
			Logger:      asynqLogger{log},
		}),
		handler: newServeMux(renderer, log),
		log:     log,
	}, nil
}

func newServeMux(renderer MapRenderer, log *logger.Logger) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskMapRender, func(ctx context.Context, task *asynq.Task) error {
		payload, err := ParseMapRenderPayload(task)
		if err != nil {
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}

		jobLog := log.With("jobId", payload.JobID)
		if err := renderer.RenderJob(ctx, payload.JobID, payload.Query, payload.Radius); err != nil {
			jobLog.Warn("map render job failed", "error", err)
			if permanent(err) {
				return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
			}
			return err
		}
		jobLog.Info("map render job completed")
		return nil
	})
	return mux
}

// permanent reports failures caused by the job's input. Rerunning them would
// only repeat the same upstream lookup.
func permanent(err error) bool {
	switch apperr.GetKind(err) {
	case apperr.KindNotFound, apperr.KindValidation, apperr.KindBadRequest:
		return true
	}
	return false
}

// Run blocks until ctx is cancelled or the server fails to start.
func (w *Worker) Run(ctx context.Context) error {
	if err := w.server.Start(w.handler); err != nil {
		return fmt.Errorf("start worker: %w", err)
	}
	<-ctx.Done()
	w.server.Shutdown()
	return nil
}

// asynqLogger routes asynq's own logging into slog.
type asynqLogger struct{ log *logger.Logger }

func (l asynqLogger) Debug(args ...any) { l.log.Debug(fmt.Sprint(args...)) }
func (l asynqLogger) Info(args ...any)  { l.log.Info(fmt.Sprint(args...)) }
func (l asynqLogger) Warn(args ...any)  { l.log.Warn(fmt.Sprint(args...)) }
func (l asynqLogger) Error(args ...any) { l.log.Error(fmt.Sprint(args...)) }
func (l asynqLogger) Fatal(args ...any) { l.log.Error(fmt.Sprint(args...)) }
