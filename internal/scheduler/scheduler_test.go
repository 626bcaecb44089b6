package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"geolocation_backend/platform/apperr"
	"geolocation_backend/platform/logger"

	"github.com/hibiken/asynq"
)

type recordingRenderer struct {
	calls []MapRenderPayload
	err   error
}

func (r *recordingRenderer) RenderJob(_ context.Context, jobID, query string, radius int) error {
	r.calls = append(r.calls, MapRenderPayload{JobID: jobID, Query: query, Radius: radius})
	return r.err
}

func TestMapRenderPayloadRoundTrip(t *testing.T) {
	task, err := NewMapRenderTask(MapRenderPayload{JobID: "job-1", Query: "Eiffel Tower", Radius: 500})
	if err != nil {
		t.Fatalf("NewMapRenderTask: %v", err)
	}
	if task.Type() != TaskMapRender {
		t.Fatalf("expected type %s, got %s", TaskMapRender, task.Type())
	}

	payload, err := ParseMapRenderPayload(task)
	if err != nil {
		t.Fatalf("ParseMapRenderPayload: %v", err)
	}
	if payload.JobID != "job-1" || payload.Query != "Eiffel Tower" || payload.Radius != 500 {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestMapRenderHandlerDispatches(t *testing.T) {
	renderer := &recordingRenderer{}
	mux := newServeMux(renderer, logger.Discard())

	task, _ := NewMapRenderTask(MapRenderPayload{JobID: "job-2", Query: "Big Ben", Radius: 250})
	if err := mux.ProcessTask(context.Background(), task); err != nil {
		t.Fatalf("ProcessTask: %v", err)
	}
	if len(renderer.calls) != 1 || renderer.calls[0].Query != "Big Ben" {
		t.Fatalf("unexpected calls %+v", renderer.calls)
	}
}

func TestMapRenderHandlerSkipsRetryForBadPayload(t *testing.T) {
	renderer := &recordingRenderer{}
	mux := newServeMux(renderer, logger.Discard())

	err := mux.ProcessTask(context.Background(), asynq.NewTask(TaskMapRender, []byte(`{"jobId":""}`)))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected SkipRetry, got %v", err)
	}
	if len(renderer.calls) != 0 {
		t.Fatal("renderer must not be called for a bad payload")
	}
}

func TestMapRenderHandlerReturnsRenderError(t *testing.T) {
	renderer := &recordingRenderer{err: errors.New("storage down")}
	mux := newServeMux(renderer, logger.Discard())

	task, _ := NewMapRenderTask(MapRenderPayload{JobID: "job-3", Query: "Big Ben"})
	err := mux.ProcessTask(context.Background(), task)
	if err == nil || errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected retryable error, got %v", err)
	}
}

func TestMapRenderHandlerSkipsRetryForInputErrors(t *testing.T) {
	for _, renderErr := range []error{
		apperr.NotFound("location not found"),
		apperr.Validation("latitude 95 out of range [-90, 90]"),
		apperr.BadRequest("invalid longitude"),
	} {
		renderer := &recordingRenderer{err: renderErr}
		mux := newServeMux(renderer, logger.Discard())

		task, _ := NewMapRenderTask(MapRenderPayload{JobID: "job-4", Query: "Atlantis"})
		err := mux.ProcessTask(context.Background(), task)
		if !errors.Is(err, asynq.SkipRetry) {
			t.Fatalf("expected SkipRetry for %q, got %v", renderErr, err)
		}
		if len(renderer.calls) != 1 {
			t.Fatalf("expected one render attempt, got %d", len(renderer.calls))
		}
	}
}

func TestTaskFailureOnlyForArchived(t *testing.T) {
	reason, failed, err := taskFailure(&asynq.TaskInfo{State: asynq.TaskStateArchived, LastErr: "location not found"})
	if err != nil || !failed || reason != "location not found" {
		t.Fatalf("expected archived task to be a failure, got %q %v %v", reason, failed, err)
	}

	for _, state := range []asynq.TaskState{asynq.TaskStatePending, asynq.TaskStateActive, asynq.TaskStateRetry, asynq.TaskStateCompleted} {
		if _, failed, _ := taskFailure(&asynq.TaskInfo{State: state, LastErr: "timeout"}); failed {
			t.Fatalf("expected %v not to be a failure", state)
		}
	}
}

func TestJobFailureWithoutClient(t *testing.T) {
	var client *Client
	if _, _, err := client.JobFailure(context.Background(), "job-5"); err == nil {
		t.Fatal("expected error from unconfigured client")
	}
}

type stubPruner struct {
	cutoffs []time.Time
}

func (s *stubPruner) Prune(cutoff time.Time) (int, error) {
	s.cutoffs = append(s.cutoffs, cutoff)
	return 2, nil
}

func TestMapOutputCleanupUsesRetention(t *testing.T) {
	pruner := &stubPruner{}
	cleanup := NewMapOutputCleanup(pruner, logger.Discard(), time.Minute, 6*time.Hour)
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	cleanup.now = func() time.Time { return now }

	cleanup.cleanup()

	if len(pruner.cutoffs) != 1 || !pruner.cutoffs[0].Equal(now.Add(-6*time.Hour)) {
		t.Fatalf("unexpected cutoffs %v", pruner.cutoffs)
	}
}

func TestMapOutputCleanupDefaults(t *testing.T) {
	cleanup := NewMapOutputCleanup(&stubPruner{}, logger.Discard(), 0, 0)
	if cleanup.interval != defaultMapCleanupInterval || cleanup.retention != defaultMapRetention {
		t.Fatalf("unexpected defaults %s / %s", cleanup.interval, cleanup.retention)
	}
}

type stubSchedulerConfig struct {
	url      string
	insecure bool
}

func (s stubSchedulerConfig) GetRedisURL() string       { return s.url }
func (s stubSchedulerConfig) GetRedisTLSInsecure() bool { return s.insecure }
func (s stubSchedulerConfig) GetAsynqQueueName() string { return "" }
func (s stubSchedulerConfig) GetAsynqConcurrency() int  { return 0 }

func TestNewClientRequiresRedis(t *testing.T) {
	if _, err := NewClient(stubSchedulerConfig{}); err == nil {
		t.Fatal("expected error without redis url")
	}
}

func TestConnectParsesRedisURL(t *testing.T) {
	conn, err := connect(stubSchedulerConfig{url: "rediss://:secret@cache.internal:6380/2", insecure: true})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	opt := conn.redis
	if opt.Addr != "cache.internal:6380" || opt.Password != "secret" || opt.DB != 2 {
		t.Fatalf("unexpected opt %+v", opt)
	}
	if opt.TLSConfig == nil || !opt.TLSConfig.InsecureSkipVerify {
		t.Fatal("expected insecure TLS config for rediss with insecure flag")
	}
	if conn.queue != defaultQueue {
		t.Fatalf("expected default queue, got %q", conn.queue)
	}
}

func TestParseRedisURLPlain(t *testing.T) {
	opt, err := parseRedisURL("redis://localhost:6379/0", false)
	if err != nil {
		t.Fatalf("parseRedisURL: %v", err)
	}
	if opt.TLSConfig != nil {
		t.Fatal("expected no TLS for plain redis url")
	}
}
