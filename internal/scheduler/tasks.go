package scheduler

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hibiken/asynq"
)

const TaskMapRender = "maps.render"

type MapRenderPayload struct {
	JobID  string `json:"jobId"`
	Query  string `json:"query"`
	Radius int    `json:"radius"`
}

func NewMapRenderTask(payload MapRenderPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskMapRender, data), nil
}

func ParseMapRenderPayload(task *asynq.Task) (MapRenderPayload, error) {
	var payload MapRenderPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return MapRenderPayload{}, err
	}
	if payload.JobID == "" || strings.TrimSpace(payload.Query) == "" {
		return MapRenderPayload{}, fmt.Errorf("map render payload requires jobId and query")
	}
	return payload, nil
}
