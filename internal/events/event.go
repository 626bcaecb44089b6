package events

import "time"

// SearchRecorded is published after a lookup has been appended to history.
type SearchRecorded struct {
	BaseEvent
	RecordID   int64     `json:"recordId"`
	Query      string    `json:"query"`
	Result     string    `json:"result"`
	RecordedAt time.Time `json:"recordedAt"`
}

func (e SearchRecorded) EventName() string { return "history.search.recorded" }

// MapRendered is published once per rendered document. ObjectKey is set when
// the document also reached object storage; JobID only for background renders.
type MapRendered struct {
	BaseEvent
	JobID     string  `json:"jobId,omitempty"`
	Query     string  `json:"query"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	POICount  int     `json:"poiCount"`
	FileName  string  `json:"fileName"`
	ObjectKey string  `json:"objectKey,omitempty"`
}

func (e MapRendered) EventName() string { return "maps.map.rendered" }
