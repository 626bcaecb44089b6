package transport

import "time"

type HistoryRequest struct {
	Limit int `form:"limit" validate:"omitempty,min=1,max=100"`
}

type SearchRecordResponse struct {
	ID        int64     `json:"id"`
	Query     string    `json:"query"`
	Result    string    `json:"result"`
	Timestamp time.Time `json:"timestamp"`
}

type HistoryResponse struct {
	Items []SearchRecordResponse `json:"items"`
}
