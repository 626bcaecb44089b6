package handler

import (
	"net/http"

	"geolocation_backend/internal/history/service"
	"geolocation_backend/internal/history/transport"
	"geolocation_backend/platform/httpkit"
	"geolocation_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.Recent)
}

func (h *Handler) Recent(c *gin.Context) {
	var req transport.HistoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	records, err := h.svc.Recent(c.Request.Context(), req.Limit)
	if httpkit.HandleError(c, err) {
		return
	}

	items := make([]transport.SearchRecordResponse, 0, len(records))
	for _, rec := range records {
		items = append(items, transport.SearchRecordResponse{
			ID:        rec.ID,
			Query:     rec.Query,
			Result:    rec.Result,
			Timestamp: rec.Timestamp,
		})
	}

	httpkit.OK(c, transport.HistoryResponse{Items: items})
}
