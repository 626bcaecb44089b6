package poi

import (
	"net/http"

	"geolocation_backend/internal/geo"
	"geolocation_backend/platform/httpkit"
	"geolocation_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	fetcher *Fetcher
	val     *validator.Validator
}

func NewHandler(fetcher *Fetcher, val *validator.Validator) *Handler {
	return &Handler{fetcher: fetcher, val: val}
}

// Nearby handles GET /api/v1/pois?lat=..&lon=..&radius=..
func (h *Handler) Nearby(c *gin.Context) {
	var req NearbyRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	center := geo.Coordinate{Latitude: *req.Latitude, Longitude: *req.Longitude}
	radius := h.fetcher.ClampRadius(req.Radius)

	httpkit.OK(c, NearbyResponse{
		Center:       center,
		RadiusMeters: radius,
		Items:        h.fetcher.Fetch(c.Request.Context(), center, radius),
	})
}
