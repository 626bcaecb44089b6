package maps

import (
	"net/http"

	"geolocation_backend/internal/geo"
	"geolocation_backend/platform/httpkit"
	"geolocation_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler exposes the geocoding endpoints.
type Handler struct {
	svc *Service
	val *validator.Validator
}

func NewHandler(svc *Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Geocode handles GET /api/v1/geocode?q=...
func (h *Handler) Geocode(c *gin.Context) {
	var req GeocodeRequest
	if !h.bindQuery(c, &req) {
		return
	}

	coord, err := h.svc.Geocode(c.Request.Context(), req.Query)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, GeocodeResponse{Query: req.Query, Coordinate: coord})
}

// Suggest handles GET /api/v1/geocode/suggest?q=...
func (h *Handler) Suggest(c *gin.Context) {
	var req SuggestRequest
	if !h.bindQuery(c, &req) {
		return
	}

	results, err := h.svc.Suggest(c.Request.Context(), req.Query)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, results)
}

// Reverse handles GET /api/v1/reverse?q=lat,lon or ?lat=..&lon=..
func (h *Handler) Reverse(c *gin.Context) {
	var req ReverseRequest
	if !h.bindQuery(c, &req) {
		return
	}

	var coord geo.Coordinate
	switch {
	case req.Query != "":
		parsed, err := geo.ParseCoordinate(req.Query)
		if httpkit.HandleError(c, err) {
			return
		}
		coord = parsed
	case req.Latitude != nil && req.Longitude != nil:
		coord = geo.Coordinate{Latitude: *req.Latitude, Longitude: *req.Longitude}
	default:
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, "provide q=lat,lon or both lat and lon")
		return
	}

	address, err := h.svc.ReverseGeocode(c.Request.Context(), coord)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, ReverseResponse{Coordinate: coord, Address: address})
}

// Distance handles GET /api/v1/distance?from=...&to=...
func (h *Handler) Distance(c *gin.Context) {
	var req DistanceRequest
	if !h.bindQuery(c, &req) {
		return
	}

	result, err := h.svc.DistanceBetween(c.Request.Context(), req.From, req.To)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return false
	}
	return true
}
