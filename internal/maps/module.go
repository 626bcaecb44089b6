package maps

import (
	apphttp "geolocation_backend/internal/http"
	"geolocation_backend/platform/validator"
)

// Module wires the geocoding HTTP routes.
type Module struct {
	handler *Handler
}

func NewModule(svc *Service, val *validator.Validator) *Module {
	return &Module{handler: NewHandler(svc, val)}
}

func (m *Module) Name() string {
	return "maps"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/geocode", m.handler.Geocode)
	ctx.Protected.GET("/geocode/suggest", m.handler.Suggest)
	ctx.Protected.GET("/reverse", m.handler.Reverse)
	ctx.Protected.GET("/distance", m.handler.Distance)
}

var _ apphttp.Module = (*Module)(nil)
