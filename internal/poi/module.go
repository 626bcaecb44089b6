package poi

import (
	apphttp "geolocation_backend/internal/http"
	"geolocation_backend/platform/validator"
)

// Module wires the points-of-interest HTTP routes.
type Module struct {
	handler *Handler
}

func NewModule(fetcher *Fetcher, val *validator.Validator) *Module {
	return &Module{handler: NewHandler(fetcher, val)}
}

func (m *Module) Name() string {
	return "poi"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/pois", m.handler.Nearby)
}

var _ apphttp.Module = (*Module)(nil)
