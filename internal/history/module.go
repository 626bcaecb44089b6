// Package history wires the search history log into the HTTP layer.
package history

import (
	"geolocation_backend/internal/history/handler"
	"geolocation_backend/internal/history/service"
	apphttp "geolocation_backend/internal/http"
	"geolocation_backend/platform/validator"
)

type Module struct {
	handler *handler.Handler
}

// NewModule builds the HTTP module around an existing service, which is shared
// with the lookup modules that append to history.
func NewModule(svc *service.Service, val *validator.Validator) *Module {
	return &Module{handler: handler.New(svc, val)}
}

func (m *Module) Name() string {
	return "history"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/history")
	m.handler.RegisterRoutes(group)
}

var _ apphttp.Module = (*Module)(nil)
