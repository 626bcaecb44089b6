package mapview

import (
	apphttp "geolocation_backend/internal/http"
	"geolocation_backend/platform/validator"
)

// Module wires the map rendering routes.
type Module struct {
	handler *Handler
}

// NewModule builds the module. jobs may be nil when background rendering is off.
func NewModule(explorer *Explorer, renderer *Renderer, jobs JobQueue, val *validator.Validator) *Module {
	return &Module{handler: NewHandler(explorer, renderer, jobs, val)}
}

func (m *Module) Name() string {
	return "mapview"
}

// RegisterRoutes keeps the document route public so a returned fileUrl opens
// in a browser, which sends no bearer token. Lookup only serves names of the
// form map_<uuid>.html.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/maps/files/:name", m.handler.File)

	maps := ctx.Protected.Group("/maps")
	maps.POST("", m.handler.Show)
	maps.POST("/jobs", m.handler.EnqueueJob)
	maps.GET("/jobs/:id", m.handler.JobStatus)
}

var _ apphttp.Module = (*Module)(nil)
