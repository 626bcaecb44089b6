// Package http defines how feature modules plug into the gin router.
package http

import (
	"context"

	"geolocation_backend/platform/config"
	"geolocation_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

type RouterConfig interface {
	config.HTTPConfig
	config.JWTConfig
}

// HealthChecker backs GET /api/health.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Module is a feature that owns a set of routes under /api/v1.
type Module interface {
	Name() string
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext is handed to each Module. Protected runs the bearer token
// check on top of V1.
type RouterContext struct {
	V1        *gin.RouterGroup
	Protected *gin.RouterGroup
}

// App is assembled by cmd/api and consumed by router.New.
type App struct {
	Config  RouterConfig
	Logger  *logger.Logger
	Health  HealthChecker
	Modules []Module
}
