package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/charactercatalog/catalog-api/internal/api/handler"
	"github.com/charactercatalog/catalog-api/internal/api/middleware"
	"github.com/charactercatalog/catalog-api/internal/core/ports"

	_ "github.com/charactercatalog/catalog-api/docs"
)

// RouterDeps collects what NewRouter needs to wire the HTTP surface.
type RouterDeps struct {
	Characters   ports.CharacterService
	Readiness    map[string]ports.Pinger
	AllowOrigins []string
	Logger       zerolog.Logger
	// Registry receives the HTTP metrics and backs /metrics. Nil means the
	// Prometheus default registry, where the catalog metrics also live.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps RouterDeps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)
	e.Validator = handler.NewValidator()

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}

	origins := deps.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: origins,
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "catalog",
		Subsystem:  "http",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics" || c.Path() == "/health"
		},
	}))

	// --- Characters ---
	characters := handler.NewCharacterHandler(deps.Characters)
	e.GET("/characters", characters.List)
	e.GET("/characters/:id", characters.Get)
	e.POST("/characters", characters.Create)
	e.PUT("/characters/:id", characters.Update)
	e.DELETE("/characters/:id", characters.Delete)

	// --- Health probes ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewReadinessHandler(deps.Readiness).Readiness)

	// --- Ops ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
