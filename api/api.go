// Package api provides the HTTP facade over the vestro workflow
// orchestrator.
//
// The facade is deliberately thin: every route delegates to one
// orchestrator operation and maps the root package's sentinel errors to
// HTTP status codes. Transport concerns (request ids, request logging,
// panic recovery) live here; workflow semantics stay in the workflow
// package.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/anthony-okoye/vestro/workflow"
)

// Pinger reports whether the backing store is reachable. Store
// implementations satisfy it; the health route uses it when one is
// configured.
type Pinger interface {
	Ping(ctx context.Context) error
}

// API wires the Echo HTTP handlers over a workflow orchestrator.
type API struct {
	orch   *workflow.Orchestrator
	health Pinger
	logger *slog.Logger
}

// Option customizes an API.
type Option func(*API)

// WithLogger sets the logger used for request logging. A nil logger is
// ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(a *API) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithHealthCheck wires a store ping into GET /v1/healthz. Without one
// the route only proves the process is serving.
func WithHealthCheck(p Pinger) Option {
	return func(a *API) {
		a.health = p
	}
}

// New creates an API over an orchestrator.
func New(orch *workflow.Orchestrator, opts ...Option) *API {
	a := &API{
		orch:   orch,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Handler returns the fully assembled http.Handler with middleware and
// all routes.
func (a *API) Handler() http.Handler {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(a.requestLogger())
	e.Use(echomw.Recover())

	a.RegisterRoutes(e)
	return e
}

// RegisterRoutes registers all workflow API routes on the given Echo
// instance.
func (a *API) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/v1")

	g.POST("/workflows", a.startWorkflow)
	g.GET("/workflows/:id", a.workflowStatus)
	g.POST("/workflows/:id/steps/:step", a.executeStep)
	g.POST("/workflows/:id/steps/:step/skip", a.skipStep)
	g.POST("/workflows/:id/reset", a.resetWorkflow)

	g.GET("/steps", a.listSteps)
	g.GET("/healthz", a.healthz)
}

// requestLogger emits one structured line per request through the API's
// slog logger.
func (a *API) requestLogger() echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus:    true,
		LogMethod:    true,
		LogURI:       true,
		LogRequestID: true,
		LogLatency:   true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.String("request_id", v.RequestID),
				slog.Duration("latency", v.Latency),
			}
			level := slog.LevelInfo
			if v.Error != nil {
				level = slog.LevelError
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}
			a.logger.LogAttrs(c.Request().Context(), level, "request", attrs...)
			return nil
		},
	})
}

func (a *API) healthz(c echo.Context) error {
	if a.health != nil {
		if err := a.health.Ping(c.Request().Context()); err != nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "store unreachable: "+err.Error())
		}
	}
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}
