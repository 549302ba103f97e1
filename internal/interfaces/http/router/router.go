// Package router assembles the gin engine: the global middleware chain, the
// public routes and the versioned, tenant-authenticated API group.
package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/siparisbot/backend/internal/infrastructure/config"
	"github.com/siparisbot/backend/internal/infrastructure/logger"
	"github.com/siparisbot/backend/internal/interfaces/http/dto"
	"github.com/siparisbot/backend/internal/interfaces/http/middleware"
)

// RouteRegistrar registers routes on the versioned API group
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// PublicRegistrar registers routes outside the API group (health, webhooks)
type PublicRegistrar interface {
	RegisterRoutes(r gin.IRoutes)
}

// EngineConfig configures the global middleware chain
type EngineConfig struct {
	Logger  *zap.Logger
	HTTP    config.HTTPConfig
	Tracing middleware.TracingConfig
	Metrics middleware.HTTPMetricsConfig
}

// NewEngine creates a gin engine with the global middleware installed.
// Order matters: the span and request ID exist before anything logs.
func NewEngine(cfg EngineConfig) (*gin.Engine, error) {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}

	engine.Use(
		middleware.Tracing(cfg.Tracing),
		middleware.RequestID(),
		middleware.SpanErrorMarker(),
		logger.GinMiddleware(cfg.Logger),
		logger.Recovery(cfg.Logger),
		middleware.CORS(cfg.HTTP.CORSAllowOrigins...),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
		middleware.HTTPMetrics(cfg.Metrics),
	)

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeNotFound, "Route not found", middleware.GetRequestID(c)))
	})
	engine.HandleMethodNotAllowed = true
	engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeBadRequest, "Method not allowed", middleware.GetRequestID(c)))
	})

	return engine, nil
}

// Router manages HTTP route registration
type Router struct {
	engine        *gin.Engine
	apiVersion    string
	apiMiddleware []gin.HandlerFunc
	registrars    []RouteRegistrar
	public        []publicRoutes
}

type publicRoutes struct {
	registrar  PublicRegistrar
	middleware []gin.HandlerFunc
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// WithAPIMiddleware appends middleware run on every API route, after the global chain
func WithAPIMiddleware(mw ...gin.HandlerFunc) RouterOption {
	return func(r *Router) {
		r.apiMiddleware = append(r.apiMiddleware, mw...)
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
		registrars: make([]RouteRegistrar, 0),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Register adds a RouteRegistrar to be registered later
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// RegisterPublic adds a registrar mounted at the root, with its own middleware
func (r *Router) RegisterPublic(registrar PublicRegistrar, mw ...gin.HandlerFunc) *Router {
	r.public = append(r.public, publicRoutes{registrar: registrar, middleware: mw})
	return r
}

// Setup registers all routes with the engine
func (r *Router) Setup() {
	for _, p := range r.public {
		p.registrar.RegisterRoutes(r.engine.Group("", p.middleware...))
	}

	api := r.engine.Group("/api/"+r.apiVersion, r.apiMiddleware...)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}

// APIPrefix returns the path prefix of the versioned API group
func (r *Router) APIPrefix() string {
	return "/api/" + r.apiVersion
}
