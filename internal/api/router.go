package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"grid-planner/internal/middleware"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Log         *logrus.Logger
	Grids       GridStore
	Routes      Router
	CORSOrigins []string
	Version     string
}

const maxBodySize = 16 << 20 // 16 MB

// setupMiddleware configures all middleware on the Gin engine.
func setupMiddleware(r *gin.Engine, deps *RouterDeps) {
	r.SetTrustedProxies(nil) //nolint:errcheck // nil always succeeds.
	r.Use(middleware.RequestID(deps.Log))
	r.Use(middleware.Logger(deps.Log))
	r.Use(gin.Recovery())
	r.Use(middleware.MaxBodySize(maxBodySize))
	r.Use(cors.New(cors.Config{
		AllowOrigins: deps.CORSOrigins,
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type"},
		MaxAge:       1 * time.Hour,
	}))
	r.Use(middleware.PrometheusMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func registerRoutes(r *gin.Engine, deps *RouterDeps) {
	health := NewHealthHandler(deps.Grids, deps.Version)
	grids := NewGridHandler(deps.Grids, deps.Log)
	routes := NewRouteHandler(deps.Routes, deps.Log)

	r.GET("/health", health.Liveness)

	r.POST("/grids", grids.Create)
	r.GET("/grids/:id", grids.Get)
	r.POST("/grids/:id/zones", grids.ApplyZones)

	r.POST("/route", routes.Route)
	r.POST("/route/batch", routes.Batch)
}

// NewRouter creates the Gin engine with all middleware and routes.
func NewRouter(deps *RouterDeps) http.Handler {
	r := gin.New()
	setupMiddleware(r, deps)
	registerRoutes(r, deps)
	return r
}
