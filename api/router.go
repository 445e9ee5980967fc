package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/kitchenscan/api/handler"
	"github.com/use-agent/kitchenscan/api/middleware"
	"github.com/use-agent/kitchenscan/config"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:    Recovery → Logger
//	Protected: Auth (if enabled) → RateLimit → Admission
//
// Health sits outside auth so monitoring probes always work.
func NewRouter(ex handler.Extractor, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	admission := middleware.NewAdmission(cfg.Admission)

	r.GET("/health", handler.Health(admission, startTime))

	protected := r.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))
	protected.Use(admission.Handler())

	protected.POST("/extract-items", handler.ExtractItems(ex))

	return r
}
