package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"gravity/internal/logger"
)

type RouterConfig struct {
	CORSOrigins []string
	// Tracing adds otelgin spans under ServiceName.
	Tracing     bool
	ServiceName string
}

// NewRouter builds the engine with middleware, health, metrics and the API routes.
func NewRouter(h *Handler, log logger.Logger, cfg RouterConfig) *gin.Engine {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.Tracing {
		name := cfg.ServiceName
		if name == "" {
			name = "gravity"
		}
		r.Use(otelgin.Middleware(name))
	}
	r.Use(RequestID(), CORS(cfg.CORSOrigins), RequestLogger(log), Metrics())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "gravity"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h.RegisterRoutes(r)
	return r
}
