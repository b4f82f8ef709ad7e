package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

type RouterConfig struct {
	ServiceName string
	Tracing     bool
	Debug       bool
}

// NewRouter собирает gin-движок с маршрутами шлюза.
func NewRouter(h *AssistHandler, cfg RouterConfig) *gin.Engine {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Tracing {
		router.Use(otelgin.Middleware(cfg.ServiceName))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	AssistRouter(v1.Group("/assist"), h)

	return router
}

func AssistRouter(rg *gin.RouterGroup, h *AssistHandler) {
	rg.POST("/generate", h.Generate)
	rg.POST("/accessibility", h.Accessibility)
	rg.POST("/warnings", h.Warnings)
	rg.POST("/describe-image", h.DescribeImage)
	rg.POST("/translate", h.Translate)
	rg.POST("/analyze-post", h.AnalyzePost)
	rg.POST("/ideas", h.Ideas)
}
