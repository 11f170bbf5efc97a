package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kanon0111/sdlg-edu/internal/metrics"
)

// Rate-limited actions.
const (
	ActionGenerate = "generate"
	ActionQuality  = "quality"
)

type Handlers struct {
	Generate *GenerateHandler
	Quality  *QualityHandler
	Limits   *LimitHandler
}

func NewRouter(h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(metrics.MetricsMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/patterns", Patterns)
		api.GET("/limits", h.Limits.GetLimits)
		api.POST("/generate", h.Limits.RateLimit(ActionGenerate), h.Generate.Generate)
		api.POST("/quality", h.Limits.RateLimit(ActionQuality), h.Quality.Report)
	}
	return r
}
