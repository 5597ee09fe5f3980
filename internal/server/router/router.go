package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/amcjunkshop/scrapledger/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(handler *handlers.RecordsHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	api := r.Group("/api")
	{
		api.POST("/records", handler.Save)
		api.GET("/records", handler.Query)
		api.DELETE("/records/:id", handler.Delete)
		api.GET("/records/export", handler.Export)
		api.POST("/invoice", handler.Invoice)
		api.GET("/advice", handler.Advice)
		api.POST("/categorize", handler.Categorize)
		api.GET("/catalog", handler.Catalog)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
