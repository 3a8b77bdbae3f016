// Package api exposes the pipeline over HTTP for a browser form front end.
package api

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/valpere/veoprompt/internal"
	"github.com/valpere/veoprompt/internal/metrics"
	"github.com/valpere/veoprompt/internal/pipeline"
)

// History is the read side of the generation store.
type History interface {
	ListGenerations(ctx context.Context, limit int) ([]internal.Generation, error)
	GetGeneration(ctx context.Context, id string) (*internal.Generation, error)
}

type Config struct {
	CORSOrigins []string
	// UnlockKey overrides the built-in example keyword.
	UnlockKey string
}

type Server struct {
	pipeline *pipeline.Pipeline
	history  History
	config   Config
	logger   *zap.Logger
}

// New returns a server. history may be nil, in which case the history
// endpoints answer 503.
func New(p *pipeline.Pipeline, history History, cfg Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{pipeline: p, history: history, config: cfg, logger: logger}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(zapLogger(s.logger))
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(s.config.CORSOrigins) == 0 || (len(s.config.CORSOrigins) == 1 && s.config.CORSOrigins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = s.config.CORSOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", unlockHeader}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	healthHandler := func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	}
	router.GET("/healthz", healthHandler)
	router.HEAD("/healthz", healthHandler)
	router.GET("/readyz", s.ready)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	api := router.Group("/api")
	{
		api.POST("/compile", s.compile)
		api.POST("/generate", s.generate)
		api.POST("/translate", s.translate)
		api.GET("/examples", s.examples)
		api.GET("/history", s.listHistory)
		api.GET("/history/:id", s.getHistory)
	}

	return router
}
