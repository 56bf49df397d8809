// README: API gateway; registers HTTP routes and delegates to module services.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"skyline/internal/http/handlers"
	"skyline/internal/http/middleware"
	"skyline/internal/infra"
	"skyline/internal/modules/coverage"
)

type ServerDeps struct {
	Coverage *coverage.Service
	Results  *coverage.Store
	Verifier infra.TokenVerifier // nil disables auth
	Metrics  http.Handler        // nil disables /metrics
}

type Server struct {
	deps ServerDeps
}

func NewServer(deps ServerDeps) *Server {
	return &Server{deps: deps}
}

func (s *Server) Routes() http.Handler {
	r := gin.New()
	r.Use(middleware.Logging(), middleware.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if s.deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(s.deps.Metrics))
	}

	coverageHandler := handlers.NewCoverageHandler(s.deps.Coverage, s.deps.Results)
	gridHandler := handlers.NewGridHandler()

	api := r.Group("/api", middleware.Auth(s.deps.Verifier))
	api.POST("/coverage", coverageHandler.Start)
	api.POST("/coverage/cancel", coverageHandler.Cancel)
	api.GET("/coverage/status", coverageHandler.Status)
	api.GET("/coverage/results", coverageHandler.ListResults)
	api.GET("/coverage/results/:id", coverageHandler.GetResult)
	api.DELETE("/coverage/results/:id", coverageHandler.DeleteResult)

	api.GET("/grid/encode", gridHandler.Encode)
	api.GET("/grid/:locator", gridHandler.Decode)

	return r
}
