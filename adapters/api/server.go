package api

import (
	"github.com/gin-gonic/gin"

	"regdiag/app"
	"regdiag/internal"
	"regdiag/internal/config"
)

// Server exposes the evaluation service over HTTP.
type Server struct {
	router  *gin.Engine
	service *app.EvaluationService
	cfg     *config.Config
	logger  *internal.Logger
}

// NewServer creates the HTTP server and registers its routes.
func NewServer(cfg *config.Config, service *app.EvaluationService) *Server {
	gin.SetMode(cfg.Server.GinMode)
	s := &Server{
		router:  gin.Default(),
		service: service,
		cfg:     cfg,
		logger:  internal.DefaultLogger.WithComponent("API"),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	v1.POST("/evaluate", s.handleEvaluate)
}

// Start starts the web server
func (s *Server) Start() error {
	addr := ":" + s.cfg.Server.Port
	s.logger.Info("Starting regression diagnostics API on http://localhost%s", addr)
	return s.router.Run(addr)
}

// Router returns the underlying gin engine.
func (s *Server) Router() *gin.Engine {
	return s.router
}
