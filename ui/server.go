// Package ui exposes the truth engine to the consuming dashboard as a JSON
// API. Authentication lives upstream; the authenticated user arrives on the
// X-User-ID header set by the gateway.
package ui

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"supptruth/app"
	"supptruth/internal"
	"supptruth/internal/config"
)

// Server represents the truth engine's HTTP surface
type Server struct {
	router *gin.Engine
	truth  *app.TruthService
	log    *internal.Logger
	port   string
}

// NewServer creates a new API server
func NewServer(cfg config.ServerConfig, truth *app.TruthService, logger *internal.Logger) *Server {
	gin.SetMode(cfg.GinMode)
	s := &Server{
		router: gin.New(),
		truth:  truth,
		log:    logger.Named("http"),
		port:   cfg.Port,
	}
	s.router.Use(gin.Recovery())
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.GET("/healthz", s.handleHealth)

	api := s.router.Group("/api")
	{
		api.GET("/dashboard/truth", s.handleDashboardTruth)
		api.GET("/supplements/:id/truth", s.handleSupplementTruth)
		api.POST("/supplements/:id/retest", s.handleStartRetest)
		api.POST("/checkins/import", s.handleImportCheckins)
	}
}

// Run starts the HTTP server and blocks
func (s *Server) Run() error {
	s.log.Info("listening on :%s", s.port)
	return s.router.Run(":" + s.port)
}

// Router exposes the gin engine for tests
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// userID extracts the authenticated user from the gateway header
func userID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetHeader("X-User-ID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid X-User-ID header"})
		return uuid.Nil, false
	}
	return id, true
}
