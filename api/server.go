// Package api exposes the qualification engine over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/safeer-maker/traded.com-scraping-for-keystone/models"
)

// Runner is the core the API front end drives.
type Runner interface {
	AnalyzeBrokers(ctx context.Context, brokers []models.BrokerInput) ([]models.BrokerProfile, error)
	DiscoverBrokers(ctx context.Context, regions []string, maxPages int) ([]models.BrokerProfile, error)
}

// Server is the HTTP API front end.
type Server struct {
	runner Runner
	router *gin.Engine
	log    *zap.SugaredLogger
}

// DiscoveryRequest mirrors the caller-facing discovery contract.
type DiscoveryRequest struct {
	States           []string `json:"states" binding:"required"`
	MaxPagesPerState int      `json:"max_pages_per_state"`
}

func NewServer(runner Runner, log *zap.SugaredLogger, debug bool) *Server {
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{runner: runner, router: router, log: log}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.POST("/analyze-brokers", s.handleAnalyze)
	router.POST("/discover-brokers", s.handleDiscover)

	return s
}

// Router exposes the handler for tests.
func (s *Server) Router() http.Handler { return s.router }

// Start serves until the listener fails. Scraping runs are long-lived, so
// no write timeout is set; the read timeout still bounds slow clients.
func (s *Server) Start(addr string) error {
	server := &http.Server{
		Addr:        addr,
		Handler:     s.router,
		ReadTimeout: 15 * time.Second,
	}
	return server.ListenAndServe()
}

func (s *Server) handleAnalyze(c *gin.Context) {
	var brokers []models.BrokerInput
	if err := c.ShouldBindJSON(&brokers); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	s.log.Infow("analyze request received", "brokers", len(brokers))
	qualified, err := s.runner.AnalyzeBrokers(c.Request.Context(), brokers)
	if err != nil {
		s.log.Errorw("analysis run failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if qualified == nil {
		qualified = []models.BrokerProfile{}
	}
	c.JSON(http.StatusOK, qualified)
}

func (s *Server) handleDiscover(c *gin.Context) {
	var req DiscoveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	s.log.Infow("discovery request received", "states", req.States)
	discovered, err := s.runner.DiscoverBrokers(c.Request.Context(), req.States, req.MaxPagesPerState)
	if err != nil {
		s.log.Errorw("discovery run failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if discovered == nil {
		discovered = []models.BrokerProfile{}
	}
	c.JSON(http.StatusOK, discovered)
}
