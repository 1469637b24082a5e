// Package api assembles the gin HTTP server for the usage-analytics API.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/tokenwatch/tokenwatch/internal/api/handlers"
	"github.com/tokenwatch/tokenwatch/internal/api/middleware"
	"github.com/tokenwatch/tokenwatch/internal/config"
	log "github.com/tokenwatch/tokenwatch/internal/logging"
)

const shutdownTimeout = 10 * time.Second

// Server wraps the gin engine and the underlying HTTP server.
type Server struct {
	engine *gin.Engine
	srv    *http.Server
}

// New builds the router with CORS, request size limits and the usage
// routes mounted under /v1.
func New(cfg *config.Config, h *handlers.Handler) *Server {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware(cfg.AllowOrigins))
	engine.Use(middleware.RequestSizeLimit(cfg.MaxRequestBodyBytes))

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := engine.Group("/v1")
	{
		v1.GET("/usage/stats", h.GetUsageStats)
		v1.GET("/usage/dashboard", h.GetDashboard)
		v1.POST("/usage/events", h.PostUsageEvent)
	}

	return &Server{
		engine: engine,
		srv: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		log.Infof("HTTP server listening on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("api: serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("api: shutdown: %w", err)
	}
	log.Infof("HTTP server stopped")
	return nil
}

// Engine exposes the router, mainly for tests.
func (s *Server) Engine() *gin.Engine { return s.engine }

// corsMiddleware allows the admin panel origin(s) to call the API from a
// browser. An empty list permits all origins.
func corsMiddleware(origins []string) gin.HandlerFunc {
	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = origins
	}
	return cors.New(corsCfg)
}
