package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/xhost/internal/api/http"
	"github.com/GriffinCanCode/xhost/internal/api/middleware"
	"github.com/GriffinCanCode/xhost/internal/infrastructure/config"
	"github.com/GriffinCanCode/xhost/internal/infrastructure/logging"
	"github.com/GriffinCanCode/xhost/internal/infrastructure/monitoring"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router *gin.Engine
	http   *http.Server
	host   *Host
	logger *logging.Logger
	config *config.Config
}

// NewServer creates a server over host
func NewServer(cfg *config.Config, host *Host, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.AccessLog(logger.Named("http")))
	router.Use(monitoring.Middleware(host.Metrics))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	handlers := apihttp.NewHandlers(host.Loader, host.Engine, host.Metrics, logger)
	handlers.Register(router)

	router.GET("/metrics", gin.WrapH(host.Metrics.Handler()))
	if host.Fetcher != nil {
		router.GET("/metrics/breakers", func(c *gin.Context) {
			states := host.Fetcher.Breakers()
			out := make(map[string]string, len(states))
			for h, s := range states {
				out[h] = s.String()
			}
			c.JSON(http.StatusOK, gin.H{"breakers": out})
		})
	}

	return &Server{
		router: router,
		http: &http.Server{
			Addr:              net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		host:   host,
		logger: logger,
		config: cfg,
	}
}

// Handler returns the routed handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until the listener fails or Close is called
func (s *Server) Run() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Close gracefully shuts down the server and unloads every library
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...")

	var errs []error
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.http.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP shutdown failed", zap.Error(err))
		errs = append(errs, err)
	}
	if err := s.host.Close(); err != nil {
		errs = append(errs, err)
	}

	_ = s.logger.Sync()
	return errors.Join(errs...)
}
