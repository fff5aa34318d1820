// Package http exposes the library host over HTTP.
package http

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/xhost/internal/engine"
	"github.com/GriffinCanCode/xhost/internal/infrastructure/logging"
	"github.com/GriffinCanCode/xhost/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/xhost/internal/xlib/loader"
)

// Handlers serves the library host. The loader is not safe for concurrent
// use, so every handler that touches it holds mu.
type Handlers struct {
	mu      sync.Mutex
	loader  *loader.Loader
	engine  *engine.Memory
	metrics *monitoring.Metrics
	logger  *logging.Logger
	started time.Time
}

// NewHandlers creates handlers over a loader and the engine it calls back.
func NewHandlers(l *loader.Loader, e *engine.Memory, metrics *monitoring.Metrics, logger *logging.Logger) *Handlers {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Handlers{
		loader:  l,
		engine:  e,
		metrics: metrics,
		logger:  logger.Named("api"),
		started: time.Now(),
	}
}

// Register mounts every route on r.
func (h *Handlers) Register(r gin.IRouter) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)

	r.GET("/libraries", h.ListLibraries)
	r.POST("/libraries", h.LoadLibrary)
	r.POST("/libraries/scan", h.ScanLibraries)
	r.DELETE("/libraries", h.UnloadLibrary)
	r.DELETE("/libraries/:name", h.UnloadLibrary)

	r.GET("/packages", h.ListPackages)
	r.GET("/commands", h.ListCommands)
	r.GET("/functions", h.ListFunctions)
	r.POST("/commands/:name", h.CallCommand)
	r.POST("/functions/:name", h.CallFunction)

	r.GET("/engine/state", h.EngineState)
	r.GET("/engine/globals/:name", h.GetGlobal)
	r.PUT("/engine/globals/:name", h.SetGlobal)

	r.GET("/metrics/json", h.MetricsJSON)
}

// Root describes the service
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "xhost",
		"status":  "running",
		"endpoints": []string{
			"/libraries", "/packages", "/commands", "/functions",
			"/engine/state", "/metrics", "/metrics/json", "/health",
		},
	})
}

// Health reports liveness and what is loaded
func (h *Handlers) Health(c *gin.Context) {
	h.mu.Lock()
	stats := h.loader.Snapshot().Stats()
	h.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"status":         "healthy",
		"uptime_seconds": time.Since(h.started).Seconds(),
		"libraries":      stats.Libraries,
		"packages":       stats.Packages,
		"commands":       stats.Commands,
		"functions":      stats.Functions,
	})
}

// MetricsJSON returns the metrics snapshot
func (h *Handlers) MetricsJSON(c *gin.Context) {
	if h.metrics == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "metrics disabled"})
		return
	}
	c.JSON(http.StatusOK, h.metrics.Snapshot())
}
