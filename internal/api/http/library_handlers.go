package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/xhost/internal/xlib"
)

// OperationView describes a registered command or function.
type OperationView struct {
	Name    string `json:"name"`
	Params  string `json:"params"`
	Returns string `json:"returns"`
}

// PackageView describes a loaded package.
type PackageView struct {
	Identifier string          `json:"identifier"`
	HasInit    bool            `json:"has_init"`
	HasDispose bool            `json:"has_dispose"`
	Commands   []OperationView `json:"commands"`
	Functions  []OperationView `json:"functions"`
}

// LibraryView describes a loaded library.
type LibraryView struct {
	Name     string        `json:"name"`
	Path     string        `json:"path"`
	Source   string        `json:"source"`
	Checksum string        `json:"checksum,omitempty"`
	LoadedAt time.Time     `json:"loaded_at"`
	Packages []PackageView `json:"packages"`
}

func viewOf(b *xlib.Bundle) LibraryView {
	v := LibraryView{
		Name:     b.Name,
		Path:     b.Path,
		Source:   b.Source.ID(),
		Checksum: b.Checksum,
		LoadedAt: b.LoadedAt,
		Packages: make([]PackageView, 0, len(b.Packages)),
	}
	for _, p := range b.Packages {
		pv := PackageView{
			Identifier: p.Identifier,
			HasInit:    p.Init != nil,
			HasDispose: p.Dispose != nil,
			Commands:   make([]OperationView, 0, len(p.Commands)),
			Functions:  make([]OperationView, 0, len(p.Functions)),
		}
		for _, cmd := range p.Commands {
			pv.Commands = append(pv.Commands, OperationView{Name: cmd.Name, Params: cmd.Params.String(), Returns: cmd.Returns.String()})
		}
		for _, fn := range p.Functions {
			pv.Functions = append(pv.Functions, OperationView{Name: fn.Name, Params: fn.Params.String(), Returns: xlib.ReturnString.String()})
		}
		v.Packages = append(v.Packages, pv)
	}
	return v
}

// ListLibraries returns loaded libraries in load order
func (h *Handlers) ListLibraries(c *gin.Context) {
	h.mu.Lock()
	bundles := h.loader.Snapshot().Bundles()
	h.mu.Unlock()

	views := make([]LibraryView, 0, len(bundles))
	for _, b := range bundles {
		views = append(views, viewOf(b))
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"libraries": views,
	})
}

// LoadLibrary loads the library at the given path or URL
func (h *Handlers) LoadLibrary(c *gin.Context) {
	var req struct {
		Path string `json:"path" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request: " + err.Error(),
		})
		return
	}

	h.mu.Lock()
	known := len(h.loader.Snapshot().Bundles())
	b, err := h.loader.Load(c.Request.Context(), req.Path)
	loaded := len(h.loader.Snapshot().Bundles()) > known
	h.mu.Unlock()

	if err != nil {
		h.logger.Warn("Library load rejected", zap.String("path", req.Path), zap.Error(err))
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if loaded {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{
		"success": true,
		"library": viewOf(b),
	})
}

// ScanLibraries loads every matching library below a directory
func (h *Handlers) ScanLibraries(c *gin.Context) {
	var req struct {
		Dir     string `json:"dir" binding:"required"`
		Pattern string `json:"pattern"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request: " + err.Error(),
		})
		return
	}

	h.mu.Lock()
	bundles, err := h.loader.LoadDir(c.Request.Context(), req.Dir, req.Pattern)
	h.mu.Unlock()

	joined, partial := err.(interface{ Unwrap() []error })
	if err != nil && !partial {
		respondError(c, err)
		return
	}

	views := make([]LibraryView, 0, len(bundles))
	for _, b := range bundles {
		views = append(views, viewOf(b))
	}
	failures := []string{}
	if partial {
		for _, e := range joined.Unwrap() {
			failures = append(failures, e.Error())
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   err == nil,
		"libraries": views,
		"failures":  failures,
	})
}

// UnloadLibrary unloads a library by name (path parameter) or by path
// (?path= query)
func (h *Handlers) UnloadLibrary(c *gin.Context) {
	target := c.Param("name")
	if target == "" {
		target = c.Query("path")
	}
	if target == "" {
		respondError(c, fmt.Errorf("%w: library name or path required", xlib.ErrInvalidArgument))
		return
	}

	h.mu.Lock()
	err := h.loader.Unload(target)
	h.mu.Unlock()

	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"unloaded": target,
	})
}

func (h *Handlers) listing(c *gin.Context, key string, names func() []string) {
	h.mu.Lock()
	out := names()
	h.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		key:       out,
	})
}

// ListPackages returns registered package identifiers
func (h *Handlers) ListPackages(c *gin.Context) {
	h.listing(c, "packages", func() []string { return h.loader.Snapshot().PackageNames() })
}

// ListCommands returns registered command names
func (h *Handlers) ListCommands(c *gin.Context) {
	h.listing(c, "commands", func() []string { return h.loader.Snapshot().CommandNames() })
}

// ListFunctions returns registered function names
func (h *Handlers) ListFunctions(c *gin.Context) {
	h.listing(c, "functions", func() []string { return h.loader.Snapshot().FunctionNames() })
}
