package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// EngineState dumps the engine state
func (h *Handlers) EngineState(c *gin.Context) {
	data, err := h.engine.Dump()
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

// GetGlobal returns a global
func (h *Handlers) GetGlobal(c *gin.Context) {
	name := c.Param("name")
	value, err := h.engine.Global(name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"name":    name,
		"value":   value,
	})
}

// SetGlobal sets a global
func (h *Handlers) SetGlobal(c *gin.Context) {
	var req struct {
		Value *string `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request: " + err.Error(),
		})
		return
	}

	name := c.Param("name")
	if err := h.engine.SetGlobal(name, *req.Value); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"name":    name,
		"value":   *req.Value,
	})
}
