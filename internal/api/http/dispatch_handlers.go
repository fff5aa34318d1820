package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

type callRequest struct {
	Args []string `json:"args"`
}

// bindArgs reads the optional argument list. An empty body means no
// arguments.
func bindArgs(c *gin.Context) ([]string, error) {
	var req callRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return req.Args, nil
}

// CallCommand invokes a command
func (h *Handlers) CallCommand(c *gin.Context) {
	h.call(c, h.loader.CallCommand)
}

// CallFunction invokes a function
func (h *Handlers) CallFunction(c *gin.Context) {
	h.call(c, h.loader.CallFunction)
}

func (h *Handlers) call(c *gin.Context, invoke func(string, []string) (string, error)) {
	name := c.Param("name")
	args, err := bindArgs(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request: " + err.Error(),
		})
		return
	}

	h.mu.Lock()
	result, err := invoke(name, args)
	h.mu.Unlock()

	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"name":    name,
		"result":  result,
	})
}
