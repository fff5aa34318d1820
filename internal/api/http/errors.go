package http

import (
	"errors"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/xhost/internal/xlib"
	"github.com/GriffinCanCode/xhost/pkg/external"
)

var validationErrors = []error{
	xlib.ErrInvalidArgument,
	xlib.ErrInvalidBundleFile,
	xlib.ErrDescriptorMissing,
	xlib.ErrDescriptorMalformed,
	xlib.ErrDescriptorInvalid,
	xlib.ErrPackageNotFound,
	xlib.ErrPackageNotInstantiable,
	xlib.ErrPackageEmpty,
	xlib.ErrPackageInitFailed,
}

// statusOf maps an error kind to an HTTP status. A failed invocation is
// checked first because its cause may itself be an argument error raised
// inside the callee.
func statusOf(err error) int {
	switch {
	case errors.Is(err, xlib.ErrInvocationFailed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, xlib.ErrDuplicateBundleName):
		return http.StatusConflict
	case errors.Is(err, xlib.ErrUnknownCommand),
		errors.Is(err, xlib.ErrUnknownFunction),
		errors.Is(err, xlib.ErrBundleNotLoaded),
		errors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound
	case xlib.IsSignatureError(err):
		return http.StatusBadRequest
	case errors.Is(err, external.ErrEngine):
		return http.StatusUnprocessableEntity
	}
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

// respondError writes err with the status its kind maps to.
func respondError(c *gin.Context, err error) {
	body := gin.H{
		"success": false,
		"error":   err.Error(),
	}

	var loadErr *xlib.LoadError
	if errors.As(err, &loadErr) {
		body["path"] = loadErr.Path
		if loadErr.Identifier != "" {
			body["package"] = loadErr.Identifier
		}
	}
	var invErr *xlib.InvocationError
	if errors.As(err, &invErr) {
		body["kind"] = invErr.Kind.String()
		body["name"] = invErr.Name
		body["trace"] = invErr.Trace
	}

	_ = c.Error(err)
	c.JSON(statusOf(err), body)
}
