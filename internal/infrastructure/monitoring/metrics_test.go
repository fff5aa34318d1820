package monitoring

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndependentRegistries(t *testing.T) {
	a := NewMetrics()
	b := NewMetrics()

	a.RecordLoad(LoadOK)
	assert.Equal(t, 1.0, testutil.ToFloat64(a.Loads.WithLabelValues(LoadOK)))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.Loads.WithLabelValues(LoadOK)))
}

func TestSnapshot(t *testing.T) {
	m := NewMetrics()

	m.RecordLoad(LoadOK)
	m.RecordLoad(LoadNoop)
	m.RecordLoad(LoadInvalid)
	m.SetLibrariesLoaded(1)
	m.RecordUnload()
	m.RecordDisposeError()
	m.RecordInvocation("command", StatusOK, time.Millisecond)
	m.RecordInvocation("function", StatusFailed, time.Millisecond)

	s := m.Snapshot()
	assert.Equal(t, int64(3), s.Loads)
	assert.Equal(t, int64(1), s.LoadFailures)
	assert.Equal(t, int64(1), s.LibrariesLoaded)
	assert.Equal(t, int64(1), s.Unloads)
	assert.Equal(t, int64(1), s.DisposeErrors)
	assert.Equal(t, int64(2), s.Invocations)
	assert.Equal(t, int64(1), s.InvocationFails)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DisposeErrors))
}

func TestTimer(t *testing.T) {
	m := NewMetrics()
	unknown := errors.New("unknown")

	NewTimer(m, "function").Stop(nil)
	NewTimer(m, "function").Stop(errors.New("boom"), unknown)
	NewTimer(m, "command").Stop(unknown, unknown)
	NewTimer(nil, "command").Stop(nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Invocations.WithLabelValues("function", StatusOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Invocations.WithLabelValues("function", StatusFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Invocations.WithLabelValues("command", StatusUnknown)))
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetrics()

	router := gin.New()
	router.Use(Middleware(m))
	router.GET("/libraries/:name", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/metrics", gin.WrapH(m.Handler()))

	for _, p := range []string{"/libraries/a.xlib", "/libraries/b.xlib", "/nope"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, p, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/libraries/:name", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "unmatched", "404")))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body, _ := io.ReadAll(w.Body)
	assert.Contains(t, string(body), "xhost_http_requests_total")
	assert.Contains(t, string(body), "xhost_uptime_seconds")
}
