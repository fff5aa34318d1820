package monitoring

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Load outcomes recorded by RecordLoad.
const (
	LoadOK        = "ok"
	LoadNoop      = "noop"
	LoadDuplicate = "duplicate"
	LoadInvalid   = "invalid"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	// Library metrics
	LibrariesLoaded prometheus.Gauge
	Loads           *prometheus.CounterVec
	Unloads         prometheus.Counter
	DisposeErrors   prometheus.Counter

	// Dispatch metrics
	Invocations        *prometheus.CounterVec
	InvocationDuration *prometheus.HistogramVec

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	startTime time.Time

	// Snapshot for JSON API - track current values
	snapshot Snapshot
	mu       sync.RWMutex
}

// Snapshot holds current metric values for the JSON API
type Snapshot struct {
	LibrariesLoaded int64   `json:"libraries_loaded"`
	Loads           int64   `json:"loads"`
	LoadFailures    int64   `json:"load_failures"`
	Unloads         int64   `json:"unloads"`
	DisposeErrors   int64   `json:"dispose_errors"`
	Invocations     int64   `json:"invocations"`
	InvocationFails int64   `json:"invocation_failures"`
	HTTPRequests    int64   `json:"http_requests"`
	UptimeSeconds   float64 `json:"uptime_seconds"`
}

// NewMetrics creates metrics registered on a fresh registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{
		registry:  reg,
		startTime: time.Now(),

		LibrariesLoaded: factory.NewGauge(prometheus.GaugeOpts{
			Name: "xhost_libraries_loaded",
			Help: "Number of libraries currently loaded",
		}),
		Loads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "xhost_library_loads_total",
			Help: "Library load attempts by result",
		}, []string{"result"}),
		Unloads: factory.NewCounter(prometheus.CounterOpts{
			Name: "xhost_library_unloads_total",
			Help: "Libraries unloaded",
		}),
		DisposeErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "xhost_dispose_errors_total",
			Help: "Package dispose hooks that failed during unload",
		}),

		Invocations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "xhost_invocations_total",
			Help: "Command and function invocations",
		}, []string{"kind", "status"}),
		InvocationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "xhost_invocation_duration_seconds",
			Help:    "Invocation duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"kind"}),

		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "xhost_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "xhost_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}

	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "xhost_uptime_seconds",
		Help: "Host uptime in seconds",
	}, func() float64 {
		return time.Since(m.startTime).Seconds()
	})

	return m
}

// Registry returns the registry the metrics live on
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordLoad records a load attempt
func (m *Metrics) RecordLoad(result string) {
	m.Loads.WithLabelValues(result).Inc()

	m.mu.Lock()
	m.snapshot.Loads++
	if result != LoadOK && result != LoadNoop {
		m.snapshot.LoadFailures++
	}
	m.mu.Unlock()
}

// RecordUnload records a completed unload
func (m *Metrics) RecordUnload() {
	m.Unloads.Inc()

	m.mu.Lock()
	m.snapshot.Unloads++
	m.mu.Unlock()
}

// RecordDisposeError records a failed dispose hook
func (m *Metrics) RecordDisposeError() {
	m.DisposeErrors.Inc()

	m.mu.Lock()
	m.snapshot.DisposeErrors++
	m.mu.Unlock()
}

// SetLibrariesLoaded sets the number of loaded libraries
func (m *Metrics) SetLibrariesLoaded(count int) {
	m.LibrariesLoaded.Set(float64(count))

	m.mu.Lock()
	m.snapshot.LibrariesLoaded = int64(count)
	m.mu.Unlock()
}

// RecordInvocation records a command or function call
func (m *Metrics) RecordInvocation(kind, status string, duration time.Duration) {
	m.Invocations.WithLabelValues(kind, status).Inc()
	m.InvocationDuration.WithLabelValues(kind).Observe(duration.Seconds())

	m.mu.Lock()
	m.snapshot.Invocations++
	if status != StatusOK {
		m.snapshot.InvocationFails++
	}
	m.mu.Unlock()
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())

	m.mu.Lock()
	m.snapshot.HTTPRequests++
	m.mu.Unlock()
}

// Snapshot returns current values for the JSON API
func (m *Metrics) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := m.snapshot
	s.UptimeSeconds = time.Since(m.startTime).Seconds()
	return s
}
