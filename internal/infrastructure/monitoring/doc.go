/*
Package monitoring provides Prometheus metrics for xhost.

Each Metrics value owns its own registry, so several hosts (or tests) can
live in one process without colliding on metric names.

# Metrics

  - xhost_libraries_loaded: libraries currently loaded
  - xhost_library_loads_total{result}: load attempts by outcome
  - xhost_library_unloads_total
  - xhost_dispose_errors_total: dispose hooks that failed during unload
  - xhost_invocations_total{kind,status}: command and function calls
  - xhost_invocation_duration_seconds{kind}
  - xhost_http_requests_total{method,path,status}
  - xhost_http_request_duration_seconds{method,path}
  - xhost_uptime_seconds

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	timer := monitoring.NewTimer(metrics, "function")
	out, err := fn.Invoke(args)
	timer.Stop(err)
*/
package monitoring
