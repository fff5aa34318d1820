// Package server wires the library host to HTTP.
//
// Host builds the in-memory engine, the loader (with remote fetching when
// enabled) and the metrics registry from configuration, and autoloads the
// configured libraries. Server puts the API handlers behind the middleware
// stack (recovery, request id, access log, metrics, rate limiting) and
// exposes Prometheus metrics at /metrics.
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	host := server.NewHost(cfg, logger)
//	_ = host.Autoload(ctx)
//	srv := server.NewServer(cfg, host, logger)
//	go srv.Run()
//	defer srv.Close()
package server
