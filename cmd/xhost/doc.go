// Package main is the xhost command: it loads external libraries into an
// in-memory engine and either runs one operation or serves the host over
// HTTP.
//
// Usage:
//
//	xhost [flags] serve
//	xhost [flags] list [libraries|packages|commands|functions]
//	xhost [flags] command NAME [ARGS...]
//	xhost [flags] function NAME [ARGS...]
//
// Libraries come from -lib (repeatable), -dir/-pattern, the profile named by
// -profile or XHOST_PROFILE, and the XHOST_LIBRARIES variable. -set seeds
// engine globals, and -dump prints the engine state as JSON after the
// operation.
//
// Examples:
//
//	# Call a function from a library
//	./xhost -lib examples.xlib function etHello
//
//	# Serve every library below ./plugins
//	./xhost -dir plugins -port 8700 serve
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
