// Package config provides 12-factor configuration for xhost.
//
// Configuration is loaded from environment variables with defaults. A
// profile file (YAML or TOML) named by XHOST_PROFILE adds libraries to load
// at startup, a directory to scan and globals to seed the engine with. CLI
// flags override both.
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Serving on %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//
// Environment Variables:
//   - XHOST_PORT, XHOST_HOST
//   - XHOST_LOG_LEVEL, XHOST_LOG_DEV
//   - XHOST_RATE_LIMIT_RPS, XHOST_RATE_LIMIT_BURST, XHOST_RATE_LIMIT_ENABLED
//   - XHOST_LIBRARIES, XHOST_LIBRARY_DIR, XHOST_LIBRARY_PATTERN, XHOST_PROFILE
//   - XHOST_FETCH_ENABLED, XHOST_FETCH_DIR, XHOST_FETCH_RETRIES, XHOST_FETCH_TIMEOUT
//   - XHOST_SCRIPT_TIMEOUT
package config
