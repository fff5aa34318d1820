package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
	Library   LibraryConfig
	Fetch     FetchConfig
	Script    ScriptConfig

	// Globals seed the engine before any library is loaded. Only a profile
	// can set them.
	Globals map[string]string `ignored:"true"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"XHOST_PORT" default:"8700"`
	Host string `envconfig:"XHOST_HOST" default:"127.0.0.1"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"XHOST_LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"XHOST_LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"XHOST_RATE_LIMIT_RPS" default:"50"`
	Burst             int  `envconfig:"XHOST_RATE_LIMIT_BURST" default:"100"`
	Enabled           bool `envconfig:"XHOST_RATE_LIMIT_ENABLED" default:"true"`
}

// LibraryConfig lists the libraries loaded at startup.
type LibraryConfig struct {
	Paths   []string `envconfig:"XHOST_LIBRARIES"`
	Dir     string   `envconfig:"XHOST_LIBRARY_DIR"`
	Pattern string   `envconfig:"XHOST_LIBRARY_PATTERN" default:"**/*.xlib"`
	Profile string   `envconfig:"XHOST_PROFILE"`
}

// FetchConfig controls downloads of http(s) library paths.
type FetchConfig struct {
	Enabled bool          `envconfig:"XHOST_FETCH_ENABLED" default:"true"`
	Dir     string        `envconfig:"XHOST_FETCH_DIR"`
	Retries int           `envconfig:"XHOST_FETCH_RETRIES" default:"3"`
	Timeout time.Duration `envconfig:"XHOST_FETCH_TIMEOUT" default:"60s"`
}

// ScriptConfig controls script package evaluation.
type ScriptConfig struct {
	Timeout time.Duration `envconfig:"XHOST_SCRIPT_TIMEOUT" default:"5s"`
}

// Load loads configuration from environment variables, then merges the
// profile named by XHOST_PROFILE if there is one.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.Library.Profile != "" {
		p, err := LoadProfile(cfg.Library.Profile)
		if err != nil {
			return nil, err
		}
		cfg.Apply(p)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8700",
			Host: "127.0.0.1",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 50,
			Burst:             100,
			Enabled:           true,
		},
		Library: LibraryConfig{
			Pattern: "**/*.xlib",
		},
		Fetch: FetchConfig{
			Enabled: true,
			Retries: 3,
			Timeout: 60 * time.Second,
		},
		Script: ScriptConfig{
			Timeout: 5 * time.Second,
		},
	}
}

// Apply merges a profile into the configuration. Profile libraries are
// loaded after those from the environment; the profile directory and
// pattern only fill in values the environment left unset.
func (c *Config) Apply(p *Profile) {
	c.Library.Paths = append(c.Library.Paths, p.Libraries...)
	if c.Library.Dir == "" {
		c.Library.Dir = p.Dir
	}
	if p.Pattern != "" && (c.Library.Pattern == "" || c.Library.Pattern == Default().Library.Pattern) {
		c.Library.Pattern = p.Pattern
	}
	if len(p.Globals) > 0 && c.Globals == nil {
		c.Globals = make(map[string]string, len(p.Globals))
	}
	for k, v := range p.Globals {
		c.Globals[k] = v
	}
}
